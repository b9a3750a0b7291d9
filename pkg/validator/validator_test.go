package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidPhone(t *testing.T) {
	tests := []struct {
		phone string
		want  bool
	}{
		{"09123456789", true},
		{"09000000000", true},
		{"0912345678", false},   // too short
		{"091234567890", false}, // too long
		{"9123456789", false},   // missing leading zero
		{"08123456789", false},  // wrong prefix
		{"+989123456789", false},
		{"0912345678a", false},
		{"", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ValidPhone(tt.phone), "phone=%q", tt.phone)
	}
}

func TestValidateStruct(t *testing.T) {
	type form struct {
		Phone string `validate:"required,phone_ir"`
		OTP   string `validate:"required,len=6,numeric"`
	}

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, Validate(form{Phone: "09123456789", OTP: "123456"}))
	})

	t.Run("bad phone", func(t *testing.T) {
		err := Validate(form{Phone: "12345", OTP: "123456"})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "شماره تلفن نامعتبر است")
	})

	t.Run("missing otp", func(t *testing.T) {
		err := Validate(form{Phone: "09123456789"})
		assert.Error(t, err)
	})

	t.Run("short otp", func(t *testing.T) {
		err := Validate(form{Phone: "09123456789", OTP: "123"})
		assert.Error(t, err)
	})
}
