package validator

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

var iranPhonePattern = regexp.MustCompile(`^09[0-9]{9}$`)

func init() {
	validate = validator.New()
	validate.RegisterValidation("phone_ir", validateIranPhone)
}

// Validate validates a struct and returns a single user-facing error.
func Validate(s interface{}) error {
	if err := validate.Struct(s); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// ValidPhone reports whether a phone number matches the local mobile
// format 09xxxxxxxxx.
func ValidPhone(phone string) bool {
	return iranPhonePattern.MatchString(phone)
}

func validateIranPhone(fl validator.FieldLevel) bool {
	return ValidPhone(fl.Field().String())
}

func formatValidationError(err error) error {
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		var messages []string
		for _, e := range validationErrors {
			messages = append(messages, formatFieldError(e))
		}
		return fmt.Errorf("%s", strings.Join(messages, "؛ "))
	}
	return err
}

func formatFieldError(e validator.FieldError) string {
	field := fieldLabel(e.Field())

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s الزامی است", field)
	case "min":
		return fmt.Sprintf("%s باید حداقل %s کاراکتر باشد", field, e.Param())
	case "max":
		return fmt.Sprintf("%s باید حداکثر %s کاراکتر باشد", field, e.Param())
	case "len":
		return fmt.Sprintf("%s باید %s رقم باشد", field, e.Param())
	case "numeric":
		return fmt.Sprintf("%s باید عددی باشد", field)
	case "phone_ir":
		return "شماره تلفن نامعتبر است"
	default:
		return fmt.Sprintf("%s نامعتبر است", field)
	}
}

// fieldLabel maps struct field names to the labels users see
func fieldLabel(field string) string {
	switch field {
	case "Phone":
		return "شماره تلفن"
	case "OTP":
		return "کد تایید"
	case "FirstName":
		return "نام"
	case "LastName":
		return "نام خانوادگی"
	case "Title":
		return "عنوان"
	case "Address":
		return "آدرس"
	case "Latitude", "Longitude":
		return "موقعیت مکانی"
	case "StartDateTime":
		return "زمان شروع"
	case "RegistrationEnd":
		return "زمان پایان ثبت نام"
	default:
		return field
	}
}
