package token

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

func TestSignVerifyRoundtrip(t *testing.T) {
	claims := Claims{UserID: "u-1", Phone: "09123456789", IsAdmin: true}

	raw, err := Sign(claims, testSecret)
	require.NoError(t, err)
	require.NotEmpty(t, raw)

	got, err := Verify(raw, testSecret)
	require.NoError(t, err)
	assert.Equal(t, claims.UserID, got.UserID)
	assert.Equal(t, claims.Phone, got.Phone)
	assert.True(t, got.IsAdmin)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	raw, err := Sign(Claims{UserID: "u-1"}, testSecret)
	require.NoError(t, err)

	_, err = Verify(raw, []byte("other-secret"))
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	for _, raw := range []string{"", "not-a-jwt", "a.b.c"} {
		_, err := Verify(raw, testSecret)
		assert.ErrorIs(t, err, ErrInvalidToken, "raw=%q", raw)
	}
}

func TestVerifyRejectsTampering(t *testing.T) {
	raw, err := Sign(Claims{UserID: "u-1"}, testSecret)
	require.NoError(t, err)

	tampered := raw[:len(raw)-2] + "xx"
	_, err = Verify(tampered, testSecret)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestFromRequest(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	_, err := FromRequest(r)
	assert.ErrorIs(t, err, ErrNoToken)

	r.AddCookie(&http.Cookie{Name: CookieName, Value: "raw-token"})
	raw, err := FromRequest(r)
	require.NoError(t, err)
	assert.Equal(t, "raw-token", raw)
}

func TestSetAndClearCookie(t *testing.T) {
	w := httptest.NewRecorder()
	SetCookie(w, "raw-token", false)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]
	assert.Equal(t, CookieName, c.Name)
	assert.Equal(t, "raw-token", c.Value)
	assert.True(t, c.HttpOnly)
	assert.False(t, c.Secure)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
	assert.Equal(t, int(Lifetime.Seconds()), c.MaxAge)

	w = httptest.NewRecorder()
	SetCookie(w, "raw-token", true)
	assert.True(t, w.Result().Cookies()[0].Secure)

	w = httptest.NewRecorder()
	ClearCookie(w, false)
	cleared := w.Result().Cookies()[0]
	assert.Empty(t, cleared.Value)
	assert.Negative(t, cleared.MaxAge)
}
