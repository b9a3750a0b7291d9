// Package token implements the stateless session: a signed JWT carried in
// an httpOnly cookie. Sign and Verify are pure functions; cookie IO happens
// only through the helpers here, at the HTTP boundary.
package token

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CookieName - the session cookie
const CookieName = "auth-token"

// Lifetime - session validity, matching the cookie max-age
const Lifetime = 7 * 24 * time.Hour

var (
	ErrNoToken      = errors.New("no session token")
	ErrInvalidToken = errors.New("invalid or expired session token")
)

// Claims - what the session token carries
type Claims struct {
	UserID  string
	Phone   string
	IsAdmin bool
}

// Sign issues a session token for the given claims, valid for Lifetime.
func Sign(c Claims, secret []byte) (string, error) {
	now := time.Now()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userId":  c.UserID,
		"phone":   c.Phone,
		"isAdmin": c.IsAdmin,
		"iat":     now.Unix(),
		"exp":     now.Add(Lifetime).Unix(),
	})
	return t.SignedString(secret)
}

// Verify parses and validates a raw token. It never panics and never
// returns partial claims: any signature, expiry or shape problem yields
// ErrInvalidToken.
func Verify(raw string, secret []byte) (*Claims, error) {
	t, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return secret, nil
	})
	if err != nil || !t.Valid {
		return nil, ErrInvalidToken
	}
	mc, ok := t.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	userID, ok := mc["userId"].(string)
	if !ok || userID == "" {
		return nil, ErrInvalidToken
	}
	phone, _ := mc["phone"].(string)
	isAdmin, _ := mc["isAdmin"].(bool)
	return &Claims{UserID: userID, Phone: phone, IsAdmin: isAdmin}, nil
}

// FromRequest extracts the raw token from the session cookie.
func FromRequest(r *http.Request) (string, error) {
	c, err := r.Cookie(CookieName)
	if err != nil || c.Value == "" {
		return "", ErrNoToken
	}
	return c.Value, nil
}

// SetCookie attaches the session cookie to the response:
// httpOnly, SameSite=Lax, Secure in production, 7-day max age.
func SetCookie(w http.ResponseWriter, raw string, production bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    raw,
		Path:     "/",
		HttpOnly: true,
		Secure:   production,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(Lifetime.Seconds()),
	})
}

// ClearCookie expires the session cookie immediately.
func ClearCookie(w http.ResponseWriter, production bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   production,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}
