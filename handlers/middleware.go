package handlers

import (
	"context"
	"database/sql"
	"net/http"

	"shahrdav-backend/models"
	"shahrdav-backend/pkg/logger"
	"shahrdav-backend/pkg/token"
)

type contextKey string

const userContextKey contextKey = "currentUser"

// CurrentUser returns the authenticated user placed on the request context
// by RequireAuth. Nil for unauthenticated requests.
func CurrentUser(r *http.Request) *models.User {
	u, _ := r.Context().Value(userContextKey).(*models.User)
	return u
}

// loadUser resolves a session cookie to a live user row. Returns nil when
// the cookie is missing, invalid, expired, or the user no longer exists.
func loadUser(db *sql.DB, r *http.Request) *models.User {
	raw, err := token.FromRequest(r)
	if err != nil {
		return nil
	}
	claims, err := token.Verify(raw, jwtSecret)
	if err != nil {
		return nil
	}

	var u models.User
	err = db.QueryRow(`
		SELECT id, phone, first_name, last_name, is_admin, created_at, updated_at
		FROM users WHERE id = $1`, claims.UserID).
		Scan(&u.ID, &u.Phone, &u.FirstName, &u.LastName, &u.IsAdmin, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if err != sql.ErrNoRows {
			logger.Log.Errorw("load session user failed", "error", err)
		}
		return nil
	}
	return &u
}

// RequireAuth rejects requests without a valid session and puts the user on
// the request context.
func RequireAuth(db *sql.DB, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next(w, r)
			return
		}

		user := loadUser(db, r)
		if user == nil {
			writeError(w, http.StatusUnauthorized, "احراز هویت مورد نیاز است")
			return
		}

		next(w, r.WithContext(context.WithValue(r.Context(), userContextKey, user)))
	}
}

// RequireAdmin is RequireAuth plus the admin flag.
func RequireAdmin(db *sql.DB, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next(w, r)
			return
		}

		user := loadUser(db, r)
		if user == nil {
			writeError(w, http.StatusUnauthorized, "دسترسی غیرمجاز")
			return
		}
		if !user.IsAdmin {
			writeError(w, http.StatusForbidden, "دسترسی محدود - فقط ادمین")
			return
		}

		next(w, r.WithContext(context.WithValue(r.Context(), userContextKey, user)))
	}
}
