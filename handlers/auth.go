package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"shahrdav-backend/models"
	"shahrdav-backend/pkg/logger"
	"shahrdav-backend/pkg/ratelimit"
	"shahrdav-backend/pkg/sms"
	"shahrdav-backend/pkg/token"
	"shahrdav-backend/pkg/validator"
)

// Shared handler dependencies, set once from main via Configure.
var (
	jwtSecret  []byte
	production bool
	smsSender  sms.Sender
	otpLimiter ratelimit.Limiter
)

// Configure wires the handler package's cross-cutting dependencies.
func Configure(secret string, prod bool, sender sms.Sender, limiter ratelimit.Limiter) {
	jwtSecret = []byte(secret)
	production = prod
	smsSender = sender
	otpLimiter = limiter
}

// writeJSON - JSON response helper
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError - uniform {"error": msg} response
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, models.ErrorResponse{Error: message})
}

// issueSession signs a session token for the user and sets the cookie.
func issueSession(w http.ResponseWriter, u *models.User) error {
	raw, err := token.Sign(token.Claims{UserID: u.ID, Phone: u.Phone, IsAdmin: u.IsAdmin}, jwtSecret)
	if err != nil {
		return err
	}
	token.SetCookie(w, raw, production)
	return nil
}

// findUserByPhone loads a user row, nil when absent.
func findUserByPhone(db *sql.DB, phone string) (*models.User, error) {
	var u models.User
	err := db.QueryRow(`
		SELECT id, phone, first_name, last_name, is_admin, created_at, updated_at
		FROM users WHERE phone = $1`, phone).
		Scan(&u.ID, &u.Phone, &u.FirstName, &u.LastName, &u.IsAdmin, &u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// createUser inserts a user and returns the stored row.
func createUser(db *sql.DB, phone, firstName, lastName string) (*models.User, error) {
	var u models.User
	err := db.QueryRow(`
		INSERT INTO users (phone, first_name, last_name)
		VALUES ($1, $2, $3)
		RETURNING id, phone, first_name, last_name, is_admin, created_at, updated_at`,
		phone, firstName, lastName).
		Scan(&u.ID, &u.Phone, &u.FirstName, &u.LastName, &u.IsAdmin, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// findOTP loads the latest code row for a phone+code pair, nil when absent.
func findOTP(db *sql.DB, phone, code string) (*models.OtpCode, error) {
	var o models.OtpCode
	err := db.QueryRow(`
		SELECT id, phone, code, verified, expires_at, created_at
		FROM otp_codes
		WHERE phone = $1 AND code = $2
		ORDER BY created_at DESC LIMIT 1`, phone, code).
		Scan(&o.ID, &o.Phone, &o.Code, &o.Verified, &o.ExpiresAt, &o.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// SendOTP godoc
// @Summary      Send a verification code
// @Description  Sends a 6-digit code to the phone number (console delivery in development)
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body models.SendOTPRequest true "Phone number"
// @Success      200  {object}  models.AuthResponse
// @Failure      400  {object}  models.ErrorResponse
// @Failure      429  {object}  models.ErrorResponse
// @Router       /auth/send-otp [post]
func SendOTP(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "متد مجاز نیست")
			return
		}

		var req models.SendOTPRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "فرمت درخواست نامعتبر است")
			return
		}
		if err := validator.Validate(req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		allowed, err := otpLimiter.Allow(req.Phone)
		if err != nil {
			logger.Log.Errorw("otp rate limiter failed", "error", err)
			// Limiter outage must not block logins.
			allowed = true
		}
		if !allowed {
			writeError(w, http.StatusTooManyRequests, "تعداد درخواست‌ها بیش از حد مجاز است. لطفاً کمی صبر کنید")
			return
		}

		code := models.GenerateOTP()

		tx, err := db.Begin()
		if err != nil {
			logger.Log.Errorw("send-otp begin tx failed", "error", err)
			writeError(w, http.StatusInternalServerError, "خطای سرور")
			return
		}
		defer tx.Rollback()

		// One live code per phone: drop any previous ones first.
		if _, err := tx.Exec("DELETE FROM otp_codes WHERE phone = $1", req.Phone); err != nil {
			logger.Log.Errorw("delete previous otp failed", "error", err)
			writeError(w, http.StatusInternalServerError, "خطای سرور")
			return
		}
		_, err = tx.Exec(`
			INSERT INTO otp_codes (phone, code, expires_at)
			VALUES ($1, $2, $3)`,
			req.Phone, code, time.Now().Add(models.OTPTTL))
		if err != nil {
			logger.Log.Errorw("insert otp failed", "error", err)
			writeError(w, http.StatusInternalServerError, "خطای سرور")
			return
		}
		if err := tx.Commit(); err != nil {
			logger.Log.Errorw("send-otp commit failed", "error", err)
			writeError(w, http.StatusInternalServerError, "خطای سرور")
			return
		}

		if err := smsSender.SendOTP(req.Phone, code); err != nil {
			logger.Log.Errorw("otp delivery failed", "phone", req.Phone, "error", err)
			writeError(w, http.StatusInternalServerError, "خطا در ارسال پیامک")
			return
		}

		resp := models.AuthResponse{
			Success: true,
			Message: "کد تایید ارسال شد",
		}
		if !production {
			resp.DevOTP = code
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// VerifyOTP godoc
// @Summary      Verify the code and sign in
// @Description  Verifies the code. Existing users get a session; new users are asked to complete their profile unless first/last name are provided inline.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body models.VerifyOTPRequest true "Phone and code"
// @Success      200  {object}  models.AuthResponse
// @Failure      400  {object}  models.ErrorResponse
// @Router       /auth/verify-otp [post]
func VerifyOTP(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "متد مجاز نیست")
			return
		}

		var req models.VerifyOTPRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "فرمت درخواست نامعتبر است")
			return
		}
		if err := validator.Validate(req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		otp, err := findOTP(db, req.Phone, req.OTP)
		if err != nil {
			logger.Log.Errorw("otp lookup failed", "error", err)
			writeError(w, http.StatusInternalServerError, "خطای سرور")
			return
		}
		if otp == nil || !otp.UsableForLogin(time.Now()) {
			writeError(w, http.StatusBadRequest, "کد تایید نامعتبر یا منقضی شده است")
			return
		}

		if _, err := db.Exec("UPDATE otp_codes SET verified = true WHERE id = $1", otp.ID); err != nil {
			logger.Log.Errorw("mark otp verified failed", "error", err)
			writeError(w, http.StatusInternalServerError, "خطای سرور")
			return
		}

		user, err := findUserByPhone(db, req.Phone)
		if err != nil {
			logger.Log.Errorw("user lookup failed", "error", err)
			writeError(w, http.StatusInternalServerError, "خطای سرور")
			return
		}

		firstName := strings.TrimSpace(req.FirstName)
		lastName := strings.TrimSpace(req.LastName)

		switch {
		case user != nil:
			// Known phone: log in.
			if err := issueSession(w, user); err != nil {
				logger.Log.Errorw("sign session failed", "error", err)
				writeError(w, http.StatusInternalServerError, "خطای سرور")
				return
			}
			db.Exec("DELETE FROM otp_codes WHERE id = $1", otp.ID)
			writeJSON(w, http.StatusOK, models.AuthResponse{
				Success: true,
				Message: "ورود موفقیت‌آمیز بود",
				User:    user,
			})

		case firstName != "" && lastName != "":
			// New phone with inline names: register in one step.
			user, err = createUser(db, req.Phone, firstName, lastName)
			if err != nil {
				logger.Log.Errorw("create user failed", "error", err)
				writeError(w, http.StatusInternalServerError, "خطای سرور")
				return
			}
			if err := issueSession(w, user); err != nil {
				logger.Log.Errorw("sign session failed", "error", err)
				writeError(w, http.StatusInternalServerError, "خطای سرور")
				return
			}
			db.Exec("DELETE FROM otp_codes WHERE id = $1", otp.ID)
			writeJSON(w, http.StatusOK, models.AuthResponse{
				Success: true,
				Message: "ثبت نام با موفقیت انجام شد",
				User:    user,
			})

		default:
			// New phone, no names yet. The verified code stays for
			// complete-profile; no session until a user row exists.
			writeJSON(w, http.StatusOK, models.AuthResponse{
				Success:         true,
				RequiresProfile: true,
				Message:         "لطفاً اطلاعات خود را تکمیل کنید",
			})
		}
	}
}

// CompleteProfile godoc
// @Summary      Finish registration for a new phone
// @Description  Creates the user from a previously verified code. The code stays usable for a grace period past its normal expiry.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body models.CompleteProfileRequest true "Phone, code and names"
// @Success      200  {object}  models.AuthResponse
// @Failure      400  {object}  models.ErrorResponse
// @Router       /auth/complete-profile [post]
func CompleteProfile(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "متد مجاز نیست")
			return
		}

		var req models.CompleteProfileRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "فرمت درخواست نامعتبر است")
			return
		}
		req.FirstName = strings.TrimSpace(req.FirstName)
		req.LastName = strings.TrimSpace(req.LastName)
		if err := validator.Validate(req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		otp, err := findOTP(db, req.Phone, req.OTP)
		if err != nil {
			logger.Log.Errorw("otp lookup failed", "error", err)
			writeError(w, http.StatusInternalServerError, "خطای سرور")
			return
		}
		if otp == nil || !otp.UsableForProfile(time.Now()) {
			writeError(w, http.StatusBadRequest, "جلسه منقضی شده است. لطفاً دوباره کد تایید دریافت کنید")
			return
		}

		user, err := findUserByPhone(db, req.Phone)
		if err != nil {
			logger.Log.Errorw("user lookup failed", "error", err)
			writeError(w, http.StatusInternalServerError, "خطای سرور")
			return
		}
		if user == nil {
			user, err = createUser(db, req.Phone, req.FirstName, req.LastName)
			if err != nil {
				logger.Log.Errorw("create user failed", "error", err)
				writeError(w, http.StatusInternalServerError, "خطای سرور")
				return
			}
		}

		if err := issueSession(w, user); err != nil {
			logger.Log.Errorw("sign session failed", "error", err)
			writeError(w, http.StatusInternalServerError, "خطای سرور")
			return
		}
		db.Exec("DELETE FROM otp_codes WHERE id = $1", otp.ID)

		writeJSON(w, http.StatusOK, models.AuthResponse{
			Success: true,
			Message: "ثبت نام با موفقیت انجام شد",
			User:    user,
		})
	}
}

// Logout godoc
// @Summary      Sign out
// @Tags         auth
// @Produce      json
// @Success      200  {object}  models.AuthResponse
// @Router       /auth/logout [post]
func Logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "متد مجاز نیست")
			return
		}

		token.ClearCookie(w, production)
		writeJSON(w, http.StatusOK, models.AuthResponse{
			Success: true,
			Message: "خروج موفقیت‌آمیز بود",
		})
	}
}

// Me godoc
// @Summary      Current session user
// @Tags         auth
// @Produce      json
// @Success      200  {object}  models.UserResponse
// @Failure      401  {object}  models.ErrorResponse
// @Router       /auth/me [get]
func Me(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "متد مجاز نیست")
			return
		}

		user := loadUser(db, r)
		if user == nil {
			writeError(w, http.StatusUnauthorized, "احراز هویت مورد نیاز است")
			return
		}

		writeJSON(w, http.StatusOK, models.UserResponse{
			Success: true,
			User:    user,
		})
	}
}
