package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"shahrdav-backend/models"
	"shahrdav-backend/pkg/logger"
	"shahrdav-backend/pkg/validator"
)

// ProfileHandler routes /api/profile: GET history, PUT name update.
func ProfileHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			getProfile(db, w, r)
		case http.MethodPut:
			updateProfile(db, w, r)
		case http.MethodOptions:
			w.WriteHeader(http.StatusOK)
		default:
			writeError(w, http.StatusMethodNotAllowed, "متد مجاز نیست")
		}
	}
}

// getProfile godoc
// @Summary      My profile and registration history
// @Description  Full registration history (all statuses) split into upcoming and past, with counters
// @Tags         profile
// @Produce      json
// @Success      200  {object}  models.ProfileResponse
// @Failure      401  {object}  models.ErrorResponse
// @Router       /profile [get]
func getProfile(db *sql.DB, w http.ResponseWriter, r *http.Request) {
	user := CurrentUser(r)

	rows, err := db.Query(`
		SELECT reg.id, reg.event_id, reg.user_id, reg.status, reg.registered_at, reg.updated_at,
			e.id, e.title, e.description, e.address, e.latitude, e.longitude,
			e.start_date_time, e.end_date_time, e.registration_end,
			e.max_participants, e.price, e.is_active, e.created_at, e.updated_at
		FROM event_registrations reg
		JOIN events e ON e.id = reg.event_id
		WHERE reg.user_id = $1
		ORDER BY reg.registered_at DESC`, user.ID)
	if err != nil {
		logger.Log.Errorw("profile registrations query failed", "user_id", user.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "خطای سرور")
		return
	}
	defer rows.Close()

	regs := []models.ProfileRegistration{}
	for rows.Next() {
		var pr models.ProfileRegistration
		err := rows.Scan(
			&pr.ID, &pr.EventID, &pr.UserID, &pr.Status, &pr.RegisteredAt, &pr.UpdatedAt,
			&pr.Event.ID, &pr.Event.Title, &pr.Event.Description, &pr.Event.Address,
			&pr.Event.Latitude, &pr.Event.Longitude,
			&pr.Event.StartDateTime, &pr.Event.EndDateTime, &pr.Event.RegistrationEnd,
			&pr.Event.MaxParticipants, &pr.Event.Price, &pr.Event.IsActive,
			&pr.Event.CreatedAt, &pr.Event.UpdatedAt)
		if err != nil {
			logger.Log.Errorw("profile registration scan failed", "error", err)
			writeError(w, http.StatusInternalServerError, "خطای سرور")
			return
		}
		regs = append(regs, pr)
	}

	upcoming, past, stats := models.SplitRegistrations(regs, time.Now())

	writeJSON(w, http.StatusOK, models.ProfileResponse{
		Success:        true,
		Profile:        user,
		UpcomingEvents: upcoming,
		PastEvents:     past,
		Stats:          stats,
	})
}

// updateProfile godoc
// @Summary      Update my name
// @Tags         profile
// @Accept       json
// @Produce      json
// @Param        request body models.UpdateProfileRequest true "First and last name"
// @Success      200  {object}  models.UserResponse
// @Failure      400  {object}  models.ErrorResponse
// @Failure      401  {object}  models.ErrorResponse
// @Router       /profile [put]
func updateProfile(db *sql.DB, w http.ResponseWriter, r *http.Request) {
	user := CurrentUser(r)

	var req models.UpdateProfileRequest
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

	var u models.User
	err := db.QueryRow(`
		UPDATE users SET first_name = $2, last_name = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING id, phone, first_name, last_name, is_admin, created_at, updated_at`,
		user.ID, req.FirstName, req.LastName).
		Scan(&u.ID, &u.Phone, &u.FirstName, &u.LastName, &u.IsAdmin, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		logger.Log.Errorw("update profile failed", "user_id", user.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "خطای سرور")
		return
	}

	writeJSON(w, http.StatusOK, models.UserResponse{
		Success: true,
		Message: "پروفایل با موفقیت به‌روزرسانی شد",
		User:    &u,
	})
}
