package handlers

import (
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"shahrdav-backend/models"
	"shahrdav-backend/pkg/logger"
	"shahrdav-backend/pkg/websocket"
)

// loadRegistrationDetail fetches a registration with its event, nil when absent.
func loadRegistrationDetail(db *sql.DB, regID string) (*models.RegistrationDetail, error) {
	var (
		d models.RegistrationDetail
		e models.Event
	)
	err := db.QueryRow(`
		SELECT reg.id, reg.event_id, reg.user_id, reg.status, reg.registered_at, reg.updated_at,
			e.id, e.title, e.description, e.address, e.latitude, e.longitude,
			e.start_date_time, e.end_date_time, e.registration_end,
			e.max_participants, e.price, e.is_active, e.created_at, e.updated_at
		FROM event_registrations reg
		JOIN events e ON e.id = reg.event_id
		WHERE reg.id = $1`, regID).
		Scan(&d.ID, &d.EventID, &d.UserID, &d.Status, &d.RegisteredAt, &d.UpdatedAt,
			&e.ID, &e.Title, &e.Description, &e.Address, &e.Latitude, &e.Longitude,
			&e.StartDateTime, &e.EndDateTime, &e.RegistrationEnd,
			&e.MaxParticipants, &e.Price, &e.IsActive, &e.CreatedAt, &e.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	d.Event = &e
	return &d, nil
}

// RegistrationItemHandler routes /api/registrations/{id}.
func RegistrationItemHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		regID := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/registrations/"), "/")
		if regID == "" || strings.Contains(regID, "/") || uuid.Validate(regID) != nil {
			writeError(w, http.StatusNotFound, "ثبت نام یافت نشد")
			return
		}

		switch r.Method {
		case http.MethodGet:
			getRegistration(db, w, r, regID)
		case http.MethodDelete:
			cancelRegistration(db, w, r, regID)
		case http.MethodOptions:
			w.WriteHeader(http.StatusOK)
		default:
			writeError(w, http.StatusMethodNotAllowed, "متد مجاز نیست")
		}
	}
}

// getRegistration godoc
// @Summary      Registration detail
// @Description  Visible to the owner and admins
// @Tags         registrations
// @Produce      json
// @Param        id  path  string  true  "Registration id"
// @Success      200  {object}  models.RegistrationResponse
// @Failure      403  {object}  models.ErrorResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /registrations/{id} [get]
func getRegistration(db *sql.DB, w http.ResponseWriter, r *http.Request, regID string) {
	user := CurrentUser(r)

	detail, err := loadRegistrationDetail(db, regID)
	if err != nil {
		logger.Log.Errorw("registration query failed", "registration_id", regID, "error", err)
		writeError(w, http.StatusInternalServerError, "خطای سرور")
		return
	}
	if detail == nil {
		writeError(w, http.StatusNotFound, "ثبت نام یافت نشد")
		return
	}
	if detail.UserID != user.ID && !user.IsAdmin {
		writeError(w, http.StatusForbidden, "دسترسی غیرمجاز")
		return
	}

	writeJSON(w, http.StatusOK, models.RegistrationResponse{
		Success:      true,
		Registration: detail,
	})
}

// cancelRegistration godoc
// @Summary      Cancel a registration by id
// @Description  Owner only; allowed until the event starts
// @Tags         registrations
// @Produce      json
// @Param        id  path  string  true  "Registration id"
// @Success      200  {object}  models.RegistrationResponse
// @Failure      400  {object}  models.ErrorResponse
// @Failure      403  {object}  models.ErrorResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /registrations/{id} [delete]
func cancelRegistration(db *sql.DB, w http.ResponseWriter, r *http.Request, regID string) {
	user := CurrentUser(r)
	now := time.Now()

	detail, err := loadRegistrationDetail(db, regID)
	if err != nil {
		logger.Log.Errorw("registration query failed", "registration_id", regID, "error", err)
		writeError(w, http.StatusInternalServerError, "خطای سرور")
		return
	}
	if detail == nil || detail.Status == models.RegistrationStatusCancelled {
		writeError(w, http.StatusNotFound, "ثبت نام یافت نشد")
		return
	}
	if detail.UserID != user.ID {
		writeError(w, http.StatusForbidden, "دسترسی غیرمجاز")
		return
	}

	if err := models.CheckCancel(detail.Event, now); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := cancelRegistrationTx(db, detail.ID); err != nil {
		logger.Log.Errorw("cancel registration failed", "registration_id", detail.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "خطای سرور")
		return
	}

	logger.Log.Infow("registration cancelled",
		"registration_id", detail.ID, "event_id", detail.EventID, "user_id", user.ID)

	websocket.BroadcastRegistrationCancelled(websocket.RegistrationEventPayload{
		RegistrationID: detail.ID,
		EventID:        detail.EventID,
		EventTitle:     detail.Event.Title,
		UserPhone:      user.Phone,
		UserName:       user.FirstName + " " + user.LastName,
		Status:         models.RegistrationStatusCancelled,
		CreatedAt:      now.Format(time.RFC3339),
	})

	detail.Status = models.RegistrationStatusCancelled
	writeJSON(w, http.StatusOK, models.RegistrationResponse{
		Success:      true,
		Message:      "ثبت نام با موفقیت لغو شد",
		Registration: detail,
	})
}
