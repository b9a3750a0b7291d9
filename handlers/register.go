package handlers

import (
	"database/sql"
	"net/http"
	"time"

	"shahrdav-backend/models"
	"shahrdav-backend/pkg/logger"
	"shahrdav-backend/pkg/websocket"
)

// registerForEvent godoc
// @Summary      Register for an event
// @Description  Free events confirm immediately; paid events start pending with a payment record
// @Tags         registrations
// @Produce      json
// @Param        id  path  string  true  "Event id"
// @Success      201  {object}  models.RegisterResponse
// @Failure      400  {object}  models.ErrorResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /events/{id}/register [post]
func registerForEvent(db *sql.DB, eventID string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := CurrentUser(r)
		now := time.Now()

		tx, err := db.Begin()
		if err != nil {
			logger.Log.Errorw("register begin tx failed", "error", err)
			writeError(w, http.StatusInternalServerError, "خطای سرور")
			return
		}
		defer tx.Rollback()

		// Lock the event row for the whole check-then-insert sequence so
		// concurrent registrations serialize on the capacity check.
		var e models.Event
		err = tx.QueryRow(`
			SELECT id, title, start_date_time, registration_end, max_participants, price
			FROM events
			WHERE id = $1 AND is_active = true
			FOR UPDATE`, eventID).
			Scan(&e.ID, &e.Title, &e.StartDateTime, &e.RegistrationEnd, &e.MaxParticipants, &e.Price)
		if err == sql.ErrNoRows {
			writeError(w, http.StatusNotFound, models.ErrEventNotFound.Error())
			return
		}
		if err != nil {
			logger.Log.Errorw("event lock failed", "event_id", eventID, "error", err)
			writeError(w, http.StatusInternalServerError, "خطای سرور")
			return
		}

		var confirmed int
		err = tx.QueryRow(`
			SELECT COUNT(*) FROM event_registrations
			WHERE event_id = $1 AND status = 'CONFIRMED'`, eventID).Scan(&confirmed)
		if err != nil {
			logger.Log.Errorw("confirmed count failed", "event_id", eventID, "error", err)
			writeError(w, http.StatusInternalServerError, "خطای سرور")
			return
		}

		var existing *models.EventRegistration
		var reg models.EventRegistration
		err = tx.QueryRow(`
			SELECT id, event_id, user_id, status, registered_at, updated_at
			FROM event_registrations
			WHERE event_id = $1 AND user_id = $2 AND status != 'CANCELLED'
			ORDER BY registered_at DESC LIMIT 1`, eventID, user.ID).
			Scan(&reg.ID, &reg.EventID, &reg.UserID, &reg.Status, &reg.RegisteredAt, &reg.UpdatedAt)
		if err == nil {
			existing = &reg
		} else if err != sql.ErrNoRows {
			logger.Log.Errorw("existing registration lookup failed", "event_id", eventID, "error", err)
			writeError(w, http.StatusInternalServerError, "خطای سرور")
			return
		}

		if err := models.CheckRegister(&e, confirmed, existing, now); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		status := models.InitialStatus(e.Price)

		var regID string
		var registeredAt time.Time
		err = tx.QueryRow(`
			INSERT INTO event_registrations (event_id, user_id, status)
			VALUES ($1, $2, $3)
			RETURNING id, registered_at`, eventID, user.ID, status).
			Scan(&regID, &registeredAt)
		if err != nil {
			logger.Log.Errorw("insert registration failed", "event_id", eventID, "error", err)
			writeError(w, http.StatusInternalServerError, "خطای سرور")
			return
		}

		needsPayment := e.Price > 0
		if needsPayment {
			_, err = tx.Exec(`
				INSERT INTO payments (registration_id, amount, status)
				VALUES ($1, $2, 'PENDING')`, regID, e.Price)
			if err != nil {
				logger.Log.Errorw("insert payment failed", "registration_id", regID, "error", err)
				writeError(w, http.StatusInternalServerError, "خطای سرور")
				return
			}
		}

		if err := tx.Commit(); err != nil {
			logger.Log.Errorw("register commit failed", "event_id", eventID, "error", err)
			writeError(w, http.StatusInternalServerError, "خطای سرور")
			return
		}

		logger.Log.Infow("registration created",
			"registration_id", regID, "event_id", eventID, "user_id", user.ID, "status", status)

		websocket.BroadcastRegistrationCreated(websocket.RegistrationEventPayload{
			RegistrationID: regID,
			EventID:        e.ID,
			EventTitle:     e.Title,
			UserPhone:      user.Phone,
			UserName:       user.FirstName + " " + user.LastName,
			Status:         status,
			CreatedAt:      registeredAt.Format(time.RFC3339),
		})

		message := "ثبت نام با موفقیت انجام شد"
		if needsPayment {
			message = "ثبت نام اولیه انجام شد. لطفاً هزینه را پرداخت کنید"
		}
		writeJSON(w, http.StatusCreated, models.RegisterResponse{
			Success: true,
			Message: message,
			Registration: &models.RegistrationResult{
				ID:           regID,
				Status:       status,
				NeedsPayment: needsPayment,
				Amount:       e.Price,
			},
		})
	}
}

// cancelRegistrationTx flips a registration and its pending payment to
// CANCELLED in one transaction.
func cancelRegistrationTx(db *sql.DB, regID string) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`
		UPDATE event_registrations SET status = 'CANCELLED', updated_at = NOW()
		WHERE id = $1`, regID); err != nil {
		return err
	}
	if _, err := tx.Exec(`
		UPDATE payments SET status = 'CANCELLED', updated_at = NOW()
		WHERE registration_id = $1 AND status = 'PENDING'`, regID); err != nil {
		return err
	}
	return tx.Commit()
}

// cancelEventRegistration godoc
// @Summary      Cancel my registration for an event
// @Description  Allowed until the event starts; the linked payment is cancelled too
// @Tags         registrations
// @Produce      json
// @Param        id  path  string  true  "Event id"
// @Success      200  {object}  models.RegisterResponse
// @Failure      400  {object}  models.ErrorResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /events/{id}/register [delete]
func cancelEventRegistration(db *sql.DB, eventID string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := CurrentUser(r)
		now := time.Now()

		var (
			reg models.EventRegistration
			e   models.Event
		)
		err := db.QueryRow(`
			SELECT reg.id, reg.status, e.id, e.title, e.start_date_time
			FROM event_registrations reg
			JOIN events e ON e.id = reg.event_id
			WHERE reg.event_id = $1 AND reg.user_id = $2 AND reg.status != 'CANCELLED'
			ORDER BY reg.registered_at DESC LIMIT 1`, eventID, user.ID).
			Scan(&reg.ID, &reg.Status, &e.ID, &e.Title, &e.StartDateTime)
		if err == sql.ErrNoRows {
			writeError(w, http.StatusNotFound, "شما در این رویداد ثبت نام نکرده‌اید")
			return
		}
		if err != nil {
			logger.Log.Errorw("registration lookup failed", "event_id", eventID, "error", err)
			writeError(w, http.StatusInternalServerError, "خطای سرور")
			return
		}

		if err := models.CheckCancel(&e, now); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		if err := cancelRegistrationTx(db, reg.ID); err != nil {
			logger.Log.Errorw("cancel registration failed", "registration_id", reg.ID, "error", err)
			writeError(w, http.StatusInternalServerError, "خطای سرور")
			return
		}

		logger.Log.Infow("registration cancelled",
			"registration_id", reg.ID, "event_id", eventID, "user_id", user.ID)

		websocket.BroadcastRegistrationCancelled(websocket.RegistrationEventPayload{
			RegistrationID: reg.ID,
			EventID:        e.ID,
			EventTitle:     e.Title,
			UserPhone:      user.Phone,
			UserName:       user.FirstName + " " + user.LastName,
			Status:         models.RegistrationStatusCancelled,
			CreatedAt:      now.Format(time.RFC3339),
		})

		writeJSON(w, http.StatusOK, models.RegisterResponse{
			Success: true,
			Message: "ثبت نام با موفقیت لغو شد",
		})
	}
}
