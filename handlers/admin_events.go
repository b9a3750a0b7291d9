package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"github.com/lib/pq"

	"shahrdav-backend/models"
	"shahrdav-backend/pkg/logger"
	"shahrdav-backend/pkg/validator"
)

// createEvent godoc
// @Summary      Create an event (admin)
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        request body models.CreateEventRequest true "Event"
// @Success      201  {object}  models.EventResponse
// @Failure      400  {object}  models.ErrorResponse
// @Router       /events [post]
func createEvent(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.CreateEventRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "فرمت درخواست نامعتبر است")
			return
		}
		if err := validator.Validate(req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		start, ok := parseEventTime(req.StartDateTime)
		if !ok {
			writeError(w, http.StatusBadRequest, "زمان شروع نامعتبر است")
			return
		}
		regEnd, ok := parseEventTime(req.RegistrationEnd)
		if !ok {
			writeError(w, http.StatusBadRequest, "زمان پایان ثبت نام نامعتبر است")
			return
		}
		end := start
		if req.EndDateTime != "" {
			if end, ok = parseEventTime(req.EndDateTime); !ok {
				writeError(w, http.StatusBadRequest, "زمان پایان نامعتبر است")
				return
			}
		}

		if err := models.ValidateEventTimes(start, regEnd, time.Now()); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		var price int64
		if req.Price != nil {
			price = *req.Price
		}

		var e models.Event
		err := db.QueryRow(`
			INSERT INTO events (title, description, address, latitude, longitude,
				start_date_time, end_date_time, registration_end, max_participants, price)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			RETURNING id, title, description, address, latitude, longitude,
				start_date_time, end_date_time, registration_end,
				max_participants, price, is_active, created_at, updated_at`,
			req.Title, req.Description, req.Address, req.Latitude, req.Longitude,
			start, end, regEnd, req.MaxParticipants, price).
			Scan(&e.ID, &e.Title, &e.Description, &e.Address, &e.Latitude, &e.Longitude,
				&e.StartDateTime, &e.EndDateTime, &e.RegistrationEnd,
				&e.MaxParticipants, &e.Price, &e.IsActive, &e.CreatedAt, &e.UpdatedAt)
		if err != nil {
			logger.Log.Errorw("create event failed", "error", err)
			writeError(w, http.StatusInternalServerError, "خطای سرور")
			return
		}

		logger.Log.Infow("event created", "event_id", e.ID, "title", e.Title)
		writeJSON(w, http.StatusCreated, models.EventResponse{
			Success: true,
			Message: "رویداد با موفقیت ایجاد شد",
			Event: &models.EventWithAvailability{
				Event:        e,
				Availability: models.ProjectAvailability(&e, 0, time.Now()),
			},
		})
	}
}

// updateEvent godoc
// @Summary      Update an event (admin)
// @Description  Partial update; only provided fields change
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id       path  string                     true  "Event id"
// @Param        request  body  models.UpdateEventRequest  true  "Changed fields"
// @Success      200  {object}  models.EventResponse
// @Failure      400  {object}  models.ErrorResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /events/{id} [put]
func updateEvent(db *sql.DB, eventID string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.UpdateEventRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "فرمت درخواست نامعتبر است")
			return
		}

		var e models.Event
		err := db.QueryRow(`
			SELECT id, title, description, address, latitude, longitude,
				start_date_time, end_date_time, registration_end,
				max_participants, price, is_active, created_at, updated_at
			FROM events WHERE id = $1`, eventID).
			Scan(&e.ID, &e.Title, &e.Description, &e.Address, &e.Latitude, &e.Longitude,
				&e.StartDateTime, &e.EndDateTime, &e.RegistrationEnd,
				&e.MaxParticipants, &e.Price, &e.IsActive, &e.CreatedAt, &e.UpdatedAt)
		if err == sql.ErrNoRows {
			writeError(w, http.StatusNotFound, "رویداد یافت نشد")
			return
		}
		if err != nil {
			logger.Log.Errorw("event lookup failed", "event_id", eventID, "error", err)
			writeError(w, http.StatusInternalServerError, "خطای سرور")
			return
		}

		if req.Title != nil {
			e.Title = *req.Title
		}
		if req.Description != nil {
			e.Description = *req.Description
		}
		if req.Address != nil {
			e.Address = *req.Address
		}
		if req.Latitude != nil {
			e.Latitude = *req.Latitude
		}
		if req.Longitude != nil {
			e.Longitude = *req.Longitude
		}
		if req.StartDateTime != nil {
			t, ok := parseEventTime(*req.StartDateTime)
			if !ok {
				writeError(w, http.StatusBadRequest, "زمان شروع نامعتبر است")
				return
			}
			e.StartDateTime = t
		}
		if req.EndDateTime != nil {
			t, ok := parseEventTime(*req.EndDateTime)
			if !ok {
				writeError(w, http.StatusBadRequest, "زمان پایان نامعتبر است")
				return
			}
			e.EndDateTime = t
		}
		if req.RegistrationEnd != nil {
			t, ok := parseEventTime(*req.RegistrationEnd)
			if !ok {
				writeError(w, http.StatusBadRequest, "زمان پایان ثبت نام نامعتبر است")
				return
			}
			e.RegistrationEnd = t
		}
		if req.MaxParticipants != nil {
			e.MaxParticipants = req.MaxParticipants
		}
		if req.Price != nil {
			e.Price = *req.Price
		}
		if req.IsActive != nil {
			e.IsActive = *req.IsActive
		}

		// Ordering is re-checked only when both times were supplied;
		// touching one side of an existing pair stays allowed.
		if req.StartDateTime != nil && req.RegistrationEnd != nil {
			if !e.RegistrationEnd.Before(e.StartDateTime) {
				writeError(w, http.StatusBadRequest, models.ErrRegEndAfterStart.Error())
				return
			}
		}

		err = db.QueryRow(`
			UPDATE events SET
				title = $2, description = $3, address = $4, latitude = $5,
				longitude = $6, start_date_time = $7, end_date_time = $8,
				registration_end = $9, max_participants = $10, price = $11,
				is_active = $12, updated_at = NOW()
			WHERE id = $1
			RETURNING updated_at`, e.ID,
			e.Title, e.Description, e.Address, e.Latitude, e.Longitude,
			e.StartDateTime, e.EndDateTime, e.RegistrationEnd,
			e.MaxParticipants, e.Price, e.IsActive).Scan(&e.UpdatedAt)
		if err != nil {
			logger.Log.Errorw("update event failed", "event_id", eventID, "error", err)
			writeError(w, http.StatusInternalServerError, "خطای سرور")
			return
		}

		var confirmed int
		db.QueryRow(`
			SELECT COUNT(*) FROM event_registrations
			WHERE event_id = $1 AND status = 'CONFIRMED'`, e.ID).Scan(&confirmed)

		writeJSON(w, http.StatusOK, models.EventResponse{
			Success: true,
			Message: "رویداد با موفقیت به‌روزرسانی شد",
			Event: &models.EventWithAvailability{
				Event:        e,
				Availability: models.ProjectAvailability(&e, confirmed, time.Now()),
			},
		})
	}
}

// deleteEvent godoc
// @Summary      Delete an event (admin)
// @Description  Hard delete when no registrations exist, soft deactivate otherwise
// @Tags         admin
// @Produce      json
// @Param        id  path  string  true  "Event id"
// @Success      200  {object}  models.EventResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /events/{id} [delete]
func deleteEvent(db *sql.DB, eventID string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var exists bool
		err := db.QueryRow("SELECT EXISTS(SELECT 1 FROM events WHERE id = $1)", eventID).Scan(&exists)
		if err != nil {
			logger.Log.Errorw("event lookup failed", "event_id", eventID, "error", err)
			writeError(w, http.StatusInternalServerError, "خطای سرور")
			return
		}
		if !exists {
			writeError(w, http.StatusNotFound, "رویداد یافت نشد")
			return
		}

		var regCount int
		err = db.QueryRow("SELECT COUNT(*) FROM event_registrations WHERE event_id = $1", eventID).Scan(&regCount)
		if err != nil {
			logger.Log.Errorw("registration count failed", "event_id", eventID, "error", err)
			writeError(w, http.StatusInternalServerError, "خطای سرور")
			return
		}

		if regCount > 0 {
			// History must survive: deactivate instead of deleting.
			_, err = db.Exec("UPDATE events SET is_active = false, updated_at = NOW() WHERE id = $1", eventID)
			if err != nil {
				logger.Log.Errorw("deactivate event failed", "event_id", eventID, "error", err)
				writeError(w, http.StatusInternalServerError, "خطای سرور")
				return
			}
			logger.Log.Infow("event deactivated", "event_id", eventID, "registrations", regCount)
			writeJSON(w, http.StatusOK, models.EventResponse{
				Success: true,
				Message: "رویداد غیرفعال شد (به دلیل وجود ثبت‌نام‌ها)",
			})
			return
		}

		if _, err := db.Exec("DELETE FROM events WHERE id = $1", eventID); err != nil {
			logger.Log.Errorw("delete event failed", "event_id", eventID, "error", err)
			writeError(w, http.StatusInternalServerError, "خطای سرور")
			return
		}
		logger.Log.Infow("event deleted", "event_id", eventID)
		writeJSON(w, http.StatusOK, models.EventResponse{
			Success: true,
			Message: "رویداد با موفقیت حذف شد",
		})
	}
}

// eventRegistrant - a registrant row before grouping by event
type eventRegistrant struct {
	EventID string
	models.RegistrantSummary
}

// groupRegistrants buckets registrant rows by event, preserving row order.
func groupRegistrants(rows []eventRegistrant) map[string][]models.RegistrantSummary {
	grouped := make(map[string][]models.RegistrantSummary)
	for _, row := range rows {
		grouped[row.EventID] = append(grouped[row.EventID], row.RegistrantSummary)
	}
	return grouped
}

// loadRegistrants fetches every registration (all statuses) for the given
// events, newest first, joined with the registrant's name and phone.
func loadRegistrants(db *sql.DB, eventIDs []string) ([]eventRegistrant, error) {
	if len(eventIDs) == 0 {
		return nil, nil
	}
	rows, err := db.Query(`
		SELECT reg.event_id, reg.id, reg.status, reg.registered_at,
			u.first_name, u.last_name, u.phone
		FROM event_registrations reg
		JOIN users u ON u.id = reg.user_id
		WHERE reg.event_id = ANY($1::uuid[])
		ORDER BY reg.registered_at DESC`, pq.Array(eventIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []eventRegistrant{}
	for rows.Next() {
		var reg eventRegistrant
		err := rows.Scan(&reg.EventID, &reg.ID, &reg.Status, &reg.RegisteredAt,
			&reg.FirstName, &reg.LastName, &reg.Phone)
		if err != nil {
			return nil, err
		}
		out = append(out, reg)
	}
	return out, nil
}

// AdminGetEvents godoc
// @Summary      All events (admin)
// @Description  Includes inactive events, active first then newest start, each with its registrants
// @Tags         admin
// @Produce      json
// @Param        page   query  int  false  "Page (default 1)"
// @Param        limit  query  int  false  "Page size (default 10, max 50)"
// @Success      200  {object}  models.AdminEventsResponse
// @Router       /admin/events [get]
func AdminGetEvents(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "متد مجاز نیست")
			return
		}

		page, limit := parsePagination(r)
		now := time.Now()

		var total int
		if err := db.QueryRow("SELECT COUNT(*) FROM events").Scan(&total); err != nil {
			logger.Log.Errorw("admin events count failed", "error", err)
			writeError(w, http.StatusInternalServerError, "خطای سرور")
			return
		}

		rows, err := db.Query(`
			SELECT `+eventColumns+`
			FROM events e`+confirmedCountJoin+`
			ORDER BY e.is_active DESC, e.start_date_time DESC
			LIMIT $1 OFFSET $2`, limit, (page-1)*limit)
		if err != nil {
			logger.Log.Errorw("admin events query failed", "error", err)
			writeError(w, http.StatusInternalServerError, "خطای سرور")
			return
		}
		defer rows.Close()

		events := []models.AdminEvent{}
		eventIDs := []string{}
		for rows.Next() {
			e, err := scanEventRow(rows, now)
			if err != nil {
				logger.Log.Errorw("event scan failed", "error", err)
				writeError(w, http.StatusInternalServerError, "خطای سرور")
				return
			}
			events = append(events, models.AdminEvent{
				EventWithAvailability: *e,
				Registrations:         []models.RegistrantSummary{},
			})
			eventIDs = append(eventIDs, e.ID)
		}

		registrants, err := loadRegistrants(db, eventIDs)
		if err != nil {
			logger.Log.Errorw("admin registrants query failed", "error", err)
			writeError(w, http.StatusInternalServerError, "خطای سرور")
			return
		}
		grouped := groupRegistrants(registrants)
		for i := range events {
			if regs := grouped[events[i].ID]; regs != nil {
				events[i].Registrations = regs
			}
		}

		pages := (total + limit - 1) / limit
		writeJSON(w, http.StatusOK, models.AdminEventsResponse{
			Success: true,
			Events:  events,
			Pagination: models.Pagination{
				Page:  page,
				Limit: limit,
				Total: total,
				Pages: pages,
			},
		})
	}
}

// CreateDevAdmin godoc
// @Summary      Promote a user to admin (development only)
// @Description  Unavailable in production
// @Tags         dev
// @Accept       json
// @Produce      json
// @Param        request body models.SendOTPRequest true "Phone number"
// @Success      200  {object}  models.UserResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /dev/create-admin [post]
func CreateDevAdmin(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if production {
			http.NotFound(w, r)
			return
		}
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

		var u models.User
		err := db.QueryRow(`
			UPDATE users SET is_admin = true, updated_at = NOW()
			WHERE phone = $1
			RETURNING id, phone, first_name, last_name, is_admin, created_at, updated_at`,
			req.Phone).
			Scan(&u.ID, &u.Phone, &u.FirstName, &u.LastName, &u.IsAdmin, &u.CreatedAt, &u.UpdatedAt)
		if err == sql.ErrNoRows {
			writeError(w, http.StatusNotFound, "کاربر یافت نشد")
			return
		}
		if err != nil {
			logger.Log.Errorw("promote admin failed", "error", err)
			writeError(w, http.StatusInternalServerError, "خطای سرور")
			return
		}

		logger.Log.Infow("user promoted to admin", "user_id", u.ID, "phone", u.Phone)
		writeJSON(w, http.StatusOK, models.UserResponse{
			Success: true,
			Message: "کاربر به ادمین ارتقا یافت",
			User:    &u,
		})
	}
}
