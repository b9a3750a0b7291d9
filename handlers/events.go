package handlers

import (
	"database/sql"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"shahrdav-backend/models"
	"shahrdav-backend/pkg/logger"
)

// eventColumns - the canonical select list for event rows, with the
// CONFIRMED-registration count joined in.
const eventColumns = `
	e.id, e.title, e.description, e.address, e.latitude, e.longitude,
	e.start_date_time, e.end_date_time, e.registration_end,
	e.max_participants, e.price, e.is_active, e.created_at, e.updated_at,
	COALESCE(c.cnt, 0)`

const confirmedCountJoin = `
	LEFT JOIN (
		SELECT event_id, COUNT(*) AS cnt
		FROM event_registrations
		WHERE status = 'CONFIRMED'
		GROUP BY event_id
	) c ON c.event_id = e.id`

type scannable interface {
	Scan(dest ...interface{}) error
}

// scanEventRow scans one joined event row and projects its availability.
func scanEventRow(row scannable, now time.Time) (*models.EventWithAvailability, error) {
	var (
		e         models.Event
		confirmed int
	)
	err := row.Scan(
		&e.ID, &e.Title, &e.Description, &e.Address, &e.Latitude, &e.Longitude,
		&e.StartDateTime, &e.EndDateTime, &e.RegistrationEnd,
		&e.MaxParticipants, &e.Price, &e.IsActive, &e.CreatedAt, &e.UpdatedAt,
		&confirmed)
	if err != nil {
		return nil, err
	}
	return &models.EventWithAvailability{
		Event:        e,
		Availability: models.ProjectAvailability(&e, confirmed, now),
	}, nil
}

// parsePagination reads ?page and ?limit with defaults 1/10, limit capped at 50.
func parsePagination(r *http.Request) (page, limit int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 {
		limit = 10
	}
	if limit > 50 {
		limit = 50
	}
	return page, limit
}

// eventTimeLayouts - accepted datetime formats for admin payloads
var eventTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// parseEventTime parses an admin-supplied datetime string.
func parseEventTime(s string) (time.Time, bool) {
	for _, layout := range eventTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// userRegistration - one of the caller's registrations, keyed to an event
type userRegistration struct {
	RegistrationID string
	EventID        string
	Status         string
}

// applyUserRegistrations sets userRegistered/userRegistrationId. Only a
// CONFIRMED registration counts as registered on the read side: a pending
// paid registration holds no spot and a completed one belongs to a past
// event.
func applyUserRegistrations(events []*models.EventWithAvailability, regs []userRegistration) {
	byID := make(map[string]*models.EventWithAvailability, len(events))
	for _, e := range events {
		byID[e.ID] = e
	}
	for _, reg := range regs {
		if reg.Status != models.RegistrationStatusConfirmed {
			continue
		}
		if e := byID[reg.EventID]; e != nil {
			e.UserRegistered = true
			e.UserRegistrationID = reg.RegistrationID
		}
	}
}

// markUserRegistrations fills the registered flags on the events for the
// given user. Best effort: list pages render the same for anonymous
// visitors.
func markUserRegistrations(db *sql.DB, events []*models.EventWithAvailability, userID string) {
	if userID == "" || len(events) == 0 {
		return
	}
	ids := make([]string, len(events))
	for i, e := range events {
		ids[i] = e.ID
	}

	rows, err := db.Query(`
		SELECT id, event_id, status FROM event_registrations
		WHERE user_id = $1 AND event_id = ANY($2::uuid[]) AND status = 'CONFIRMED'`,
		userID, pq.Array(ids))
	if err != nil {
		logger.Log.Errorw("user registrations lookup failed", "error", err)
		return
	}
	defer rows.Close()

	regs := []userRegistration{}
	for rows.Next() {
		var reg userRegistration
		if err := rows.Scan(&reg.RegistrationID, &reg.EventID, &reg.Status); err != nil {
			continue
		}
		regs = append(regs, reg)
	}
	applyUserRegistrations(events, regs)
}

// EventsHandler routes /api/events: public list on GET, admin create on POST.
func EventsHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			listEvents(db, w, r)
		case http.MethodPost:
			RequireAdmin(db, createEvent(db))(w, r)
		case http.MethodOptions:
			w.WriteHeader(http.StatusOK)
		default:
			writeError(w, http.StatusMethodNotAllowed, "متد مجاز نیست")
		}
	}
}

// EventItemHandler routes /api/events/{id} and /api/events/{id}/register.
func EventItemHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimPrefix(r.URL.Path, "/api/events/")
		parts := strings.Split(strings.Trim(path, "/"), "/")

		// Malformed ids would surface as uuid cast errors from Postgres.
		if len(parts) >= 1 && uuid.Validate(parts[0]) != nil {
			writeError(w, http.StatusNotFound, "رویداد یافت نشد")
			return
		}

		switch {
		case len(parts) == 1 && parts[0] != "":
			eventID := parts[0]
			switch r.Method {
			case http.MethodGet:
				getEvent(db, w, r, eventID)
			case http.MethodPut:
				RequireAdmin(db, updateEvent(db, eventID))(w, r)
			case http.MethodDelete:
				RequireAdmin(db, deleteEvent(db, eventID))(w, r)
			case http.MethodOptions:
				w.WriteHeader(http.StatusOK)
			default:
				writeError(w, http.StatusMethodNotAllowed, "متد مجاز نیست")
			}

		case len(parts) == 2 && parts[1] == "register":
			eventID := parts[0]
			switch r.Method {
			case http.MethodPost:
				RequireAuth(db, registerForEvent(db, eventID))(w, r)
			case http.MethodDelete:
				RequireAuth(db, cancelEventRegistration(db, eventID))(w, r)
			case http.MethodOptions:
				w.WriteHeader(http.StatusOK)
			default:
				writeError(w, http.StatusMethodNotAllowed, "متد مجاز نیست")
			}

		default:
			writeError(w, http.StatusNotFound, "رویداد یافت نشد")
		}
	}
}

// listEvents godoc
// @Summary      Upcoming events
// @Description  Active future events ordered by start time, with availability
// @Tags         events
// @Produce      json
// @Param        page   query  int  false  "Page (default 1)"
// @Param        limit  query  int  false  "Page size (default 10, max 50)"
// @Success      200  {object}  models.EventsResponse
// @Router       /events [get]
func listEvents(db *sql.DB, w http.ResponseWriter, r *http.Request) {
	page, limit := parsePagination(r)
	now := time.Now()

	var total int
	err := db.QueryRow(`
		SELECT COUNT(*) FROM events
		WHERE is_active = true AND start_date_time >= NOW()`).Scan(&total)
	if err != nil {
		logger.Log.Errorw("events count failed", "error", err)
		writeError(w, http.StatusInternalServerError, "خطای سرور")
		return
	}

	rows, err := db.Query(`
		SELECT `+eventColumns+`
		FROM events e`+confirmedCountJoin+`
		WHERE e.is_active = true AND e.start_date_time >= NOW()
		ORDER BY e.start_date_time ASC
		LIMIT $1 OFFSET $2`, limit, (page-1)*limit)
	if err != nil {
		logger.Log.Errorw("events query failed", "error", err)
		writeError(w, http.StatusInternalServerError, "خطای سرور")
		return
	}
	defer rows.Close()

	events := []*models.EventWithAvailability{}
	for rows.Next() {
		e, err := scanEventRow(rows, now)
		if err != nil {
			logger.Log.Errorw("event scan failed", "error", err)
			writeError(w, http.StatusInternalServerError, "خطای سرور")
			return
		}
		events = append(events, e)
	}

	// Session is optional here; registered flags only for logged-in users.
	if user := loadUser(db, r); user != nil {
		markUserRegistrations(db, events, user.ID)
	}

	out := make([]models.EventWithAvailability, len(events))
	for i, e := range events {
		out[i] = *e
	}

	pages := (total + limit - 1) / limit
	writeJSON(w, http.StatusOK, models.EventsResponse{
		Success: true,
		Events:  out,
		Pagination: models.Pagination{
			Page:  page,
			Limit: limit,
			Total: total,
			Pages: pages,
		},
	})
}

// getEvent godoc
// @Summary      Event detail
// @Description  Active event with availability and confirmed participants
// @Tags         events
// @Produce      json
// @Param        id  path  string  true  "Event id"
// @Success      200  {object}  models.EventResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /events/{id} [get]
func getEvent(db *sql.DB, w http.ResponseWriter, r *http.Request, eventID string) {
	now := time.Now()

	row := db.QueryRow(`
		SELECT `+eventColumns+`
		FROM events e`+confirmedCountJoin+`
		WHERE e.id = $1 AND e.is_active = true`, eventID)

	event, err := scanEventRow(row, now)
	if err == sql.ErrNoRows {
		writeError(w, http.StatusNotFound, "رویداد یافت نشد")
		return
	}
	if err != nil {
		logger.Log.Errorw("event query failed", "event_id", eventID, "error", err)
		writeError(w, http.StatusInternalServerError, "خطای سرور")
		return
	}

	rows, err := db.Query(`
		SELECT u.first_name, u.last_name
		FROM event_registrations reg
		JOIN users u ON u.id = reg.user_id
		WHERE reg.event_id = $1 AND reg.status = 'CONFIRMED'
		ORDER BY reg.registered_at ASC`, eventID)
	if err != nil {
		logger.Log.Errorw("participants query failed", "event_id", eventID, "error", err)
		writeError(w, http.StatusInternalServerError, "خطای سرور")
		return
	}
	defer rows.Close()

	for rows.Next() {
		var p models.Participant
		if err := rows.Scan(&p.FirstName, &p.LastName); err == nil {
			event.Participants = append(event.Participants, p)
		}
	}

	if user := loadUser(db, r); user != nil {
		markUserRegistrations(db, []*models.EventWithAvailability{event}, user.ID)
	}

	writeJSON(w, http.StatusOK, models.EventResponse{
		Success: true,
		Event:   event,
	})
}
