package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shahrdav-backend/models"
)

func TestParsePagination(t *testing.T) {
	tests := []struct {
		query     string
		wantPage  int
		wantLimit int
	}{
		{"", 1, 10},
		{"?page=3&limit=20", 3, 20},
		{"?page=0&limit=0", 1, 10},
		{"?page=-5&limit=-1", 1, 10},
		{"?page=abc&limit=xyz", 1, 10},
		{"?limit=500", 1, 50},
	}

	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, "/api/events"+tt.query, nil)
		page, limit := parsePagination(r)
		assert.Equal(t, tt.wantPage, page, "query=%q", tt.query)
		assert.Equal(t, tt.wantLimit, limit, "query=%q", tt.query)
	}
}

func TestParseEventTime(t *testing.T) {
	t.Run("rfc3339", func(t *testing.T) {
		got, ok := parseEventTime("2026-04-01T06:30:00Z")
		require.True(t, ok)
		assert.Equal(t, time.Date(2026, 4, 1, 6, 30, 0, 0, time.UTC), got)
	})

	t.Run("rfc3339 with offset", func(t *testing.T) {
		got, ok := parseEventTime("2026-04-01T06:30:00+03:30")
		require.True(t, ok)
		assert.Equal(t, 6, got.Hour())
	})

	t.Run("local datetime without seconds", func(t *testing.T) {
		got, ok := parseEventTime("2026-04-01T06:30")
		require.True(t, ok)
		assert.Equal(t, time.Date(2026, 4, 1, 6, 30, 0, 0, time.UTC), got)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		for _, s := range []string{"", "tomorrow", "2026-04-01", "01/04/2026 06:30"} {
			_, ok := parseEventTime(s)
			assert.False(t, ok, "input=%q", s)
		}
	})
}

func TestApplyUserRegistrations(t *testing.T) {
	events := []*models.EventWithAvailability{
		{Event: models.Event{ID: "e1"}},
		{Event: models.Event{ID: "e2"}},
		{Event: models.Event{ID: "e3"}},
		{Event: models.Event{ID: "e4"}},
	}

	applyUserRegistrations(events, []userRegistration{
		{RegistrationID: "r1", EventID: "e1", Status: models.RegistrationStatusConfirmed},
		{RegistrationID: "r2", EventID: "e2", Status: models.RegistrationStatusPending},
		{RegistrationID: "r3", EventID: "e3", Status: models.RegistrationStatusCompleted},
		{RegistrationID: "r5", EventID: "unknown", Status: models.RegistrationStatusConfirmed},
	})

	assert.True(t, events[0].UserRegistered)
	assert.Equal(t, "r1", events[0].UserRegistrationID)

	// Pending holds no spot yet and completed belongs to a past event:
	// neither makes the event read as registered.
	assert.False(t, events[1].UserRegistered)
	assert.Empty(t, events[1].UserRegistrationID)
	assert.False(t, events[2].UserRegistered)

	assert.False(t, events[3].UserRegistered)
}
