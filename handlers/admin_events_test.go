package handlers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shahrdav-backend/models"
)

func TestGroupRegistrants(t *testing.T) {
	now := time.Now()

	registrant := func(eventID, regID, status string, offset time.Duration) eventRegistrant {
		return eventRegistrant{
			EventID: eventID,
			RegistrantSummary: models.RegistrantSummary{
				ID:           regID,
				Status:       status,
				FirstName:    "سارا",
				LastName:     "محمدی",
				Phone:        "09123456789",
				RegisteredAt: now.Add(offset),
			},
		}
	}

	// Rows arrive newest-first; grouping must keep that order per event.
	rows := []eventRegistrant{
		registrant("e1", "r3", models.RegistrationStatusPending, -time.Hour),
		registrant("e2", "r2", models.RegistrationStatusCancelled, -2*time.Hour),
		registrant("e1", "r1", models.RegistrationStatusConfirmed, -3*time.Hour),
	}

	grouped := groupRegistrants(rows)

	require.Len(t, grouped, 2)
	require.Len(t, grouped["e1"], 2)
	assert.Equal(t, "r3", grouped["e1"][0].ID)
	assert.Equal(t, "r1", grouped["e1"][1].ID)

	// Every status shows up in the admin view, cancelled included.
	require.Len(t, grouped["e2"], 1)
	assert.Equal(t, models.RegistrationStatusCancelled, grouped["e2"][0].Status)

	assert.Nil(t, grouped["e3"])
}

func TestGroupRegistrantsEmpty(t *testing.T) {
	grouped := groupRegistrants(nil)
	assert.NotNil(t, grouped)
	assert.Empty(t, grouped)
}
