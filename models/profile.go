package models

import "time"

// ProfileEvent - event summary inside the profile history, with the two
// time-derived flags the profile page renders
type ProfileEvent struct {
	Event
	IsPast           bool `json:"isPast"`
	RegistrationOpen bool `json:"registrationOpen"`
}

// ProfileRegistration - a registration row in the profile history
type ProfileRegistration struct {
	EventRegistration
	Event ProfileEvent `json:"event"`
}

// ProfileStats - counters shown at the top of the profile page
type ProfileStats struct {
	TotalRegistrations     int `json:"totalRegistrations"`
	UpcomingEvents         int `json:"upcomingEvents"`
	PastEvents             int `json:"pastEvents"`
	ConfirmedRegistrations int `json:"confirmedRegistrations"`
}

// ProfileResponse - GET /profile payload
type ProfileResponse struct {
	Success        bool                  `json:"success"`
	Profile        *User                 `json:"profile"`
	UpcomingEvents []ProfileRegistration `json:"upcomingEvents"`
	PastEvents     []ProfileRegistration `json:"pastEvents"`
	Stats          ProfileStats          `json:"stats"`
}

// SplitRegistrations partitions a user's registration history into upcoming
// and past by event start time and computes the profile counters.
func SplitRegistrations(regs []ProfileRegistration, now time.Time) (upcoming, past []ProfileRegistration, stats ProfileStats) {
	upcoming = []ProfileRegistration{}
	past = []ProfileRegistration{}
	for i := range regs {
		r := regs[i]
		r.Event.IsPast = r.Event.StartDateTime.Before(now)
		r.Event.RegistrationOpen = r.Event.RegistrationEnd.After(now)
		if r.Event.StartDateTime.Before(now) {
			past = append(past, r)
		} else {
			upcoming = append(upcoming, r)
		}
		if r.Status == RegistrationStatusConfirmed {
			stats.ConfirmedRegistrations++
		}
	}
	stats.TotalRegistrations = len(regs)
	stats.UpcomingEvents = len(upcoming)
	stats.PastEvents = len(past)
	return upcoming, past, stats
}
