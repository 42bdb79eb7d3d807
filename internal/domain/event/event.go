// Package event holds the venue event record. An event is a display and
// scheduling record only: its effect on availability is entirely mediated
// through the closure reservations derived from SpaceIDs.
package event

type Event struct {
	ID               string   `json:"id"`
	EventName        string   `json:"eventName"`
	Date             string   `json:"date"`
	EndDate          string   `json:"endDate,omitempty"`
	CustomTimeLabel  string   `json:"customTimeLabel,omitempty"`
	EventImage       string   `json:"eventImage,omitempty"`
	EventDescription string   `json:"eventDescription,omitempty"`
	Location         string   `json:"location,omitempty"`
	SpaceID          string   `json:"spaceId,omitempty"` // primary display location
	SpaceIDs         []string `json:"spaceIds,omitempty"`
}

// BlockedSpaceIDs is the set of spaces the event closes for its duration.
// Legacy records carry a single SpaceID instead of the list.
func (e Event) BlockedSpaceIDs() []string {
	if len(e.SpaceIDs) > 0 {
		return e.SpaceIDs
	}
	if e.SpaceID != "" {
		return []string{e.SpaceID}
	}
	return nil
}

// EffectiveEndDate defaults to the start date for single-day events.
func (e Event) EffectiveEndDate() string {
	if e.EndDate != "" {
		return e.EndDate
	}
	return e.Date
}
