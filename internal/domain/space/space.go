// Package space describes the bookable units of the venue. Spaces are
// mutated only by administrators and never deleted; hiding one from the
// public calendar is done through ShowInCalendar.
package space

import "venue-booking/internal/domain/booking"

type Category string

const (
	CategoryCommerce  Category = "Commerce"
	CategoryOffice    Category = "Bureau"
	CategoryCreative  Category = "Créatif"
	CategoryEvent     Category = "Événementiel"
	CategoryMeeting   Category = "Réunion"
	CategoryWellness  Category = "Bien-être"
	CategoryCommon    Category = "Commun"
	CategoryCoworking Category = "Coworking"
	CategoryOther     Category = "Other"
)

// Pricing is either a set of rates or a quote-only flag; IsQuote spaces show
// "Sur devis" instead of a price.
type Pricing struct {
	HalfDay  float64 `json:"halfDay,omitempty"`
	Day      float64 `json:"day,omitempty"`
	Month    float64 `json:"month,omitempty"`
	Hour     float64 `json:"hour,omitempty"`
	IsQuote  bool    `json:"isQuote,omitempty"`
	Currency string  `json:"currency"`
}

type Space struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Description    string         `json:"description,omitempty"`
	Category       Category       `json:"category"`
	Capacity       int            `json:"capacity"`
	Image          string         `json:"image,omitempty"`
	Pricing        Pricing        `json:"pricing"`
	MinDuration    int            `json:"minDuration,omitempty"` // day counts
	MaxDuration    int            `json:"maxDuration,omitempty"`
	Features       []string       `json:"features,omitempty"`
	AvailableSlots []booking.Slot `json:"availableSlots,omitempty"`
	ShowInCalendar bool           `json:"showInCalendar,omitempty"`
	AutoApprove    bool           `json:"autoApprove,omitempty"`
}
