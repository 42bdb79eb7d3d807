// Package notification holds the user-facing notification record. Records
// are created only as side effects of lifecycle transitions and are never
// mutated afterwards except for the read flag.
package notification

type Kind string

const (
	KindInfo    Kind = "info"
	KindSuccess Kind = "success"
	KindWarning Kind = "warning"
	KindError   Kind = "error"
)

type Notification struct {
	ID      string `json:"id"`
	UserID  string `json:"userId"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Date    string `json:"date"`
	Read    bool   `json:"read"`
	Type    Kind   `json:"type"`
	Link    string `json:"link,omitempty"`
}
