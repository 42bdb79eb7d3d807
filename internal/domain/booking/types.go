package booking

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusDone      Status = "DONE"
	StatusCancelled Status = "CANCELLED"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusDone, StatusCancelled:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no further transition may leave s.
func (s Status) IsTerminal() bool {
	return s == StatusCancelled || s == StatusDone
}

// CanTransitionTo encodes the lifecycle machine:
// PENDING → CONFIRMED, and CANCELLED from PENDING or CONFIRMED. DONE is a
// derived presentation state and is never written.
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusPending:
		return next == StatusConfirmed || next == StatusCancelled
	case StatusConfirmed:
		return next == StatusCancelled
	default:
		return false
	}
}

// Slot is the booked part of a day. Labels are the wire values the backing
// store and the calendar UI share.
type Slot string

const (
	SlotMorning   Slot = "Matin (8h-12h)"
	SlotAfternoon Slot = "Après-midi (13h-18h)"
	SlotFullDay   Slot = "Journée Entière"
)
