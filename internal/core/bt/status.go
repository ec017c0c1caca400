package bt

// Status is the result of a single node tick.
type Status int

const (
	StatusSuccess Status = iota
	StatusFailure
	StatusRunning
	// StatusInvalid is reported by Node.Status before the first tick and after a Reset.
	// Nodes of this package never return it from Tick.
	StatusInvalid
)

// String returns the status name used in logs and snapshots.
func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "Success"
	case StatusFailure:
		return "Failure"
	case StatusRunning:
		return "Running"
	default:
		return "Invalid"
	}
}

// IsTerminal reports whether the node finished its unit of work.
func (s Status) IsTerminal() bool {
	return s == StatusSuccess || s == StatusFailure
}

// normalize maps anything other than the three tick results onto StatusFailure.
func (s Status) normalize() Status {
	switch s {
	case StatusSuccess, StatusFailure, StatusRunning:
		return s
	default:
		return StatusFailure
	}
}

// MarshalText lets snapshots carry readable statuses.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
