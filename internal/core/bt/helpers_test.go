package bt

import "time"

// scripted returns the statuses in order, repeating the last one when exhausted.
type scripted struct {
	statuses []Status
	calls    int
	resets   int
}

func (s *scripted) fn(*TickContext) Status {
	i := s.calls
	if i >= len(s.statuses) {
		i = len(s.statuses) - 1
	}
	s.calls++
	return s.statuses[i]
}

func newScripted(name string, statuses ...Status) (*Action, *scripted) {
	s := &scripted{statuses: statuses}
	return Must(NewAction(name, s.fn)), s
}

func always(st Status) ActionFunc {
	return func(*TickContext) Status { return st }
}

func delta(d time.Duration) *TickContext {
	return &TickContext{DeltaTime: d}
}
