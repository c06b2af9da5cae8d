package service

import "time"

// SetClock pins the time used for grouping sessions.
func (s *SessionService) SetClock(now func() time.Time) {
	s.now = now
}
