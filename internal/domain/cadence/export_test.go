package cadence

import "time"

// SetNow overrides the service clock in tests.
func (s *Service) SetNow(now func() time.Time) { s.now = now }
