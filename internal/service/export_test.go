package service

import "time"

// SetClock replaces the service clock in tests.
func (s *ChatService) SetClock(now func() time.Time) { s.now = now }
