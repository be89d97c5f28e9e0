package health

// Checker reports whether an external provider client is available.
type Checker interface {
	Configured() bool
}

// Service encapsulates health-related checks.
type Service struct {
	OCR    Checker
	AI     Checker
	Videos Checker

	StoreType string
	DBPresent bool
}

// Status returns the health payload. Unconfigured adapters are reported but
// do not make the process unhealthy; they simply run degraded.
func (s *Service) Status() map[string]any {
	return map[string]any{
		"ok": true,
		"adapters": map[string]bool{
			"ocr":    configured(s.OCR),
			"ai":     configured(s.AI),
			"videos": configured(s.Videos),
		},
		"store":    s.StoreType,
		"database": s.DBPresent,
	}
}

func configured(c Checker) bool {
	return c != nil && c.Configured()
}
