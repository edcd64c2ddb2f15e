package health

// ProviderStatus reports backend configuration and breaker state.
type ProviderStatus interface {
	Status() map[string]any
}

// Service encapsulates health-related checks.
type Service struct {
	providers ProviderStatus
}

// NewService constructs a new health service. providers may be nil.
func NewService(providers ProviderStatus) *Service {
	return &Service{providers: providers}
}

// Status returns the health payload. The service is stateless, so it is
// healthy whenever it can answer; backend state is informational.
func (s *Service) Status() map[string]any {
	out := map[string]any{"ok": true}
	if s.providers != nil {
		out["providers"] = s.providers.Status()
	}
	return out
}
