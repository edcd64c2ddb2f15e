package health

import "testing"

type staticStatus map[string]any

func (s staticStatus) Status() map[string]any { return s }

func TestStatusWithoutProviders(t *testing.T) {
	got := NewService(nil).Status()
	if got["ok"] != true {
		t.Fatalf("expected ok=true, got %v", got)
	}
	if _, ok := got["providers"]; ok {
		t.Fatalf("expected no providers key, got %v", got)
	}
}

func TestStatusIncludesProviders(t *testing.T) {
	got := NewService(staticStatus{"primary": map[string]any{"configured": true}}).Status()
	providers, ok := got["providers"].(map[string]any)
	if !ok {
		t.Fatalf("expected providers map, got %T", got["providers"])
	}
	if _, ok := providers["primary"]; !ok {
		t.Fatalf("expected primary status, got %v", providers)
	}
}
