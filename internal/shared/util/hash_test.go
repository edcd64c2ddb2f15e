package util

import "testing"

func TestTextDigest(t *testing.T) {
	text := "Jane Doe\nSenior Engineer"
	got := TextDigest(text)
	if got != TextDigest(text) {
		t.Fatalf("expected stable hash, got %s", got)
	}
	if got == TextDigest(text+" ") {
		t.Fatalf("expected different digest for different input")
	}
	for _, ch := range got {
		if !((ch >= 'a' && ch <= 'f') || (ch >= '0' && ch <= '9')) {
			t.Fatalf("hash contains non-hex character: %c", ch)
		}
	}
	if len(got) != 64 {
		t.Fatalf("expected 64 hex characters, got %d", len(got))
	}
}
