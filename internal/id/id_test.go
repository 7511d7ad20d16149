package id

import (
	"strings"
	"testing"
)

func TestGenerate(t *testing.T) {
	got, err := Generate("post")
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if !strings.HasPrefix(got, "post-") {
		t.Errorf("expected prefix %q, got %q", "post-", got)
	}
	// prefix + dash + 21-char nanoid
	if len(got) != len("post-")+21 {
		t.Errorf("unexpected ID length: %q", got)
	}
}

func TestGenerate_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for range 100 {
		id, err := Generate("tag")
		if err != nil {
			t.Fatalf("Generate returned error: %v", err)
		}
		if seen[id] {
			t.Fatalf("duplicate ID generated: %s", id)
		}
		seen[id] = true
	}
}
