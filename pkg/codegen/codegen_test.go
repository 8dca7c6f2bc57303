package codegen

import (
	"regexp"
	"testing"
)

func TestNewFormat(t *testing.T) {
	re := regexp.MustCompile(`^PROD-[A-HJ-NP-Z2-9]{6}$`)
	for i := 0; i < 50; i++ {
		code, err := New(PrefixProduct)
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		if !re.MatchString(code) {
			t.Fatalf("unexpected code %q", code)
		}
	}
}

func TestNewWithLengthValidates(t *testing.T) {
	if _, err := NewWithLength("usr", 0); err == nil {
		t.Fatal("expected error for zero length")
	}
	if _, err := NewWithLength(" ", 4); err == nil {
		t.Fatal("expected error for empty prefix")
	}
	code, err := NewWithLength("usr", 8)
	if err != nil {
		t.Fatalf("NewWithLength: %v", err)
	}
	if len(code) != len("USR-")+8 || code[:4] != "USR-" {
		t.Fatalf("unexpected code %q", code)
	}
}
