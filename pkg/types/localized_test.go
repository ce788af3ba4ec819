package types

import "testing"

func TestLocalizedStringRoundTrip(t *testing.T) {
	t.Parallel()

	original := LocalizedString{En: "Engineer", Es: "Ingeniero", Pt: "Engenheiro"}

	value, err := original.Value()
	if err != nil {
		t.Fatalf("Value: %v", err)
	}

	var scanned LocalizedString
	if err := scanned.Scan(value); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if scanned != original {
		t.Fatalf("round trip mismatch: %+v != %+v", scanned, original)
	}
}

func TestLocalizedStringScanNil(t *testing.T) {
	t.Parallel()

	ls := LocalizedString{En: "leftover"}
	if err := ls.Scan(nil); err != nil {
		t.Fatalf("Scan(nil): %v", err)
	}
	if !ls.IsZero() {
		t.Fatalf("expected zero value after nil scan, got %+v", ls)
	}
}

func TestStringListRoundTripAndContains(t *testing.T) {
	t.Parallel()

	list := StringList{"Go", "TypeScript"}

	value, err := list.Value()
	if err != nil {
		t.Fatalf("Value: %v", err)
	}

	var scanned StringList
	if err := scanned.Scan([]byte(value.(string))); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(scanned) != 2 {
		t.Fatalf("expected 2 items, got %d", len(scanned))
	}
	if !scanned.Contains("go") {
		t.Fatal("expected case-insensitive contains")
	}
	if scanned.Contains("Rust") {
		t.Fatal("did not expect Rust")
	}
}

func TestStringListNilValue(t *testing.T) {
	t.Parallel()

	var list StringList
	value, err := list.Value()
	if err != nil {
		t.Fatalf("Value: %v", err)
	}
	if value.(string) != "[]" {
		t.Fatalf("expected empty JSON array, got %s", value)
	}
}
