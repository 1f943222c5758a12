package hibp

import (
	"errors"
	"testing"
)

func TestParseRange(t *testing.T) {
	body := "0018A45C4D1DEF81644B54AB7F969B88D65:1\r\n" +
		"1E4C9B93F3F0682250B6CF8331B7EE68FD8:9659365\r\n" +
		"00D4F6E8FA6EECAD2A3AA415EEC418D38EC:0\r\n"

	set, err := ParseRange("5BAA6", []byte(body))
	if err != nil {
		t.Fatalf("Should not fail parsing: %s", err)
	}

	if set.Len() != 3 {
		t.Errorf("Range should have 3 records, has %d", set.Len())
	}

	if n, ok := set.Count("1E4C9B93F3F0682250B6CF8331B7EE68FD8"); !ok || n != 9659365 {
		t.Errorf("Count: %d %v, want: 9659365 true", n, ok)
	}

	if _, ok := set.Count("00D4F6E8FA6EECAD2A3AA415EEC418D38EC"); ok {
		t.Errorf("Padding records should not be reported as present")
	}

	if _, ok := set.Count("FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFF"); ok {
		t.Errorf("Missing suffix should not be present")
	}
}

func TestParseRange_Empty(t *testing.T) {
	set, err := ParseRange("00000", nil)
	if err != nil {
		t.Fatalf("Empty range should not fail: %s", err)
	}
	if set.Len() != 0 {
		t.Errorf("Empty range should have no records")
	}
}

func TestParseRange_Malformed(t *testing.T) {
	bodies := []string{
		"<html>Service Unavailable</html>",
		"1E4C9B93F3F0682250B6CF8331B7EE68FD8",
		"1E4C9B93F3F0682250B6CF8331B7EE68FD8:lots",
		"1E4C9B:12",
	}

	for _, body := range bodies {
		if _, err := ParseRange("5BAA6", []byte(body)); !errors.Is(err, ErrMalformedResponse) {
			t.Errorf("ParseRange(%q) should fail with ErrMalformedResponse, got %v", body, err)
		}
	}
}
