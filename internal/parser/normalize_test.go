package parser

import (
	"testing"
	"time"
)

func TestParseAmountCleansCurrencyStrings(t *testing.T) {
	cases := []struct {
		in   any
		want float64
	}{
		{"¥1,234.50", 1234.50},
		{"￥88.00", 88},
		{" 35.00 ", 35},
		{12.5, 12.5},
		{"abc", 0},
		{"", 0},
		{nil, 0},
	}
	for _, c := range cases {
		if got := ParseAmount(c.in); got != c.want {
			t.Fatalf("ParseAmount(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestParseAmountMatchesCleanedString(t *testing.T) {
	if ParseAmount("¥1,234.50") != ParseAmount("1234.50") {
		t.Fatal("glyph-laden string must parse equal to the cleaned string")
	}
}

func TestParseDateSerialRoundTrip(t *testing.T) {
	// serial day 45292 is 2024-01-01
	got, err := ParseDate(45292.0)
	if err != nil {
		t.Fatalf("ParseDate(45292) error: %v", err)
	}
	if day := got.UTC().Format("2006-01-02"); day != "2024-01-01" {
		t.Fatalf("serial 45292 = %s, want 2024-01-01", day)
	}

	// serial 25569 is the unix epoch itself
	epoch, err := ParseDate(25569.0)
	if err != nil {
		t.Fatalf("ParseDate(25569) error: %v", err)
	}
	if epoch.UnixMilli() != 0 {
		t.Fatalf("serial 25569 = %d ms, want 0", epoch.UnixMilli())
	}
}

func TestParseDateSlashSeparated(t *testing.T) {
	got, err := ParseDate("2024/11/05 13:30:00")
	if err != nil {
		t.Fatalf("ParseDate error: %v", err)
	}
	want := time.Date(2024, 11, 5, 13, 30, 0, 0, time.Local)
	if !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestParseDateDayOnly(t *testing.T) {
	got, err := ParseDate("2024-03-09")
	if err != nil {
		t.Fatalf("ParseDate error: %v", err)
	}
	if got.Format("2006-01-02") != "2024-03-09" {
		t.Fatalf("got %v", got)
	}
}

func TestParseDateRejectsGarbage(t *testing.T) {
	if _, err := ParseDate("not a date"); err == nil {
		t.Fatal("expected error for garbage input")
	}
	if _, err := ParseDate(struct{}{}); err == nil {
		t.Fatal("expected error for unsupported type")
	}
}
