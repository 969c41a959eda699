package domain

import (
	"testing"
	"time"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestNightsInclusive(t *testing.T) {
	cases := []struct {
		start, end string
		want       int
	}{
		{"2024-01-01", "2024-01-03", 3},
		{"2024-01-01", "2024-01-01", 1},
		{"2024-02-28", "2024-03-01", 3}, // leap year
	}
	for _, c := range cases {
		got, err := Nights(date(c.start), date(c.end))
		if err != nil {
			t.Fatalf("Nights(%s, %s) error: %v", c.start, c.end, err)
		}
		if got != c.want {
			t.Fatalf("Nights(%s, %s) = %d, want %d", c.start, c.end, got, c.want)
		}
	}
}

func TestNightsAcrossDSTTransition(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}

	// Spring forward on 2024-03-10 makes this span 47 wall-clock hours.
	// The count must still be calendar-based.
	start := time.Date(2024, 3, 9, 0, 0, 0, 0, loc)
	end := time.Date(2024, 3, 11, 0, 0, 0, 0, loc)

	got, err := Nights(start, end)
	if err != nil {
		t.Fatalf("Nights error: %v", err)
	}
	if got != 3 {
		t.Fatalf("Nights across DST = %d, want 3", got)
	}

	total, err := TotalPrice(100, start, end)
	if err != nil {
		t.Fatalf("TotalPrice error: %v", err)
	}
	if total != 300 {
		t.Fatalf("TotalPrice across DST = %d, want 300", total)
	}
}

func TestNightsEndBeforeStart(t *testing.T) {
	_, err := Nights(date("2024-01-05"), date("2024-01-04"))
	if err == nil {
		t.Fatal("expected validation error for end before start")
	}
	if !IsValidation(err) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
}

func TestTotalPrice(t *testing.T) {
	got, err := TotalPrice(100, date("2024-01-01"), date("2024-01-03"))
	if err != nil {
		t.Fatalf("TotalPrice error: %v", err)
	}
	if got != 300 {
		t.Fatalf("TotalPrice = %d, want 300", got)
	}
}

func TestTotalPriceRejectsNonPositiveRate(t *testing.T) {
	if _, err := TotalPrice(0, date("2024-01-01"), date("2024-01-02")); !IsValidation(err) {
		t.Fatalf("expected ValidationError for zero rate, got %v", err)
	}
}
