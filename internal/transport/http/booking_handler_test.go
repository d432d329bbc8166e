package http

import (
	"testing"
	"time"
)

func TestParseBookingDates(t *testing.T) {
	start, end, errs := parseBookingDates("2026-09-01", "2026-09-05")
	if errs != nil {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if !start.Equal(time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected start date: %v", start)
	}
	if !end.Equal(time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected end date: %v", end)
	}
}

func TestParseBookingDatesInvalid(t *testing.T) {
	_, _, errs := parseBookingDates("09/01/2026", "")
	if errs == nil {
		t.Fatal("expected errors for malformed dates, got nil")
	}
	if errs["startDate"] == "" {
		t.Fatalf("expected startDate error, got %v", errs)
	}
	if errs["endDate"] == "" {
		t.Fatalf("expected endDate error, got %v", errs)
	}
}
