package service

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func newImportServiceForTest(store *memoryStore, cfg SpotImportServiceConfig) *SpotImportService {
	return NewSpotImportService(&memorySpotRepo{store}, &memorySpotImageRepo{store}, &memoryUserRepo{store}, cfg)
}

const importYAML = `
- address: 123 Main St
  city: Springfield
  state: OR
  country: USA
  lat: 44.05
  lng: -123.09
  name: Riverside Cabin
  description: Quiet cabin by the river
  price: 120
  images:
    - url: https://cdn/cabin.jpg
      preview: true
- address: 9 Ocean Ave
  city: Newport
  state: OR
  country: USA
  lat: 44.63
  lng: -124.05
  name: Harbor Loft
  description: Loft over the marina
  price: 210
`

func TestSpotImportService_ImportYAML(t *testing.T) {
	store := newMemoryStore()
	owner := store.addUser("Ada", "Lovelace", "ada@example.com")
	svc := newImportServiceForTest(store, SpotImportServiceConfig{})

	report, err := svc.ImportYAML(context.Background(), owner.ID, []byte(importYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Total != 2 || report.Imported != 2 || len(report.RowErrors) != 0 {
		t.Fatalf("unexpected report: %+v", report)
	}
	if len(store.spots) != 2 {
		t.Fatalf("expected 2 spots stored, got %d", len(store.spots))
	}
	if len(store.spotImages) != 1 || !store.spotImages[0].Preview {
		t.Fatalf("row images not stored: %+v", store.spotImages)
	}
	for _, spot := range store.spots {
		if spot.OwnerID != owner.ID {
			t.Fatalf("spot not owned by importer: %+v", spot)
		}
	}
}

func TestSpotImportService_InvalidRowsReportedNotFatal(t *testing.T) {
	store := newMemoryStore()
	owner := store.addUser("Ada", "Lovelace", "ada@example.com")
	svc := newImportServiceForTest(store, SpotImportServiceConfig{})

	data := `
- address: 123 Main St
  city: Springfield
  state: OR
  country: USA
  lat: 44.05
  lng: -123.09
  name: Riverside Cabin
  description: Quiet cabin
  price: 0
- address: 9 Ocean Ave
  city: Newport
  state: OR
  country: USA
  lat: 44.63
  lng: -124.05
  name: Harbor Loft
  description: Loft over the marina
  price: 210
`
	report, err := svc.ImportYAML(context.Background(), owner.ID, []byte(data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Imported != 1 || len(report.RowErrors) != 1 {
		t.Fatalf("unexpected report: %+v", report)
	}
	if report.RowErrors[0].Row != 1 || !strings.Contains(report.RowErrors[0].Message, "price") {
		t.Fatalf("row error should name the bad row and field: %+v", report.RowErrors[0])
	}
}

func TestSpotImportService_Limits(t *testing.T) {
	store := newMemoryStore()
	owner := store.addUser("Ada", "Lovelace", "ada@example.com")
	svc := newImportServiceForTest(store, SpotImportServiceConfig{MaxRows: 1, MaxFileBytes: 64})

	if _, err := svc.ImportYAML(context.Background(), owner.ID, nil); !errors.Is(err, ErrImportEmptyFile) {
		t.Fatalf("expected ErrImportEmptyFile, got %v", err)
	}
	if _, err := svc.ImportYAML(context.Background(), owner.ID, []byte(importYAML)); !errors.Is(err, ErrImportTooLarge) {
		t.Fatalf("expected ErrImportTooLarge, got %v", err)
	}

	svc = newImportServiceForTest(store, SpotImportServiceConfig{MaxRows: 1})
	if _, err := svc.ImportYAML(context.Background(), owner.ID, []byte(importYAML)); !errors.Is(err, ErrImportRowLimitExceeded) {
		t.Fatalf("expected ErrImportRowLimitExceeded, got %v", err)
	}
}

func TestSpotImportService_UnknownOwner(t *testing.T) {
	svc := newImportServiceForTest(newMemoryStore(), SpotImportServiceConfig{})
	if _, err := svc.ImportYAML(context.Background(), 42, []byte(importYAML)); err == nil {
		t.Fatalf("expected error for unknown owner")
	}
}
