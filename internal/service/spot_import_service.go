package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/ghodss/yaml"
	"github.com/google/uuid"

	"github.com/staylist/staylist-backend/internal/domain"
	"github.com/staylist/staylist-backend/internal/repository/ports"
)

var (
	ErrImportEmptyFile        = errors.New("import file is empty")
	ErrImportTooLarge         = errors.New("import file exceeds maximum size")
	ErrImportRowLimitExceeded = errors.New("import exceeds maximum allowed rows")
)

type SpotImportServiceConfig struct {
	MaxRows      int
	MaxFileBytes int64
}

type SpotImportService struct {
	spots        ports.SpotRepository
	images       ports.SpotImageRepository
	users        ports.UserRepository
	maxRows      int
	maxFileBytes int64
}

func NewSpotImportService(spots ports.SpotRepository, images ports.SpotImageRepository, users ports.UserRepository, cfg SpotImportServiceConfig) *SpotImportService {
	maxRows := cfg.MaxRows
	if maxRows <= 0 {
		maxRows = 500
	}
	maxFile := cfg.MaxFileBytes
	if maxFile <= 0 {
		maxFile = 5 * 1024 * 1024
	}
	return &SpotImportService{
		spots:        spots,
		images:       images,
		users:        users,
		maxRows:      maxRows,
		maxFileBytes: maxFile,
	}
}

// SpotImportRow mirrors one entry of the YAML import document.
type SpotImportRow struct {
	Address     string  `json:"address"`
	City        string  `json:"city"`
	State       string  `json:"state"`
	Country     string  `json:"country"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       int     `json:"price"`
	Images      []struct {
		URL     string `json:"url"`
		Preview bool   `json:"preview"`
	} `json:"images"`
}

type SpotImportRowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

type SpotImportReport struct {
	BatchID   uuid.UUID            `json:"batchId"`
	Total     int                  `json:"total"`
	Imported  int                  `json:"imported"`
	RowErrors []SpotImportRowError `json:"rowErrors,omitempty"`
}

// ImportYAML parses a YAML document of spot rows and inserts each valid row
// for the given owner. Invalid rows are reported, not fatal; a malformed
// document is.
func (s *SpotImportService) ImportYAML(ctx context.Context, ownerID int64, data []byte) (*SpotImportReport, error) {
	if len(data) == 0 {
		return nil, ErrImportEmptyFile
	}
	if int64(len(data)) > s.maxFileBytes {
		return nil, ErrImportTooLarge
	}

	if _, err := s.users.FindByID(ctx, ownerID); err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("owner %d does not exist", ownerID)
		}
		return nil, err
	}

	var rows []SpotImportRow
	if err := yaml.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("parse import file: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrImportEmptyFile
	}
	if len(rows) > s.maxRows {
		return nil, ErrImportRowLimitExceeded
	}

	report := &SpotImportReport{BatchID: uuid.New(), Total: len(rows)}

	for i, row := range rows {
		fields := domain.SpotFields{
			Address:     &row.Address,
			City:        &row.City,
			State:       &row.State,
			Country:     &row.Country,
			Lat:         &row.Lat,
			Lng:         &row.Lng,
			Name:        &row.Name,
			Description: &row.Description,
			Price:       &row.Price,
		}
		if err := validateSpotFields(fields, true); err != nil {
			report.RowErrors = append(report.RowErrors, SpotImportRowError{Row: i + 1, Message: err.Error()})
			continue
		}

		spot, err := s.spots.Create(ctx, &domain.Spot{
			OwnerID:     ownerID,
			Address:     row.Address,
			City:        row.City,
			State:       row.State,
			Country:     row.Country,
			Lat:         row.Lat,
			Lng:         row.Lng,
			Name:        row.Name,
			Description: row.Description,
			Price:       row.Price,
		})
		if err != nil {
			report.RowErrors = append(report.RowErrors, SpotImportRowError{Row: i + 1, Message: err.Error()})
			continue
		}

		for _, img := range row.Images {
			if _, err := s.images.Create(ctx, &domain.SpotImage{
				SpotID:  spot.ID,
				URL:     img.URL,
				Preview: img.Preview,
			}); err != nil {
				report.RowErrors = append(report.RowErrors, SpotImportRowError{
					Row:     i + 1,
					Message: fmt.Sprintf("image %q: %v", img.URL, err),
				})
			}
		}

		report.Imported++
	}

	return report, nil
}
