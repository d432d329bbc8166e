package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/staylist/staylist-backend/internal/domain"
	"github.com/staylist/staylist-backend/internal/media"
	"github.com/staylist/staylist-backend/internal/repository/ports"
)

var (
	ErrSpotNotFound  = errors.New("spot not found")
	ErrSpotImageType = errors.New("unsupported image type")
	ErrSpotImageSize = errors.New("image exceeds size limit")
)

const maxSpotNameLength = 50

type SpotServiceConfig struct {
	Bucket           string
	PublicBaseURL    string
	MaxImageBytes    int64
	AllowedMIMETypes []string
	ImageProcessor   media.Processor
	ImageMaxDim      int
}

type SpotImageUpload struct {
	Reader      io.Reader
	Size        int64
	FileName    string
	ContentType string
}

type SpotService struct {
	spots   ports.SpotRepository
	images  ports.SpotImageRepository
	users   ports.UserRepository
	storage ports.ObjectStorage

	bucket        string
	publicBase    string
	maxImageBytes int64
	allowedMIMEs  map[string]struct{}
	processor     media.Processor
	imageMaxDim   int
	now           func() time.Time
}

var defaultSpotImageMIMEs = []string{
	"image/jpeg",
	"image/png",
	"image/webp",
}

func NewSpotService(
	spots ports.SpotRepository,
	images ports.SpotImageRepository,
	users ports.UserRepository,
	storage ports.ObjectStorage,
	cfg SpotServiceConfig,
) *SpotService {
	maxBytes := cfg.MaxImageBytes
	if maxBytes <= 0 {
		maxBytes = 5 * 1024 * 1024
	}
	allowed := cfg.AllowedMIMETypes
	if len(allowed) == 0 {
		allowed = defaultSpotImageMIMEs
	}
	mimeSet := make(map[string]struct{}, len(allowed))
	for _, mt := range allowed {
		mimeSet[strings.ToLower(strings.TrimSpace(mt))] = struct{}{}
	}
	maxDim := cfg.ImageMaxDim
	if maxDim <= 0 {
		maxDim = media.DefaultMaxDimension
	}

	return &SpotService{
		spots:         spots,
		images:        images,
		users:         users,
		storage:       storage,
		bucket:        strings.TrimSpace(cfg.Bucket),
		publicBase:    strings.TrimRight(cfg.PublicBaseURL, "/"),
		maxImageBytes: maxBytes,
		allowedMIMEs:  mimeSet,
		processor:     cfg.ImageProcessor,
		imageMaxDim:   maxDim,
		now:           time.Now,
	}
}

func (s *SpotService) ListAll(ctx context.Context) ([]domain.SpotListItem, error) {
	return s.spots.ListWithAggregates(ctx, nil)
}

func (s *SpotService) ListByOwner(ctx context.Context, ownerID int64) ([]domain.SpotListItem, error) {
	return s.spots.ListWithAggregates(ctx, &ownerID)
}

func (s *SpotService) GetDetail(ctx context.Context, spotID int64) (*domain.SpotDetail, error) {
	spot, err := s.spots.FindByID(ctx, spotID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrSpotNotFound
		}
		return nil, err
	}

	owner, err := s.users.FindByID(ctx, spot.OwnerID)
	if err != nil {
		return nil, err
	}

	images, err := s.images.ListBySpot(ctx, spotID)
	if err != nil {
		return nil, err
	}

	rating, err := s.spots.RatingSummary(ctx, spotID)
	if err != nil {
		return nil, err
	}

	return &domain.SpotDetail{
		Spot:          *spot,
		NumReviews:    rating.NumReviews,
		AvgStarRating: rating.AvgStarRating,
		Images:        images,
		Owner:         owner.Summary(),
	}, nil
}

func (s *SpotService) Create(ctx context.Context, ownerID int64, fields domain.SpotFields) (*domain.Spot, error) {
	if err := validateSpotFields(fields, true); err != nil {
		return nil, err
	}

	spot := &domain.Spot{
		OwnerID:     ownerID,
		Address:     *fields.Address,
		City:        *fields.City,
		State:       *fields.State,
		Country:     *fields.Country,
		Lat:         *fields.Lat,
		Lng:         *fields.Lng,
		Name:        *fields.Name,
		Description: *fields.Description,
		Price:       *fields.Price,
	}
	return s.spots.Create(ctx, spot)
}

// Update applies a partial update scoped to (spotID, ownerID). A spot that
// exists but belongs to someone else reports the same not-found error as a
// missing spot, so the response does not reveal which spots exist.
func (s *SpotService) Update(ctx context.Context, ownerID, spotID int64, fields domain.SpotFields) (*domain.Spot, error) {
	if err := validateSpotFields(fields, false); err != nil {
		return nil, err
	}

	if _, err := s.spots.FindByIDAndOwner(ctx, spotID, ownerID); err != nil {
		if isNotFound(err) {
			return nil, ErrSpotNotFound
		}
		return nil, err
	}

	return s.spots.Update(ctx, spotID, fields)
}

func (s *SpotService) Delete(ctx context.Context, ownerID, spotID int64) error {
	if _, err := s.spots.FindByIDAndOwner(ctx, spotID, ownerID); err != nil {
		if isNotFound(err) {
			return ErrSpotNotFound
		}
		return err
	}
	if err := s.spots.Delete(ctx, spotID); err != nil {
		if isNotFound(err) {
			return ErrSpotNotFound
		}
		return err
	}
	return nil
}

func (s *SpotService) AddImage(ctx context.Context, ownerID, spotID int64, url string, preview bool) (*domain.SpotImage, error) {
	if strings.TrimSpace(url) == "" {
		return nil, &ValidationError{Fields: map[string]string{"url": "Image url is required"}}
	}
	if _, err := s.spots.FindByIDAndOwner(ctx, spotID, ownerID); err != nil {
		if isNotFound(err) {
			return nil, ErrSpotNotFound
		}
		return nil, err
	}
	return s.images.Create(ctx, &domain.SpotImage{SpotID: spotID, URL: url, Preview: preview})
}

// UploadImage stores the picture in object storage, then records it like
// AddImage. The bytes pass through the media processor first so oversized
// originals are scaled down before they ever hit the bucket.
func (s *SpotService) UploadImage(ctx context.Context, ownerID, spotID int64, upload SpotImageUpload, preview bool) (*domain.SpotImage, error) {
	if s.storage == nil {
		return nil, errors.New("object storage is not configured")
	}
	if upload.Size <= 0 {
		return nil, &ValidationError{Fields: map[string]string{"image": "Image file is empty"}}
	}
	if s.maxImageBytes > 0 && upload.Size > s.maxImageBytes {
		return nil, fmt.Errorf("%w (%d bytes)", ErrSpotImageSize, s.maxImageBytes)
	}
	contentType := strings.ToLower(strings.TrimSpace(upload.ContentType))
	if _, ok := s.allowedMIMEs[contentType]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrSpotImageType, upload.ContentType)
	}

	if _, err := s.spots.FindByIDAndOwner(ctx, spotID, ownerID); err != nil {
		if isNotFound(err) {
			return nil, ErrSpotNotFound
		}
		return nil, err
	}

	reader, size, finalType, err := prepareImageForUpload(ctx, s.processor, media.Upload{
		Reader:      upload.Reader,
		Size:        upload.Size,
		FileName:    upload.FileName,
		ContentType: upload.ContentType,
	}, s.imageMaxDim)
	if err != nil {
		return nil, err
	}

	objectKey := fmt.Sprintf("spots/%d/%s%s", spotID, uuid.NewString(), imageExtension(finalType, upload.FileName))
	url, err := s.storage.Upload(ctx, s.bucket, objectKey, finalType, reader, size)
	if err != nil {
		return nil, err
	}
	if s.publicBase != "" {
		url = s.publicBase + "/" + strings.TrimLeft(objectKey, "/")
	}

	return s.images.Create(ctx, &domain.SpotImage{SpotID: spotID, URL: url, Preview: preview})
}

// validateSpotFields checks create/update input. requireAll distinguishes the
// two: creates must supply every field, updates only validate what is present.
func validateSpotFields(fields domain.SpotFields, requireAll bool) error {
	errs := map[string]string{}

	checkString := func(field string, value *string, message string) {
		switch {
		case value == nil:
			if requireAll {
				errs[field] = message
			}
		case strings.TrimSpace(*value) == "":
			errs[field] = message
		}
	}

	checkString("address", fields.Address, "Street address is required")
	checkString("city", fields.City, "City is required")
	checkString("state", fields.State, "State is required")
	checkString("country", fields.Country, "Country is required")
	checkString("description", fields.Description, "Description is required")

	switch {
	case fields.Lat == nil:
		if requireAll {
			errs["lat"] = "Latitude is not valid"
		}
	case *fields.Lat < -90 || *fields.Lat > 90:
		errs["lat"] = "Latitude is not valid"
	}
	switch {
	case fields.Lng == nil:
		if requireAll {
			errs["lng"] = "Longitude is not valid"
		}
	case *fields.Lng < -180 || *fields.Lng > 180:
		errs["lng"] = "Longitude is not valid"
	}

	switch {
	case fields.Name == nil:
		if requireAll {
			errs["name"] = "Name is required"
		}
	case strings.TrimSpace(*fields.Name) == "":
		errs["name"] = "Name is required"
	case len(*fields.Name) > maxSpotNameLength:
		errs["name"] = "Name must be less than 50 characters"
	}

	switch {
	case fields.Price == nil:
		if requireAll {
			errs["price"] = "Price per day is required and cannot be zero"
		}
	case *fields.Price < 1:
		errs["price"] = "Price per day is required and cannot be zero"
	}

	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}

func imageExtension(contentType, fileName string) string {
	switch strings.ToLower(strings.TrimSpace(contentType)) {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	}
	if ext := strings.ToLower(strings.TrimSpace(filepath.Ext(fileName))); ext != "" {
		return ext
	}
	return ".bin"
}
