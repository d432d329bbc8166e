package service

import (
	"context"
	"database/sql"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/staylist/staylist-backend/internal/domain"
)

// memoryStore backs the in-memory repositories below. It mirrors the database
// semantics the services rely on: sql.ErrNoRows for missing rows, pg error
// codes for constraint violations, and overlap rejection on booking inserts.
type memoryStore struct {
	mu     sync.Mutex
	nextID int64

	spots        map[int64]domain.Spot
	spotImages   []domain.SpotImage
	reviews      map[int64]domain.Review
	reviewImages []domain.ReviewImage
	bookings     []domain.Booking
	users        map[int64]domain.User
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		spots:   map[int64]domain.Spot{},
		reviews: map[int64]domain.Review{},
		users:   map[int64]domain.User{},
	}
}

func (s *memoryStore) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *memoryStore) addUser(firstName, lastName, email string) domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	user := domain.User{ID: s.id(), FirstName: firstName, LastName: lastName, Email: email}
	s.users[user.ID] = user
	return user
}

func (s *memoryStore) addSpot(ownerID int64, name string, price int) domain.Spot {
	s.mu.Lock()
	defer s.mu.Unlock()
	spot := domain.Spot{
		ID:          s.id(),
		OwnerID:     ownerID,
		Address:     "123 Main St",
		City:        "Springfield",
		State:       "OR",
		Country:     "USA",
		Lat:         44.05,
		Lng:         -123.09,
		Name:        name,
		Description: "A place to stay",
		Price:       price,
	}
	s.spots[spot.ID] = spot
	return spot
}

func (s *memoryStore) addReview(userID, spotID int64, stars int) domain.Review {
	s.mu.Lock()
	defer s.mu.Unlock()
	review := domain.Review{ID: s.id(), UserID: userID, SpotID: spotID, Review: "fine stay", Stars: stars}
	s.reviews[review.ID] = review
	return review
}

func uniqueViolation(constraint string) error {
	return &pgconn.PgError{Code: "23505", ConstraintName: constraint}
}

type memorySpotRepo struct{ store *memoryStore }

func (r *memorySpotRepo) ListWithAggregates(ctx context.Context, ownerID *int64) ([]domain.SpotListItem, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	items := make([]domain.SpotListItem, 0, len(r.store.spots))
	for _, spot := range r.store.spots {
		if ownerID != nil && spot.OwnerID != *ownerID {
			continue
		}
		item := domain.SpotListItem{Spot: spot}

		var sum, count int
		for _, review := range r.store.reviews {
			if review.SpotID == spot.ID {
				sum += review.Stars
				count++
			}
		}
		if count > 0 {
			avg := float64(sum) / float64(count)
			item.AvgRating = &avg
		}
		for _, image := range r.store.spotImages {
			if image.SpotID == spot.ID && image.Preview {
				url := image.URL
				item.PreviewImage = &url
				break
			}
		}
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (r *memorySpotRepo) FindByID(ctx context.Context, id int64) (*domain.Spot, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	spot, ok := r.store.spots[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &spot, nil
}

func (r *memorySpotRepo) FindByIDAndOwner(ctx context.Context, id, ownerID int64) (*domain.Spot, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	spot, ok := r.store.spots[id]
	if !ok || spot.OwnerID != ownerID {
		return nil, sql.ErrNoRows
	}
	return &spot, nil
}

func (r *memorySpotRepo) RatingSummary(ctx context.Context, spotID int64) (*domain.SpotRatingSummary, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	summary := &domain.SpotRatingSummary{}
	var sum int
	for _, review := range r.store.reviews {
		if review.SpotID == spotID {
			sum += review.Stars
			summary.NumReviews++
		}
	}
	if summary.NumReviews > 0 {
		avg := float64(sum) / float64(summary.NumReviews)
		summary.AvgStarRating = &avg
	}
	return summary, nil
}

func (r *memorySpotRepo) Create(ctx context.Context, spot *domain.Spot) (*domain.Spot, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	stored := *spot
	stored.ID = r.store.id()
	r.store.spots[stored.ID] = stored
	return &stored, nil
}

func (r *memorySpotRepo) Update(ctx context.Context, id int64, fields domain.SpotFields) (*domain.Spot, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	spot, ok := r.store.spots[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	if fields.Address != nil {
		spot.Address = *fields.Address
	}
	if fields.City != nil {
		spot.City = *fields.City
	}
	if fields.State != nil {
		spot.State = *fields.State
	}
	if fields.Country != nil {
		spot.Country = *fields.Country
	}
	if fields.Lat != nil {
		spot.Lat = *fields.Lat
	}
	if fields.Lng != nil {
		spot.Lng = *fields.Lng
	}
	if fields.Name != nil {
		spot.Name = *fields.Name
	}
	if fields.Description != nil {
		spot.Description = *fields.Description
	}
	if fields.Price != nil {
		spot.Price = *fields.Price
	}
	r.store.spots[id] = spot
	return &spot, nil
}

func (r *memorySpotRepo) Delete(ctx context.Context, id int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.spots[id]; !ok {
		return sql.ErrNoRows
	}
	delete(r.store.spots, id)
	return nil
}

type memorySpotImageRepo struct{ store *memoryStore }

func (r *memorySpotImageRepo) Create(ctx context.Context, image *domain.SpotImage) (*domain.SpotImage, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if image.Preview {
		for i := range r.store.spotImages {
			if r.store.spotImages[i].SpotID == image.SpotID {
				r.store.spotImages[i].Preview = false
			}
		}
	}
	stored := *image
	stored.ID = r.store.id()
	r.store.spotImages = append(r.store.spotImages, stored)
	return &stored, nil
}

func (r *memorySpotImageRepo) ListBySpot(ctx context.Context, spotID int64) ([]domain.SpotImage, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var images []domain.SpotImage
	for _, image := range r.store.spotImages {
		if image.SpotID == spotID {
			images = append(images, image)
		}
	}
	return images, nil
}

type memoryReviewRepo struct{ store *memoryStore }

func (r *memoryReviewRepo) Create(ctx context.Context, review *domain.Review) (*domain.Review, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, existing := range r.store.reviews {
		if existing.UserID == review.UserID && existing.SpotID == review.SpotID {
			return nil, uniqueViolation("review_one_per_user_spot")
		}
	}
	stored := *review
	stored.ID = r.store.id()
	r.store.reviews[stored.ID] = stored
	return &stored, nil
}

func (r *memoryReviewRepo) GetByID(ctx context.Context, id int64) (*domain.Review, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	review, ok := r.store.reviews[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	if author, ok := r.store.users[review.UserID]; ok {
		review.AuthorFirstName = &author.FirstName
		review.AuthorLastName = &author.LastName
	}
	return &review, nil
}

func (r *memoryReviewRepo) ListBySpot(ctx context.Context, spotID int64) ([]domain.Review, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var reviews []domain.Review
	for _, review := range r.store.reviews {
		if review.SpotID == spotID {
			reviews = append(reviews, review)
		}
	}
	sort.Slice(reviews, func(i, j int) bool { return reviews[i].ID < reviews[j].ID })
	return reviews, nil
}

func (r *memoryReviewRepo) FindByUserAndSpot(ctx context.Context, userID, spotID int64) (*domain.Review, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, review := range r.store.reviews {
		if review.UserID == userID && review.SpotID == spotID {
			return &review, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (r *memoryReviewRepo) Delete(ctx context.Context, id int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.reviews[id]; !ok {
		return sql.ErrNoRows
	}
	delete(r.store.reviews, id)
	return nil
}

type memoryReviewImageRepo struct{ store *memoryStore }

func (r *memoryReviewImageRepo) Create(ctx context.Context, image *domain.ReviewImage) (*domain.ReviewImage, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	stored := *image
	stored.ID = r.store.id()
	r.store.reviewImages = append(r.store.reviewImages, stored)
	return &stored, nil
}

func (r *memoryReviewImageRepo) ListByReviewIDs(ctx context.Context, reviewIDs []int64) (map[int64][]domain.ReviewImage, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	wanted := map[int64]bool{}
	for _, id := range reviewIDs {
		wanted[id] = true
	}
	out := map[int64][]domain.ReviewImage{}
	for _, image := range r.store.reviewImages {
		if wanted[image.ReviewID] {
			out[image.ReviewID] = append(out[image.ReviewID], image)
		}
	}
	return out, nil
}

type memoryBookingRepo struct{ store *memoryStore }

func (r *memoryBookingRepo) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, existing := range r.store.bookings {
		if existing.SpotID != booking.SpotID {
			continue
		}
		if booking.StartDate.Before(existing.EndDate) && existing.StartDate.Before(booking.EndDate) {
			return nil, sql.ErrNoRows
		}
	}
	stored := *booking
	stored.ID = r.store.id()
	r.store.bookings = append(r.store.bookings, stored)
	return &stored, nil
}

func (r *memoryBookingRepo) ListBySpot(ctx context.Context, spotID int64) ([]domain.Booking, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var bookings []domain.Booking
	for _, booking := range r.store.bookings {
		if booking.SpotID == spotID {
			bookings = append(bookings, booking)
		}
	}
	return bookings, nil
}

func (r *memoryBookingRepo) ListByUser(ctx context.Context, userID int64) ([]domain.BookingWithSpot, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []domain.BookingWithSpot
	for _, booking := range r.store.bookings {
		if booking.UserID != userID {
			continue
		}
		entry := domain.BookingWithSpot{Booking: booking}
		if spot, ok := r.store.spots[booking.SpotID]; ok {
			entry.Spot = domain.SpotListItem{Spot: spot}
		}
		out = append(out, entry)
	}
	return out, nil
}

type memoryUserRepo struct{ store *memoryStore }

func (r *memoryUserRepo) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, existing := range r.store.users {
		if strings.EqualFold(existing.Email, user.Email) {
			return nil, uniqueViolation("user_account_email_key")
		}
	}
	stored := *user
	stored.ID = r.store.id()
	r.store.users[stored.ID] = stored
	return &stored, nil
}

func (r *memoryUserRepo) UpsertGoogleUser(ctx context.Context, email, firstName, lastName string) (*domain.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, existing := range r.store.users {
		if strings.EqualFold(existing.Email, email) {
			return &existing, nil
		}
	}
	user := domain.User{ID: r.store.id(), FirstName: firstName, LastName: lastName, Email: email}
	r.store.users[user.ID] = user
	return &user, nil
}

func (r *memoryUserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, user := range r.store.users {
		if strings.EqualFold(user.Email, email) {
			return &user, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (r *memoryUserRepo) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	user, ok := r.store.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &user, nil
}

// recordingStorage captures uploads so tests can assert on object keys and
// content types without a real bucket.
type recordingStorage struct {
	mu      sync.Mutex
	objects []recordedObject
}

type recordedObject struct {
	Bucket      string
	Key         string
	ContentType string
	Size        int64
}

func (s *recordingStorage) Upload(ctx context.Context, bucket, objectName, contentType string, reader io.Reader, size int64) (string, error) {
	if _, err := io.Copy(io.Discard, reader); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects = append(s.objects, recordedObject{Bucket: bucket, Key: objectName, ContentType: contentType, Size: size})
	return "https://storage.test/" + bucket + "/" + objectName, nil
}
