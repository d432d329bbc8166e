package main

import (
	"context"
	"io"
	"log"
	"os"
	"time"

	"github.com/staylist/staylist-backend/internal/config"
	"github.com/staylist/staylist-backend/internal/logging"
	"github.com/staylist/staylist-backend/internal/media"
	"github.com/staylist/staylist-backend/internal/repository/minio"
	"github.com/staylist/staylist-backend/internal/repository/ports"
	"github.com/staylist/staylist-backend/internal/repository/postgres"
	"github.com/staylist/staylist-backend/internal/service"
	transport "github.com/staylist/staylist-backend/internal/transport/http"
	"github.com/staylist/staylist-backend/internal/util"
)

func main() {
	cfg := config.Load()

	if cfg.LogstashTCPAddr != "" {
		writer, err := logging.NewLogstashWriter(cfg.LogstashTCPAddr)
		if err != nil {
			log.Printf("Warning: logstash disabled: %v", err)
		} else {
			defer writer.Close()
			log.SetOutput(io.MultiWriter(os.Stderr, writer))
		}
	}

	db, err := postgres.New(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("connect database: %v", err)
	}
	defer db.Close()

	migrateCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := postgres.Migrate(migrateCtx, db); err != nil {
		log.Fatalf("migrate database: %v", err)
	}

	userRepo := postgres.NewUserRepo(db)
	spotRepo := postgres.NewSpotRepo(db)
	spotImageRepo := postgres.NewSpotImageRepo(db)
	reviewRepo := postgres.NewReviewRepo(db)
	reviewImageRepo := postgres.NewReviewImageRepo(db)
	bookingRepo := postgres.NewBookingRepo(db)

	var storage ports.ObjectStorage
	if cfg.MinIOEndpoint != "" {
		client, err := minio.NewClient(cfg.MinIOEndpoint, cfg.MinIOAccessKey, cfg.MinIOSecretKey, cfg.MinIOUseSSL)
		if err != nil {
			log.Fatalf("connect minio: %v", err)
		}
		storage = minio.NewStorage(client, cfg.MinIOUseSSL)
	}

	jwtManager := util.NewJWTManager(cfg.JWTSecret, cfg.SessionTTL)

	authService := service.NewAuthService(userRepo, jwtManager, cfg.GoogleAudience)
	spotService := service.NewSpotService(spotRepo, spotImageRepo, userRepo, storage, service.SpotServiceConfig{
		Bucket:         cfg.MinIOBucketSpots,
		PublicBaseURL:  cfg.MinIOPublicURL,
		MaxImageBytes:  cfg.SpotImageMaxBytes,
		ImageProcessor: media.NewImageProcessor(),
		ImageMaxDim:    cfg.SpotImageMaxDim,
	})
	reviewService := service.NewReviewService(reviewRepo, reviewImageRepo, spotRepo)
	bookingService := service.NewBookingService(bookingRepo, spotRepo)

	e := transport.NewRouter(cfg.AllowOrigins)
	transport.RegisterAuth(e, authService)
	transport.RegisterSpots(e, authService, spotService)
	transport.RegisterReviews(e, authService, reviewService)
	transport.RegisterBookings(e, authService, bookingService)
	transport.RegisterSwagger(e)

	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
