package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	appcommands "deskhub/internal/app/commands"
	listingapp "deskhub/internal/app/handlers/listings"
	"deskhub/internal/app/middleware"
	appoutbox "deskhub/internal/app/outbox"
	appqueries "deskhub/internal/app/queries"
	"deskhub/internal/domain/directory"
	"deskhub/internal/infra/broker/kafka"
	"deskhub/internal/infra/config"
	dbmongo "deskhub/internal/infra/db/mongo"
	ginserver "deskhub/internal/infra/http/gin"
	"deskhub/internal/infra/obs"
	infraoutbox "deskhub/internal/infra/outbox"
	"deskhub/internal/infra/storage/memory"
)

// directoryStorage is what the application needs from either store backend.
type directoryStorage interface {
	directory.Store
	directory.Repository
	directory.IDSource
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env := getenv("APP_ENV", "dev")
	logger := obs.NewLogger(env)

	cfg, err := config.Load()
	if err != nil {
		logger.Warn("using fallback configuration", "error", err)
		cfg.Env = env
		cfg.HTTPAddr = getenv("HTTP_ADDR", ":8080")
		cfg.StorageMode = config.StorageMemory
	}
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}

	storage, box, source, ready, cleanup, err := buildStorage(cfg, logger)
	if err != nil {
		logger.Error("storage setup failed", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := cleanup(); err != nil {
			logger.Warn("storage shutdown failed", "error", err)
		}
	}()

	handlers := buildApplication(logger, storage, box)
	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{Ready: ready}, handlers)

	if memStore, ok := storage.(*memory.DirectoryStore); ok && cfg.FixturesPath != "" {
		if err := loadDirectoryFixtures(ctx, memStore, cfg.FixturesPath, logger); err != nil {
			logger.Warn("directory fixtures load failed", "error", err, "path", cfg.FixturesPath)
		}
	}

	if len(cfg.KafkaBrokers) > 0 {
		producer, err := kafka.NewProducer(cfg.KafkaBrokers, nil)
		if err != nil {
			logger.Error("kafka producer setup failed", "error", err)
			os.Exit(1)
		}
		defer producer.Close()
		worker := &infraoutbox.Worker{
			Store:       source,
			Producer:    producer,
			Interval:    cfg.OutboxPollInterval,
			TopicPrefix: cfg.KafkaTopicPrefix,
			Backoff:     cfg.RetryBackoff,
		}
		go func() {
			if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("outbox worker stopped", "error", err)
			}
		}()
	} else {
		logger.Info("no kafka brokers configured, domain events stay in the outbox")
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr, "storage", cfg.StorageMode)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}

func buildStorage(cfg config.Config, logger *slog.Logger) (directoryStorage, appoutbox.Outbox, infraoutbox.Source, func() error, func() error, error) {
	switch cfg.StorageMode {
	case config.StorageMongo:
		client, err := dbmongo.New(cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, nil, nil, nil, nil, fmt.Errorf("connect mongo: %w", err)
		}
		store := dbmongo.NewDirectoryStore(client.DB)
		box := dbmongo.NewOutboxStore(client.DB)
		ready := func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return client.Ping(ctx)
		}
		cleanup := func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return client.Close(ctx)
		}
		return store, box, box, ready, cleanup, nil
	default:
		store := memory.NewDirectoryStore()
		box := memory.NewOutbox()
		noop := func() error { return nil }
		return store, box, box, noop, noop, nil
	}
}

func buildApplication(logger *slog.Logger, storage directoryStorage, box appoutbox.Outbox) ginserver.Handlers {
	engine := directory.NewEngine(storage)
	encoder := appoutbox.JSONEventEncoder{}

	queryBus := appqueries.NewInMemoryBus()
	appqueries.RegisterHandler(queryBus, listingapp.SearchListingsQuery{}.Key(), &listingapp.SearchListingsHandler{Engine: engine})
	appqueries.RegisterHandler(queryBus, listingapp.GetListingQuery{}.Key(), &listingapp.GetListingHandler{Engine: engine, Repository: storage})

	commandBus := appcommands.NewInMemoryBus()
	appcommands.RegisterHandler(commandBus, listingapp.SubmitListingCommand{}.Key(), &listingapp.SubmitListingHandler{
		Repository: storage, IDs: storage, Outbox: box, Encoder: encoder,
	})
	appcommands.RegisterHandler(commandBus, listingapp.UpdateListingCommand{}.Key(), &listingapp.UpdateListingHandler{
		Repository: storage, Outbox: box, Encoder: encoder,
	})
	appcommands.RegisterHandler(commandBus, listingapp.ModerateListingCommand{}.Key(), &listingapp.ModerateListingHandler{
		Repository: storage, Outbox: box, Encoder: encoder,
	})

	return ginserver.Handlers{
		Listing: ginserver.ListingHandler{
			Queries:  middleware.ChainQueries(queryBus),
			Commands: middleware.ChainCommands(commandBus, middleware.Validation(), middleware.CommandLogging(logger)),
		},
	}
}

type directoryFixtures struct {
	Users []struct {
		ID    int64  `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	} `json:"users"`
	Tags []struct {
		ID    int64  `json:"id"`
		Label string `json:"label"`
	} `json:"tags"`
	Listings []struct {
		ID               int64   `json:"id"`
		OwnerID          int64   `json:"owner_id"`
		Title            string  `json:"title"`
		Description      string  `json:"description"`
		AddressLine      string  `json:"address_line"`
		Lat              float64 `json:"lat"`
		Lng              float64 `json:"lng"`
		PricePerDayCents int64   `json:"price_per_day_cents"`
		MonthlyDiscount  int     `json:"monthly_discount"`
		Hidden           bool    `json:"hidden"`
		Approval         string  `json:"approval"`
		TagIDs           []int64 `json:"tag_ids"`
	} `json:"listings"`
	Images []struct {
		ID        int64  `json:"id"`
		ListingID int64  `json:"listing_id"`
		Path      string `json:"path"`
	} `json:"images"`
	Reservations []struct {
		ID        int64  `json:"id"`
		ListingID int64  `json:"listing_id"`
		UserID    int64  `json:"user_id"`
		Status    string `json:"status"`
	} `json:"reservations"`
}

func loadDirectoryFixtures(ctx context.Context, store *memory.DirectoryStore, path string, logger *slog.Logger) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Info("fixtures file not found, skipping", "path", path)
			return nil
		}
		return fmt.Errorf("read fixtures: %w", err)
	}
	var fixtures directoryFixtures
	if err := json.Unmarshal(data, &fixtures); err != nil {
		return fmt.Errorf("decode fixtures: %w", err)
	}

	for _, u := range fixtures.Users {
		store.PutUser(directory.User{ID: u.ID, Name: u.Name, Email: u.Email, CreatedAt: time.Now().UTC()})
	}
	for _, t := range fixtures.Tags {
		store.PutTag(directory.Tag{ID: t.ID, Label: t.Label})
	}

	now := time.Now()
	for _, fx := range fixtures.Listings {
		listing, err := directory.NewListing(directory.CreateListingParams{
			ID:               fx.ID,
			OwnerID:          fx.OwnerID,
			Title:            fx.Title,
			Description:      fx.Description,
			AddressLine:      fx.AddressLine,
			Lat:              fx.Lat,
			Lng:              fx.Lng,
			PricePerDayCents: fx.PricePerDayCents,
			MonthlyDiscount:  fx.MonthlyDiscount,
			TagIDs:           fx.TagIDs,
			Now:              now,
		})
		if err != nil {
			logger.Error("fixture invalid", "listing_id", fx.ID, "error", err)
			continue
		}
		if directory.ApprovalState(fx.Approval) == directory.ApprovalApproved {
			if err := listing.Approve(now); err != nil {
				logger.Error("fixture approval failed", "listing_id", fx.ID, "error", err)
				continue
			}
		}
		listing.Hidden = fx.Hidden
		listing.ClearEvents()
		if err := store.Save(ctx, listing); err != nil {
			logger.Error("cannot store fixture listing", "listing_id", fx.ID, "error", err)
			continue
		}
	}

	for _, img := range fixtures.Images {
		store.PutImage(directory.Image{ID: img.ID, ListingID: img.ListingID, Path: img.Path})
	}
	for _, r := range fixtures.Reservations {
		store.PutReservation(directory.Reservation{
			ID:        r.ID,
			ListingID: r.ListingID,
			UserID:    r.UserID,
			Status:    directory.ReservationStatus(r.Status),
			CreatedAt: now.UTC(),
			UpdatedAt: now.UTC(),
		})
	}
	logger.Info("directory fixtures imported", "listings", len(fixtures.Listings), "reservations", len(fixtures.Reservations))
	return nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
