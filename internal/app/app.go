package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/atvirokodosprendimai/menuapi/internal/adapters/blob"
	"github.com/atvirokodosprendimai/menuapi/internal/adapters/events"
	"github.com/atvirokodosprendimai/menuapi/internal/adapters/httpapi"
	"github.com/atvirokodosprendimai/menuapi/internal/adapters/payment"
	sqliteadapter "github.com/atvirokodosprendimai/menuapi/internal/adapters/sqlite"
	"github.com/atvirokodosprendimai/menuapi/internal/adapters/sqlite/gormsqlite"
	"github.com/atvirokodosprendimai/menuapi/internal/core/domain"
	"github.com/atvirokodosprendimai/menuapi/internal/core/ports"
	"github.com/atvirokodosprendimai/menuapi/internal/core/usecase"
	"github.com/atvirokodosprendimai/menuapi/migrations"
)

type Config struct {
	Addr   string
	DBPath string

	JWTSecret string
	// PaymentCipherKey is the base64-encoded 32-byte AES key used to encrypt
	// restaurant payment-provider secrets at rest.
	PaymentCipherKey string

	CheckoutAPIURL     string
	CheckoutSuccessURL string
	CheckoutCancelURL  string

	UploadBaseURL string
	UploadSecret  string

	WebhookURL    string
	WebhookSecret string
	KafkaBrokers  []string
	KafkaTopic    string

	BootstrapAdminName     string
	BootstrapAdminEmail    string
	BootstrapAdminPassword string
}

type resourceCloser struct {
	closers []io.Closer
}

func (r resourceCloser) Close() error {
	var firstErr error
	for _, c := range r.closers {
		if c == nil {
			continue
		}
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// publisherFor selects the outbox sink: Kafka when brokers are configured,
// a signed webhook when a URL is set, and the structured log otherwise.
func publisherFor(cfg Config, logger zerolog.Logger) (ports.EventPublisher, io.Closer) {
	if len(cfg.KafkaBrokers) > 0 {
		topic := cfg.KafkaTopic
		if topic == "" {
			topic = domain.OrdersTopic
		}
		kp := events.NewKafkaPublisher(cfg.KafkaBrokers, topic)
		return kp, kp
	}
	if cfg.WebhookURL != "" {
		return events.NewWebhookPublisher(cfg.WebhookURL, cfg.WebhookSecret, 0), nil
	}
	return events.NewLogPublisher(logger), nil
}

func NewServer(ctx context.Context, cfg Config, logger zerolog.Logger) (*http.Server, io.Closer, error) {
	if cfg.JWTSecret == "" {
		return nil, nil, errors.New("jwt secret is required")
	}
	cipher, err := usecase.NewSecretCipher(cfg.PaymentCipherKey)
	if err != nil {
		return nil, nil, fmt.Errorf("payment cipher: %w", err)
	}

	db, err := gormsqlite.Open(cfg.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open sqlite: %w", err)
	}

	writeSQLDB, err := db.WriteSQLDB()
	if err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("resolve writer sql db: %w", err)
	}

	migrateCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := migrations.Up(migrateCtx, writeSQLDB); err != nil {
		_ = db.Close()
		return nil, nil, err
	}

	restaurantRepo := sqliteadapter.NewRestaurantRepository(db)
	userRepo := sqliteadapter.NewAdminUserRepository(db)
	keyRepo := sqliteadapter.NewAPIKeyRepository(db)
	tableRepo := sqliteadapter.NewTableRepository(db)
	menuRepo := sqliteadapter.NewMenuRepository(db)
	orderStore := sqliteadapter.NewOrderEventStore(db)
	outboxRepo := sqliteadapter.NewOutboxRepository(db)
	ratingRepo := sqliteadapter.NewRatingRepository(db)

	authService := usecase.NewAuthService(userRepo, keyRepo, cfg.JWTSecret)
	restaurantService := usecase.NewRestaurantService(restaurantRepo, cipher)
	menuService := usecase.NewMenuService(menuRepo, tableRepo, restaurantRepo)
	orderService := usecase.NewOrderService(orderStore, menuRepo, tableRepo)
	checkoutClient := payment.NewClient(cfg.CheckoutAPIURL, 0)
	paymentService := usecase.NewPaymentService(restaurantRepo, orderService, checkoutClient, cipher, cfg.CheckoutSuccessURL, cfg.CheckoutCancelURL)
	ratingService := usecase.NewRatingService(ratingRepo, restaurantRepo)
	uploadService := usecase.NewUploadService(blob.NewURLSigner(cfg.UploadBaseURL, cfg.UploadSecret))

	publisher, publisherCloser := publisherFor(cfg, logger)
	dispatcher := usecase.NewOutboxDispatcher(outboxRepo, publisher, logger, 2*time.Second, 100)
	dispatcher.Start(context.Background())

	if cfg.BootstrapAdminEmail != "" && cfg.BootstrapAdminPassword != "" {
		if err := bootstrapAdmin(authService, userRepo, cfg); err != nil {
			_ = dispatcher.Close()
			_ = db.Close()
			return nil, nil, err
		}
	}

	handler := httpapi.NewHandler(authService, restaurantService, menuService, orderService, paymentService, ratingService, uploadService, logger)

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	return server, resourceCloser{closers: []io.Closer{dispatcher, publisherCloser, db}}, nil
}

// bootstrapAdmin registers the initial admin account. An already-registered
// email is not an error so restarts stay idempotent.
func bootstrapAdmin(auth *usecase.AuthService, users ports.AdminUserRepository, cfg Config) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := users.FindByEmail(ctx, cfg.BootstrapAdminEmail); err == nil {
		return nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("bootstrap admin lookup: %w", err)
	}

	name := cfg.BootstrapAdminName
	if name == "" {
		name = "bootstrap"
	}
	if _, err := auth.Register(ctx, name, cfg.BootstrapAdminEmail, cfg.BootstrapAdminPassword); err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}
	return nil
}
