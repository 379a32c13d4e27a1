package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"

	"github.com/atvirokodosprendimai/menuapi/internal/app"
)

func main() {
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	cmd := &cli.Command{
		Name:  "menuapi",
		Usage: "Restaurant menu and ordering API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Value: ":8080",
				Usage: "HTTP listen address",
			},
			&cli.StringFlag{
				Name:  "db-path",
				Value: "./menuapi.sqlite",
				Usage: "SQLite file path",
			},
			&cli.StringFlag{
				Name:     "jwt-secret",
				Sources:  cli.EnvVars("MENUAPI_JWT_SECRET"),
				Usage:    "HS256 signing secret for admin tokens",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "payment-cipher-key",
				Sources:  cli.EnvVars("MENUAPI_PAYMENT_CIPHER_KEY"),
				Usage:    "Base64-encoded 32-byte AES key for payment secrets at rest",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "checkout-api-url",
				Value:   "https://api.stripe.com",
				Sources: cli.EnvVars("MENUAPI_CHECKOUT_API_URL"),
				Usage:   "Checkout provider base URL",
			},
			&cli.StringFlag{
				Name:    "checkout-success-url",
				Sources: cli.EnvVars("MENUAPI_CHECKOUT_SUCCESS_URL"),
				Usage:   "Redirect URL after a completed checkout",
			},
			&cli.StringFlag{
				Name:    "checkout-cancel-url",
				Sources: cli.EnvVars("MENUAPI_CHECKOUT_CANCEL_URL"),
				Usage:   "Redirect URL after an abandoned checkout",
			},
			&cli.StringFlag{
				Name:    "upload-base-url",
				Sources: cli.EnvVars("MENUAPI_UPLOAD_BASE_URL"),
				Usage:   "Base URL of the photo upload gateway",
			},
			&cli.StringFlag{
				Name:    "upload-secret",
				Sources: cli.EnvVars("MENUAPI_UPLOAD_SECRET"),
				Usage:   "HMAC signing secret for pre-signed upload URLs",
			},
			&cli.StringFlag{
				Name:    "webhook-url",
				Sources: cli.EnvVars("MENUAPI_WEBHOOK_URL"),
				Usage:   "Outbox event webhook target URL",
			},
			&cli.StringFlag{
				Name:    "webhook-secret",
				Sources: cli.EnvVars("MENUAPI_WEBHOOK_SECRET"),
				Usage:   "HMAC-SHA256 signing secret for outbound webhook requests",
			},
			&cli.StringSliceFlag{
				Name:    "kafka-brokers",
				Sources: cli.EnvVars("MENUAPI_KAFKA_BROKERS"),
				Usage:   "Kafka broker addresses; takes precedence over the webhook sink",
			},
			&cli.StringFlag{
				Name:    "kafka-topic",
				Sources: cli.EnvVars("MENUAPI_KAFKA_TOPIC"),
				Usage:   "Kafka topic for order events",
			},
			&cli.StringFlag{
				Name:    "bootstrap-admin-name",
				Sources: cli.EnvVars("MENUAPI_BOOTSTRAP_ADMIN_NAME"),
				Usage:   "Name for the initial admin account",
			},
			&cli.StringFlag{
				Name:    "bootstrap-admin-email",
				Sources: cli.EnvVars("MENUAPI_BOOTSTRAP_ADMIN_EMAIL"),
				Usage:   "Email for the initial admin account",
			},
			&cli.StringFlag{
				Name:    "bootstrap-admin-password",
				Sources: cli.EnvVars("MENUAPI_BOOTSTRAP_ADMIN_PASSWORD"),
				Usage:   "Password for the initial admin account",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg := app.Config{
				Addr:                   c.String("addr"),
				DBPath:                 c.String("db-path"),
				JWTSecret:              c.String("jwt-secret"),
				PaymentCipherKey:       c.String("payment-cipher-key"),
				CheckoutAPIURL:         c.String("checkout-api-url"),
				CheckoutSuccessURL:     c.String("checkout-success-url"),
				CheckoutCancelURL:      c.String("checkout-cancel-url"),
				UploadBaseURL:          c.String("upload-base-url"),
				UploadSecret:           c.String("upload-secret"),
				WebhookURL:             c.String("webhook-url"),
				WebhookSecret:          c.String("webhook-secret"),
				KafkaBrokers:           c.StringSlice("kafka-brokers"),
				KafkaTopic:             c.String("kafka-topic"),
				BootstrapAdminName:     c.String("bootstrap-admin-name"),
				BootstrapAdminEmail:    c.String("bootstrap-admin-email"),
				BootstrapAdminPassword: c.String("bootstrap-admin-password"),
			}

			server, closer, err := app.NewServer(ctx, cfg, logger)
			if err != nil {
				return fmt.Errorf("create server: %w", err)
			}
			defer func() {
				if closeErr := closer.Close(); closeErr != nil {
					logger.Error().Err(closeErr).Msg("close resources")
				}
			}()

			errCh := make(chan error, 1)
			go func() {
				logger.Info().Str("addr", cfg.Addr).Msg("listening")
				errCh <- server.ListenAndServe()
			}()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(sigCh)

			select {
			case <-ctx.Done():
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				return server.Shutdown(shutdownCtx)
			case sig := <-sigCh:
				logger.Info().Str("signal", sig.String()).Msg("shutting down")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				return server.Shutdown(shutdownCtx)
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			}
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		logger.Fatal().Err(err).Msg("menuapi exited")
	}
}
