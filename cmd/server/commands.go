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

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"leveragebot/internal/api"
	"leveragebot/internal/config"
	"leveragebot/internal/repository"
	"leveragebot/internal/service"
	"leveragebot/internal/telegram"
	"leveragebot/pkg/crypto"
	"leveragebot/pkg/retry"
	"leveragebot/pkg/utils"
)

// webhookCallTimeout - таймаут вызовов setWebhook/deleteWebhook
const webhookCallTimeout = 15 * time.Second

// shutdownSignals - сигналы graceful shutdown
var shutdownSignals = []os.Signal{syscall.SIGINT, syscall.SIGTERM}

type rootOptions struct {
	envFile string
}

// newRootCmd собирает дерево команд:
//
//	leveragebot [serve]          - HTTP сервер (команда по умолчанию)
//	leveragebot webhook set      - deleteWebhook + setWebhook
//	leveragebot webhook delete   - deleteWebhook
func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	serveCmd := newServeCmd(opts)

	root := &cobra.Command{
		Use:           "leveragebot",
		Short:         "Telegram leverage calculator webhook bot",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serveCmd.RunE,
	}
	root.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "path to .env file (optional)")
	root.Flags().AddFlagSet(serveCmd.Flags())

	root.AddCommand(serveCmd, newWebhookCmd(opts))
	return root
}

func newServeCmd(opts *rootOptions) *cobra.Command {
	var registerWebhook bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the webhook HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := bootstrap(opts)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), shutdownSignals...)
			defer stop()

			return runServer(ctx, cfg, logger, registerWebhook)
		},
	}
	cmd.Flags().BoolVar(&registerWebhook, "register-webhook", false, "call deleteWebhook and setWebhook before serving")
	return cmd
}

func newWebhookCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "webhook",
		Short: "Manage the Telegram webhook registration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set",
		Short: "Register <WEBHOOK_URL>/<webhook path> with Telegram",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := bootstrap(opts)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			client := telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.APIURL, nil, logger)
			return registerWebhook(cmd.Context(), client, cfg.Telegram.WebhookEndpoint(), webhookRetryPolicy(logger), logger)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete",
		Short: "Remove the webhook registration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := bootstrap(opts)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			client := telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.APIURL, nil, logger)
			ctx, cancel := context.WithTimeout(cmd.Context(), webhookCallTimeout)
			defer cancel()
			if err := retry.Do(ctx, client.DeleteWebhook, webhookRetryPolicy(logger)); err != nil {
				return fmt.Errorf("delete webhook: %w", err)
			}
			logger.Info("Webhook deleted")
			return nil
		},
	})

	return cmd
}

// bootstrap загружает .env и конфигурацию, инициализирует глобальный логгер
func bootstrap(opts *rootOptions) (*config.Config, *utils.Logger, error) {
	if err := config.LoadEnvFile(opts.envFile); err != nil {
		return nil, nil, err
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := utils.InitGlobalLogger(cfg.LogConfig())
	return cfg, logger, nil
}

// webhookRegistrar - часть Bot API, нужная для регистрации webhook
type webhookRegistrar interface {
	DeleteWebhook(ctx context.Context) error
	SetWebhook(ctx context.Context, url string) error
}

// webhookRetryPolicy повторяет только временные ошибки Bot API
func webhookRetryPolicy(logger *utils.Logger) retry.Config {
	policy := retry.WebhookConfig()
	policy.RetryIf = telegram.IsTransient
	policy.OnRetry = func(attempt int, err error, delay time.Duration) {
		logger.Warn("Webhook call failed, retrying",
			utils.Int("attempt", attempt),
			utils.Duration("delay", delay),
			utils.Err(err),
		)
	}
	return policy
}

// registerWebhook удаляет старый webhook и устанавливает новый
func registerWebhook(ctx context.Context, client webhookRegistrar, endpoint string, policy retry.Config, logger *utils.Logger) error {
	ctx, cancel := context.WithTimeout(ctx, webhookCallTimeout)
	defer cancel()

	if err := retry.Do(ctx, client.DeleteWebhook, policy); err != nil {
		return fmt.Errorf("delete webhook: %w", err)
	}
	err := retry.Do(ctx, func(ctx context.Context) error {
		return client.SetWebhook(ctx, endpoint)
	}, policy)
	if err != nil {
		return fmt.Errorf("set webhook: %w", err)
	}

	// endpoint содержит секретный путь, логируем только базовый URL
	logger.Info("Webhook set successfully")
	return nil
}

// runServer поднимает HTTP сервер и ждёт отмены ctx
func runServer(ctx context.Context, cfg *config.Config, logger *utils.Logger, withWebhook bool) error {
	clock := utils.SystemClock{}

	verifier, err := crypto.NewSignatureVerifier(cfg.Telegram.WebhookSecret)
	if err != nil {
		return fmt.Errorf("init signature verifier: %w", err)
	}

	httpClient := telegram.NewHTTPClient(telegram.DefaultHTTPClientConfig())
	defer httpClient.CloseIdleConnections()

	client := telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.APIURL, httpClient, logger)
	store := repository.NewSessionRepository(clock, cfg.Session.TTL, cfg.Session.SweepInterval, logger)
	conversations := service.NewConversationService(store, client, clock, logger)

	router := api.SetupRoutes(&api.Dependencies{
		ConversationService: conversations,
		Verifier:            verifier,
		WebhookPath:         cfg.Telegram.WebhookPath,
		MetricsUsername:     cfg.Metrics.Username,
		MetricsPassword:     cfg.Metrics.Password,
		Clock:               clock,
		Logger:              logger,
	})

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	// Ошибка регистрации webhook не фатальна: сервер может быть уже зарегистрирован
	if withWebhook {
		if err := registerWebhook(ctx, client, cfg.Telegram.WebhookEndpoint(), webhookRetryPolicy(logger), logger); err != nil {
			logger.Error("Error setting up webhook", utils.Err(err))
		}
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting server",
			utils.String("addr", server.Addr),
			utils.Bool("https", cfg.Server.UseHTTPS),
			utils.Bool("debug", cfg.Debug),
		)

		var err error
		if cfg.Server.UseHTTPS {
			err = server.ListenAndServeTLS(cfg.Server.CertFile, cfg.Server.KeyFile)
		} else {
			err = server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		logger.Info("Server exited", utils.Int("active_sessions", store.Len()))
		return nil
	})

	return g.Wait()
}
