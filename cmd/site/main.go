package main

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	surrealdb "github.com/surrealdb/surrealdb.go"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/arrautomation001-cmd/ARRAutomation/internal/adapter/mail"
	"github.com/arrautomation001-cmd/ARRAutomation/internal/bootstrap"
	"github.com/arrautomation001-cmd/ARRAutomation/internal/bugreport"
	"github.com/arrautomation001-cmd/ARRAutomation/internal/chatbot"
	"github.com/arrautomation001-cmd/ARRAutomation/internal/config"
	httptransport "github.com/arrautomation001-cmd/ARRAutomation/internal/http"
	"github.com/arrautomation001-cmd/ARRAutomation/internal/http/handler"
	apimiddleware "github.com/arrautomation001-cmd/ARRAutomation/internal/middleware"
	"github.com/arrautomation001-cmd/ARRAutomation/internal/notify"
	"github.com/arrautomation001-cmd/ARRAutomation/internal/repository"
	"github.com/arrautomation001-cmd/ARRAutomation/internal/server"
	"github.com/arrautomation001-cmd/ARRAutomation/internal/service"
	"github.com/arrautomation001-cmd/ARRAutomation/internal/telemetry"
)

func main() {
	app := fx.New(
		fx.Provide(
			newConfig,
			newLogger,
			newTelemetry,
			newSnowflake,
			newSurrealDB,
			newAccountRepository,
			newInquiryRepository,
			newMailer,
			newDispatcher,
			newChatbot,
			newBugFormatter,
			newGateway,
			handler.NewSiteHandler,
			newRateLimiter,
			httptransport.NewRouter,
			server.NewHTTPServer,
		),
		fx.Invoke(useTelemetry, bootstrap.EnsureSchema, startHTTPServer),
	)

	app.Run()
}

func newConfig() (config.Config, error) {
	return config.Load()
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	var (
		logger *zap.Logger
		err    error
	)
	if cfg.Environment == "development" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(logger)
	return logger, nil
}

func newTelemetry(lc fx.Lifecycle, cfg config.Config, logger *zap.Logger) (*telemetry.Provider, error) {
	provider, err := telemetry.New(context.Background(), cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("telemetry init: %w", err)
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			stopCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			return provider.Shutdown(stopCtx)
		},
	})

	return provider, nil
}

func newSnowflake() (*snowflake.Node, error) {
	node, err := snowflake.NewNode(1)
	return node, err
}

func newSurrealDB(lc fx.Lifecycle, cfg config.Config) (*surrealdb.DB, error) {
	db, err := surrealdb.New(cfg.SurrealURL)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	if _, err := db.Signin(map[string]any{
		"user": cfg.SurrealUser,
		"pass": cfg.SurrealPass,
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("signin database: %w", err)
	}

	if _, err := db.Use(cfg.SurrealNamespace, cfg.SurrealDatabase); err != nil {
		db.Close()
		return nil, fmt.Errorf("use database: %w", err)
	}

	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			db.Close()
			return nil
		},
	})

	return db, nil
}

func newAccountRepository(db *surrealdb.DB) repository.AccountRepository {
	return repository.NewSurrealAccountRepo(db)
}

func newInquiryRepository(db *surrealdb.DB) repository.InquiryRepository {
	return repository.NewSurrealInquiryRepo(db)
}

func newMailer(cfg config.Config, logger *zap.Logger) mail.Mailer {
	return mail.NewResendMailer(cfg.ResendBaseURL, cfg.ResendAPIKey, cfg.MailFrom, cfg.MailTimeout, logger)
}

func newDispatcher(lc fx.Lifecycle, mailer mail.Mailer, cfg config.Config, logger *zap.Logger) *notify.Dispatcher {
	dispatcher := notify.NewDispatcher(mailer, logger, cfg.NotifyWorkers, cfg.NotifyQueueSize)

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			done := make(chan struct{})
			go func() {
				dispatcher.Close()
				close(done)
			}()
			select {
			case <-done:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		},
	})

	return dispatcher
}

func newChatbot() *chatbot.Responder {
	return chatbot.NewResponder()
}

func newBugFormatter(cfg config.Config, logger *zap.Logger) (*bugreport.Formatter, error) {
	return bugreport.NewFormatter(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel, logger)
}

func newGateway(accounts repository.AccountRepository, inquiries repository.InquiryRepository, dispatcher *notify.Dispatcher, node *snowflake.Node, cfg config.Config, logger *zap.Logger) *service.Gateway {
	return service.NewGateway(accounts, inquiries, dispatcher, node, cfg.OperatorEmail, logger)
}

func newRateLimiter(cfg config.Config) *apimiddleware.RateLimiter {
	return apimiddleware.NewRateLimiter(cfg.RateLimitRPM)
}

func startHTTPServer(lc fx.Lifecycle, srv *server.HTTPServer, cfg config.Config, logger *zap.Logger) {
	addr := ":" + cfg.HTTPPort
	var (
		cancel context.CancelFunc
		done   chan struct{}
	)

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			runCtx, stop := context.WithCancel(context.Background())
			cancel = stop
			done = make(chan struct{})

			go func() {
				if err := srv.Run(runCtx, addr); err != nil {
					logger.Error("http server stopped", zap.Error(err))
				}
				close(done)
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			if cancel != nil {
				cancel()
			}
			if done == nil {
				return nil
			}
			select {
			case <-done:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		},
	})
}

func useTelemetry(*telemetry.Provider) {}
