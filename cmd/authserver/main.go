// Command authserver exposes the authgate engine over HTTP: registration,
// login, and email-code password resets.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shahnawazpatel23/authgate"
	"github.com/shahnawazpatel23/authgate/mailer"
	"github.com/shahnawazpatel23/authgate/store/memory"
	"github.com/shahnawazpatel23/authgate/store/postgres"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("authserver: %v", err)
	}
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
	})
	defer rdb.Close()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return err
	}

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	mail, err := openMailer(cfg)
	if err != nil {
		return err
	}

	engineCfg := authgate.DefaultConfig()
	engineCfg.Session.Secret = []byte(cfg.SessionSecret)
	engineCfg.Session.TokenTTL = cfg.SessionTTL
	engineCfg.Password.BcryptCost = cfg.BcryptCost
	engineCfg.Reset.CodeTTL = cfg.ResetCodeTTL

	engine, err := authgate.New().
		WithConfig(engineCfg).
		WithRedis(rdb).
		WithStore(store).
		WithMailer(mail).
		WithAuditSink(authgate.NewJSONWriterSink(os.Stdout)).
		Build()
	if err != nil {
		return err
	}
	defer engine.Close()

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           (&server{engine: engine}).routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("listening on %s", cfg.HTTPAddr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		log.Print("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
	}
	return nil
}

func openStore(ctx context.Context, cfg *serverConfig) (authgate.CredentialStore, func(), error) {
	if cfg.DatabaseURL == "" {
		log.Print("DATABASE_URL not set, using in-memory store")
		return memory.New(), func() {}, nil
	}

	if err := postgres.MigrateDSN(ctx, cfg.DatabaseURL); err != nil {
		return nil, nil, err
	}
	store, err := postgres.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	return store, store.Close, nil
}

func openMailer(cfg *serverConfig) (authgate.Mailer, error) {
	if cfg.MailDriver == "log" {
		log.Print("MAIL_DRIVER=log, reset codes are written to the process log")
		return mailer.Log{}, nil
	}
	return mailer.NewSMTP(mailer.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.MailFrom,
	})
}
