package cmd

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/beratcankara/inoflow/internal/config"
	"github.com/beratcankara/inoflow/internal/database"
	"github.com/beratcankara/inoflow/internal/events"
	"github.com/beratcankara/inoflow/internal/handlers"
	"github.com/beratcankara/inoflow/internal/mailer"
	"github.com/beratcankara/inoflow/internal/notify"
	"github.com/beratcankara/inoflow/internal/realtime"
	"github.com/beratcankara/inoflow/internal/server"
	"github.com/beratcankara/inoflow/internal/storage"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		database.Init(cfg.DBDSN)
		database.EnsureAdmin(cfg.AdminEmail, cfg.AdminPassword)

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		var bus events.Bus
		if cfg.RedisAddr != "" {
			redisBus, err := events.NewRedisBus(cfg.RedisAddr)
			if err != nil {
				return err
			}
			bus = redisBus
			log.Printf("event bus: redis at %s", cfg.RedisAddr)
		} else {
			bus = events.NewMemoryBus()
			log.Println("event bus: in-process (REDIS_ADDR not set)")
		}
		defer bus.Close()
		notify.Init(bus)

		if cfg.NatsURL != "" {
			store, err := storage.NewJetStreamStore(cfg.NatsURL, cfg.NatsBucket)
			if err != nil {
				return err
			}
			defer store.Close()
			handlers.Store = store
			log.Printf("attachment store: jetstream bucket %q at %s", cfg.NatsBucket, cfg.NatsURL)
		} else {
			handlers.Store = storage.NewMemoryStore()
			log.Println("attachment store: in-memory (NATS_URL not set)")
		}

		hub := realtime.NewHub()
		bus.Subscribe(hub.HandleEvent)
		go hub.Run(ctx)
		handlers.Hub = hub

		handlers.Mail = mailer.New(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.MailFrom)
		handlers.BaseURL = cfg.BaseURL
		handlers.WebhookURL = cfg.WebhookURL
		handlers.WebhookSecret = cfg.WebhookSecret

		r := server.NewRouter(cfg)

		srv := &http.Server{
			Addr:    ":" + cfg.ServerPort,
			Handler: r,
		}

		go func() {
			log.Printf("starting server on %s", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("server error: %v", err)
				stop()
			}
		}()

		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown error: %v", err)
		}
		hub.Wait()

		log.Println("server shut down gracefully")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
