package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/spf13/cobra"

	"ourdays/config"
	_ "ourdays/docs"
	"ourdays/internal/adapters/auth"
	"ourdays/internal/adapters/email"
	httpdelivery "ourdays/internal/delivery/http"
	"ourdays/internal/delivery/http/controllers"
	"ourdays/internal/repository/postgres"
	"ourdays/internal/services"
)

var migrateOnStart bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return serve(ctx, cfg, config.NewLogger(cfg.Environment))
	},
}

func init() {
	serveCmd.Flags().BoolVar(&migrateOnStart, "migrate", false, "apply the schema before serving")
}

func openDB(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

func serve(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	if cfg.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	db, err := openDB(ctx, cfg.DBUrl)
	if err != nil {
		return err
	}
	defer db.Close()
	if migrateOnStart {
		if err := postgres.Migrate(ctx, db); err != nil {
			return err
		}
	}

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.Mail.Provider,
		FromAddress: cfg.Mail.FromAddress,
		FromName:    cfg.Mail.FromName,
		SES: email.SESConfig{
			Region:             cfg.Mail.AWSRegion,
			AccessKeyID:        cfg.Mail.AWSAccessKeyID,
			SecretAccessKey:    cfg.Mail.AWSSecretAccessKey,
			InsecureSkipVerify: cfg.Mail.SESInsecureSkipVerify,
		},
	})
	if err != nil {
		return err
	}

	timeout := cfg.RequestTimeout
	repos := postgres.NewRepositories(db)
	tx := postgres.NewTransactor(db)
	notifier := services.NewNotifier(
		repos.Members,
		repos.Users,
		services.NewEmailService(mailer, email.NewTemplateRenderer()),
		cfg.BaseURL,
		timeout,
		logger,
	)

	mux := httpdelivery.NewRouter(httpdelivery.Controllers{
		Couple: controllers.NewCoupleController(logger,
			services.NewCoupleService(repos, tx, notifier, cfg.CoupleMaxMembers, timeout, logger),
			services.NewDashboardService(repos, loc, timeout),
		),
		Anniversary:   controllers.NewAnniversaryController(logger, services.NewAnniversaryService(repos, tx, notifier, timeout, logger)),
		Schedule:      controllers.NewScheduleController(logger, services.NewCalendarService(repos, tx, notifier, timeout)),
		Message:       controllers.NewMessageController(logger, services.NewMessageService(repos, tx, notifier, timeout)),
		Diary:         controllers.NewDiaryController(logger, services.NewDiaryService(repos, tx, notifier, timeout, logger)),
		PlaceCategory: controllers.NewPlaceCategoryController(logger, services.NewPlaceCategoryService(repos, timeout)),
		User:          controllers.NewUserController(logger, services.NewUserService(repos.Users, timeout)),
	}, auth.NewJWTVerifier(cfg.JWTSecret), logger)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           httpdelivery.NewHandler(mux, cfg.CORSAllowedOrigins, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", srv.Addr, "env", cfg.Environment, "timezone", loc.String())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
