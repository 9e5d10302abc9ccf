package http

import (
	"context"
	"fmt"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"blognest/internal/config"
	"blognest/internal/database"
	"blognest/internal/handler"
	"blognest/internal/mail"
	"blognest/internal/repository"
	"blognest/internal/service"
)

func Run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must be set")
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := database.Migrate(context.Background(), db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)

	// Services
	userService := service.NewUserService(userRepo)
	postService := service.NewPostService(postRepo)
	sessions := service.NewSessionService(cfg)
	resetTokens := service.NewResetTokenService(cfg.JWTSecret, cfg.ResetTokenTTL)
	mailer := mail.NewSMTPSender(cfg)

	// Avatar storage is optional: without R2 credentials uploads are
	// rejected and accounts keep the default avatar.
	var avatars handler.AvatarStore
	if mediaService, mediaErr := service.NewMediaService(context.Background(), cfg); mediaErr != nil {
		logrus.WithError(mediaErr).Warn("media storage disabled")
	} else {
		avatars = mediaService
	}

	// Handlers
	authHandler := handler.NewAuthHandler(userService, sessions, resetTokens, avatars, mailer, cfg)
	userHandler := handler.NewUserHandler(userService, postService)
	postHandler := handler.NewPostHandler(postService)

	router := NewRouter(RouterConfig{
		AuthHandler: authHandler,
		UserHandler: userHandler,
		PostHandler: postHandler,
		JWTSecret:   cfg.JWTSecret,
	})

	srv := &stdhttp.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logrus.WithField("port", cfg.ServerPort).Info("starting server")
		if err := srv.ListenAndServe(); err != nil && err != stdhttp.ErrServerClosed {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		logrus.WithField("signal", sig.String()).Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
