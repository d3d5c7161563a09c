package app

import (
	"context"
	"fmt"
	"time"

	"github.com/Leopold1975/feedback_control/internal/feedback/api/server"
	fr "github.com/Leopold1975/feedback_control/internal/feedback/repository/feedbackrepo/postgres"
	ur "github.com/Leopold1975/feedback_control/internal/feedback/repository/userrepo/postgres"
	"github.com/Leopold1975/feedback_control/internal/feedback/services/authservice"
	"github.com/Leopold1975/feedback_control/internal/feedback/services/feedbackservice"
	"github.com/Leopold1975/feedback_control/internal/pkg/config"
	"github.com/Leopold1975/feedback_control/internal/pkg/pgtools"
	"github.com/Leopold1975/feedback_control/pkg/logger"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Server interface {
	Start(context.Context) error
	Shutdown(context.Context) error
}

type FeedbackApp struct {
	s   Server
	db  *pgxpool.Pool
	lg  logger.Logger
	cfg config.Config
}

func New(ctx context.Context, cfg config.Config) (FeedbackApp, error) {
	lg, err := logger.New(cfg.Logger)
	if err != nil {
		return FeedbackApp{}, fmt.Errorf("can't get logger error: %w", err)
	}

	db, err := pgtools.Connect(ctx, pgtools.ConnString(cfg.PostgresDB))
	if err != nil {
		return FeedbackApp{}, fmt.Errorf("connect to db error: %w", err)
	}

	if err := pgtools.ApplyMigration(cfg.PostgresDB); err != nil {
		return FeedbackApp{}, fmt.Errorf("apply migration error: %w", err)
	}

	userRepo := ur.New(db)
	feedbackRepo := fr.New(db)

	authService := authservice.New(userRepo)

	if err := authService.EnsureDemoUsers(ctx); err != nil {
		return FeedbackApp{}, fmt.Errorf("seed demo users error: %w", err)
	}

	feedbackService := feedbackservice.New(feedbackRepo, userRepo, lg)

	s := server.New(cfg.Server, cfg.CORS, feedbackService, authService, lg)

	return FeedbackApp{
		s:   s,
		db:  db,
		lg:  lg,
		cfg: cfg,
	}, nil
}

func (fa *FeedbackApp) Run(ctx context.Context) {
	fa.lg.Infof("STARTED SERVER ON %s", fa.cfg.Server.Addr)

	go func() {
		if err := fa.s.Start(ctx); err != nil {
			fa.lg.Errorf("server start error: %s", err.Error())

			return
		}
	}()

	<-ctx.Done()

	ctxS, cancel := context.WithTimeout(context.Background(), time.Second*5) //nolint:gomnd
	defer cancel()

	if err := fa.Stop(ctxS); err != nil { //nolint:contextcheck
		fa.lg.Errorf("server shutdown error: %s", err.Error())
	}
}

func (fa *FeedbackApp) Stop(ctx context.Context) error {
	if err := fa.s.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	fa.db.Close()

	fa.lg.Info("Shutdowned successfully")

	return nil
}
