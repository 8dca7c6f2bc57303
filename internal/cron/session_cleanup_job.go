package cron

import (
	"context"
	"fmt"

	"github.com/angelmondragon/scootershop-backend/pkg/logger"
)

type sessionPurger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

type SessionCleanupJobParams struct {
	Logger   *logger.Logger
	Sessions sessionPurger
}

// NewSessionCleanupJob deletes sessions whose expires_at has passed.
func NewSessionCleanupJob(params SessionCleanupJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Sessions == nil {
		return nil, fmt.Errorf("session manager required")
	}
	return &sessionCleanupJob{logg: params.Logger, sessions: params.Sessions}, nil
}

type sessionCleanupJob struct {
	logg     *logger.Logger
	sessions sessionPurger
}

func (j *sessionCleanupJob) Name() string { return "session-cleanup" }

func (j *sessionCleanupJob) Run(ctx context.Context) error {
	deleted, err := j.sessions.PurgeExpired(ctx)
	if err != nil {
		return fmt.Errorf("purge expired sessions: %w", err)
	}
	j.logg.Info(j.logg.WithField(ctx, "rows_deleted", deleted), "session cleanup complete")
	return nil
}
