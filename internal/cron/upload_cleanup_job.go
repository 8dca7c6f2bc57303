package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/scootershop-backend/internal/uploads"
	"github.com/angelmondragon/scootershop-backend/pkg/logger"
)

const defaultUploadGrace = 24 * time.Hour

type uploadStore interface {
	List() ([]uploads.StoredFile, error)
	Delete(publicPath string) error
}

// ReferenceSource reports upload paths that are still in use.
type ReferenceSource interface {
	UploadReferences(ctx context.Context) ([]string, error)
}

type UploadCleanupJobParams struct {
	Logger  *logger.Logger
	Store   uploadStore
	Sources []ReferenceSource
	Grace   time.Duration
}

// NewUploadCleanupJob removes images no product or banner points at. Files younger
// than the grace period are kept so an in-flight create is never raced.
func NewUploadCleanupJob(params UploadCleanupJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Store == nil {
		return nil, fmt.Errorf("upload store required")
	}
	if len(params.Sources) == 0 {
		return nil, fmt.Errorf("at least one reference source required")
	}
	grace := params.Grace
	if grace <= 0 {
		grace = defaultUploadGrace
	}
	return &uploadCleanupJob{
		logg:    params.Logger,
		store:   params.Store,
		sources: params.Sources,
		grace:   grace,
		now:     time.Now,
	}, nil
}

type uploadCleanupJob struct {
	logg    *logger.Logger
	store   uploadStore
	sources []ReferenceSource
	grace   time.Duration
	now     func() time.Time
}

func (j *uploadCleanupJob) Name() string { return "upload-cleanup" }

func (j *uploadCleanupJob) Run(ctx context.Context) error {
	referenced := make(map[string]struct{})
	for _, source := range j.sources {
		paths, err := source.UploadReferences(ctx)
		if err != nil {
			return fmt.Errorf("load upload references: %w", err)
		}
		for _, p := range paths {
			referenced[p] = struct{}{}
		}
	}

	files, err := j.store.List()
	if err != nil {
		return fmt.Errorf("list uploads: %w", err)
	}

	cutoff := j.now().Add(-j.grace)
	var deleted int
	for _, file := range files {
		if _, ok := referenced[file.PublicPath]; ok {
			continue
		}
		if file.ModTime.After(cutoff) {
			continue
		}
		if err := j.store.Delete(file.PublicPath); err != nil {
			return fmt.Errorf("delete %s: %w", file.PublicPath, err)
		}
		deleted++
	}

	j.logg.Info(j.logg.WithFields(ctx, map[string]any{
		"files_scanned": len(files),
		"files_deleted": deleted,
		"cutoff":        cutoff,
	}), "upload cleanup complete")
	return nil
}
