// Package siteconfig manages storefront settings such as the banner image.
package siteconfig

import (
	"context"
	"fmt"

	"github.com/angelmondragon/scootershop-backend/internal/uploads"
	pkgerrors "github.com/angelmondragon/scootershop-backend/pkg/errors"
	"github.com/angelmondragon/scootershop-backend/pkg/logger"
)

const KeyBanner = "banner"

// BannerDTO is the payload of GET and POST /api/config/banner.
type BannerDTO struct {
	Image   string `json:"image"`
	Message string `json:"message,omitempty"`
}

// Service exposes the banner setting.
type Service interface {
	GetBanner(ctx context.Context) (*BannerDTO, error)
	SetBanner(ctx context.Context, upload *uploads.Upload) (*BannerDTO, error)
}

type repository interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Upsert(ctx context.Context, key, value string) error
}

type service struct {
	repo    repository
	uploads uploads.Saver
	logg    *logger.Logger
}

func NewService(repo repository, store uploads.Saver, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("site config repository required")
	}
	if store == nil {
		return nil, fmt.Errorf("upload store required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, uploads: store, logg: logg}, nil
}

func (s *service) GetBanner(ctx context.Context) (*BannerDTO, error) {
	value, _, err := s.repo.Get(ctx, KeyBanner)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "read banner")
	}
	return &BannerDTO{Image: value}, nil
}

// SetBanner stores the image and points the banner setting at it.
func (s *service) SetBanner(ctx context.Context, upload *uploads.Upload) (*BannerDTO, error) {
	if upload == nil || upload.Reader == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNoImage, "no image provided")
	}
	path, err := s.uploads.Save(ctx, *upload)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Upsert(ctx, KeyBanner, path); err != nil {
		if delErr := s.uploads.Delete(path); delErr != nil {
			s.logg.Warn(s.logg.WithField(ctx, "image", path), "failed to remove orphaned banner upload")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "save banner")
	}
	s.logg.Info(s.logg.WithField(ctx, "image", path), "banner updated")
	return &BannerDTO{Image: path, Message: "Banner atualizado!"}, nil
}
