package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"voluntapp/internal/domain"
)

type userService struct {
	userRepo       domain.UserRepository
	geocoder       domain.Geocoder
	logger         *slog.Logger
	contextTimeout time.Duration
}

// NewUserService creates a UserService with the given repository and geocoder.
func NewUserService(userRepo domain.UserRepository, geocoder domain.Geocoder, logger *slog.Logger, timeout time.Duration) domain.UserService {
	return &userService{
		userRepo:       userRepo,
		geocoder:       geocoder,
		logger:         logger,
		contextTimeout: timeout,
	}
}

func (s *userService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

func (s *userService) UpdateProfile(ctx context.Context, id string, patch *domain.UserPatch) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	// A location change re-resolves coordinates. Geocoding misses leave
	// coordinates unset rather than failing the update.
	if patch.Location != nil {
		patch.Latitude = nil
		patch.Longitude = nil
		coords, err := s.geocoder.Geocode(ctx, *patch.Location)
		if err != nil {
			s.logger.WarnContext(ctx, "geocode failed", "location", *patch.Location, "err", err)
		} else if coords != nil {
			patch.Latitude = &coords.Latitude
			patch.Longitude = &coords.Longitude
		}
	}

	user, err := s.userRepo.UpdateProfile(ctx, id, patch)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return user, nil
}

func (s *userService) GetStats(ctx context.Context, id string) (*domain.VolunteerStats, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	stats, err := s.userRepo.GetStats(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get stats: %w", err)
	}
	return stats, nil
}
