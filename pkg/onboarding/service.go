package onboarding

import (
	"context"

	"golang.org/x/exp/slog"

	idmerr "github.com/famhub/family-idm/pkg/errors"
)

// Service validates onboarding requests and hands them to the repository,
// which executes the whole write atomically.
type Service struct {
	repo Repository
}

// NewService creates a new onboarding service
func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
	}
}

// CompleteProfile finishes onboarding for a user: profile fields, the new
// family, the owner membership and any initial locations land as a single
// unit. Validation failures never reach storage.
func (s *Service) CompleteProfile(ctx context.Context, params CompleteProfileParams) (Result, error) {
	if err := validateParams(params); err != nil {
		return Result{}, err
	}

	result, err := s.repo.CompleteProfile(ctx, params)
	if err != nil {
		slog.Error("Onboarding failed", "userId", params.UserID, "err", err)
		if idmerr.IsCode(err, idmerr.ErrCodeNotFound) {
			return Result{}, err
		}
		return Result{}, idmerr.Wrap(err, idmerr.ErrCodeOnboardingFailed, "failed to complete onboarding")
	}

	slog.Info("Onboarding completed",
		"userId", params.UserID,
		"familyId", result.Family.ID,
		"locations", len(result.Locations))

	return result, nil
}

func validateParams(params CompleteProfileParams) error {
	if params.Profile.Name == nil || *params.Profile.Name == "" {
		return idmerr.InvalidInput("name", "cannot be empty")
	}
	if params.FamilyName == "" {
		return idmerr.InvalidInput("family_name", "cannot be empty")
	}
	if !ValidateRole(params.Role) {
		return idmerr.InvalidInput("role", "unknown family role")
	}
	for _, loc := range params.Locations {
		if loc.Name == "" {
			return idmerr.InvalidInput("locations", "location name cannot be empty")
		}
		if loc.Latitude < -90 || loc.Latitude > 90 {
			return idmerr.InvalidInput("locations", "latitude out of range")
		}
		if loc.Longitude < -180 || loc.Longitude > 180 {
			return idmerr.InvalidInput("locations", "longitude out of range")
		}
	}
	return nil
}
