package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	appModels "github.com/yigit/clubhub/internal/app/models"
	appRepos "github.com/yigit/clubhub/internal/app/repositories"
	"github.com/yigit/clubhub/internal/config"
	"github.com/yigit/clubhub/internal/pkg/apperrors"
	"github.com/yigit/clubhub/internal/pkg/auth"
)

// YearStore is the part of the academic year repository used for seeding
type YearStore interface {
	EnsureYears(ctx context.Context, years []int) error
}

// AdminStore is the part of the user repository used for seeding
type AdminStore interface {
	Create(ctx context.Context, user *appModels.User) error
	GetByUsername(ctx context.Context, username string) (*appModels.User, error)
	UpdatePrivileges(ctx context.Context, user *appModels.User) error
}

// CreateDefaultData creates the academic years and the bootstrap admin if they don't exist.
func CreateDefaultData(ctx context.Context, repos *appRepos.Repositories, cfg *config.Config, lgr zerolog.Logger) error {
	var finalErr error // To collect errors without stopping the process

	if err := EnsureAcademicYears(ctx, repos.AcademicYearRepository, lgr); err != nil {
		finalErr = errors.Join(finalErr, err)
	}

	if err := EnsureAdmin(ctx, repos.UserRepository, cfg.Seed.AdminUsername, cfg.Seed.AdminEmail, cfg.Seed.AdminPassword, lgr); err != nil {
		finalErr = errors.Join(finalErr, err)
	}

	return finalErr
}

// EnsureAcademicYears creates every supported year of study that is missing
func EnsureAcademicYears(ctx context.Context, years YearStore, lgr zerolog.Logger) error {
	all := make([]int, 0, appModels.MaxYearOfStudy)
	for y := appModels.MinYearOfStudy; y <= appModels.MaxYearOfStudy; y++ {
		all = append(all, y)
	}

	lgr.Info().Ints("years", all).Msg("Checking/Creating default academic years...")
	if err := years.EnsureYears(ctx, all); err != nil {
		lgr.Error().Err(err).Msg("Error creating academic years")
		return err
	}
	return nil
}

// EnsureAdmin creates the configured admin account, or promotes an existing
// account with that username. Nothing happens without a username and password.
func EnsureAdmin(ctx context.Context, users AdminStore, username, email, password string, lgr zerolog.Logger) error {
	if username == "" || password == "" {
		lgr.Info().Msg("No bootstrap admin configured, skipping")
		return nil
	}

	existing, err := users.GetByUsername(ctx, username)
	switch {
	case err == nil:
		if existing.IsStaff && existing.IsSuperuser && existing.RoleType == appModels.RoleAdmin {
			lgr.Info().Str("username", username).Msg("Admin user already exists.")
			return nil
		}
		existing.RoleType = appModels.RoleAdmin
		existing.IsStaff = true
		existing.IsSuperuser = true
		existing.IsActive = true
		if err := users.UpdatePrivileges(ctx, existing); err != nil {
			lgr.Error().Err(err).Str("username", username).Msg("Error promoting admin user")
			return err
		}
		lgr.Info().Str("username", username).Msg("Existing user promoted to admin.")
		return nil
	case !apperrors.Is(err, apperrors.ErrNotFound):
		lgr.Error().Err(err).Str("username", username).Msg("Error checking admin user")
		return err
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := &appModels.User{
		Username:    username,
		Email:       email,
		Password:    hashed,
		RoleType:    appModels.RoleAdmin,
		IsStaff:     true,
		IsSuperuser: true,
		IsActive:    true,
	}
	if err := users.Create(ctx, admin); err != nil {
		lgr.Error().Err(err).Str("username", username).Msg("Error creating admin user")
		return err
	}

	lgr.Info().Str("username", username).Int64("userID", admin.ID).Msg("Admin user created.")
	return nil
}
