package services

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/repodeck/repodeck/internal/models"
	"github.com/repodeck/repodeck/internal/repositories"
)

type UserService struct {
	db           *sql.DB
	userRepo     *repositories.UserRepository
	settingsRepo *repositories.UserSettingsRepository
}

func NewUserService(db *sql.DB, userRepo *repositories.UserRepository, settingsRepo *repositories.UserSettingsRepository) *UserService {
	return &UserService{
		db:           db,
		userRepo:     userRepo,
		settingsRepo: settingsRepo,
	}
}

// FindOrCreateUser returns the user with the given external provider id,
// creating the user together with a default settings row in a single
// transaction when no such user exists yet.
func (s *UserService) FindOrCreateUser(githubID, email string, name *string) (*models.User, error) {
	if githubID == "" {
		return nil, errors.New("github id is required")
	}

	user, err := s.userRepo.GetByGitHubID(githubID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	user = models.NewUser(githubID, email, name)
	settings := models.NewUserSettings(user.ID)

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.userRepo.CreateTx(tx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	if err := s.settingsRepo.CreateTx(tx, settings); err != nil {
		return nil, fmt.Errorf("failed to create user settings: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit user creation: %w", err)
	}

	return user, nil
}

// GetUserByID retrieves a user by internal id
func (s *UserService) GetUserByID(id string) (*models.User, error) {
	return s.userRepo.GetByID(id)
}

// GetSettings retrieves the settings for a user. A nil result (no row)
// means the defaults apply.
func (s *UserService) GetSettings(userID string) (*models.UserSettings, error) {
	settings, err := s.settingsRepo.GetByUserID(userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user settings: %w", err)
	}
	return settings, nil
}

// UpdateSettings merges the provided fields into the user's settings row.
// Nil fields stay unchanged; updated_at is stamped either way.
func (s *UserService) UpdateSettings(userID string, update models.UserSettingsUpdate) (*models.UserSettings, error) {
	settings, err := s.settingsRepo.GetByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user settings: %w", err)
	}

	if update.RequireRepoDeleteConfirmation != nil {
		settings.RequireRepoDeleteConfirmation = *update.RequireRepoDeleteConfirmation
	}
	if update.DisableBulkOperations != nil {
		settings.DisableBulkOperations = *update.DisableBulkOperations
	}

	if err := s.settingsRepo.Update(settings); err != nil {
		return nil, fmt.Errorf("failed to update user settings: %w", err)
	}

	return settings, nil
}
