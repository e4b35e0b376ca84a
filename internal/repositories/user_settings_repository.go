package repositories

import (
	"database/sql"
	"time"

	"github.com/repodeck/repodeck/internal/models"
)

type UserSettingsRepository struct {
	db *sql.DB
}

func NewUserSettingsRepository(db *sql.DB) *UserSettingsRepository {
	return &UserSettingsRepository{
		db: db,
	}
}

// Create creates a settings row
func (r *UserSettingsRepository) Create(settings *models.UserSettings) error {
	return createSettings(r.db, settings)
}

// CreateTx creates a settings row inside an existing transaction
func (r *UserSettingsRepository) CreateTx(tx *sql.Tx, settings *models.UserSettings) error {
	return createSettings(tx, settings)
}

// GetByUserID retrieves the settings row for a user
func (r *UserSettingsRepository) GetByUserID(userID string) (*models.UserSettings, error) {
	query := `
		SELECT id, user_id, require_repo_delete_confirmation, disable_bulk_operations, created_at, updated_at
		FROM user_settings WHERE user_id = ?
	`

	var settings models.UserSettings
	err := r.db.QueryRow(query, userID).Scan(
		&settings.ID,
		&settings.UserID,
		&settings.RequireRepoDeleteConfirmation,
		&settings.DisableBulkOperations,
		&settings.CreatedAt,
		&settings.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &settings, nil
}

// Update replaces the mutable fields of a settings row and stamps
// updated_at
func (r *UserSettingsRepository) Update(settings *models.UserSettings) error {
	query := `
		UPDATE user_settings
		SET require_repo_delete_confirmation = ?, disable_bulk_operations = ?, updated_at = ?
		WHERE user_id = ?
	`

	settings.UpdatedAt = time.Now()
	_, err := r.db.Exec(query,
		settings.RequireRepoDeleteConfirmation,
		settings.DisableBulkOperations,
		settings.UpdatedAt,
		settings.UserID,
	)
	return err
}

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func createSettings(db execer, settings *models.UserSettings) error {
	query := `
		INSERT INTO user_settings (id, user_id, require_repo_delete_confirmation, disable_bulk_operations, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query,
		settings.ID,
		settings.UserID,
		settings.RequireRepoDeleteConfirmation,
		settings.DisableBulkOperations,
		settings.CreatedAt,
		settings.UpdatedAt,
	)
	return err
}
