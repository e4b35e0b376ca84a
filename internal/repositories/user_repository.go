package repositories

import (
	"database/sql"

	"github.com/repodeck/repodeck/internal/models"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

// Create creates a new user
func (r *UserRepository) Create(user *models.User) error {
	query := `
		INSERT INTO users (id, email, name, github_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		user.ID,
		user.Email,
		user.Name,
		user.GitHubID,
		user.CreatedAt,
		user.UpdatedAt,
	)
	return err
}

// CreateTx creates a new user inside an existing transaction
func (r *UserRepository) CreateTx(tx *sql.Tx, user *models.User) error {
	query := `
		INSERT INTO users (id, email, name, github_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := tx.Exec(query,
		user.ID,
		user.Email,
		user.Name,
		user.GitHubID,
		user.CreatedAt,
		user.UpdatedAt,
	)
	return err
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(id string) (*models.User, error) {
	query := `SELECT id, email, name, github_id, created_at, updated_at FROM users WHERE id = ?`
	return r.scanOne(r.db.QueryRow(query, id))
}

// GetByGitHubID retrieves a user by their external provider id
func (r *UserRepository) GetByGitHubID(githubID string) (*models.User, error) {
	query := `SELECT id, email, name, github_id, created_at, updated_at FROM users WHERE github_id = ?`
	return r.scanOne(r.db.QueryRow(query, githubID))
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	query := `SELECT id, email, name, github_id, created_at, updated_at FROM users WHERE email = ?`
	return r.scanOne(r.db.QueryRow(query, email))
}

// Update updates a user's mutable fields
func (r *UserRepository) Update(user *models.User) error {
	query := `
		UPDATE users
		SET email = ?, name = ?, github_id = ?, updated_at = ?
		WHERE id = ?
	`

	_, err := r.db.Exec(query,
		user.Email,
		user.Name,
		user.GitHubID,
		user.UpdatedAt,
		user.ID,
	)
	return err
}

func (r *UserRepository) scanOne(row *sql.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.GitHubID,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
