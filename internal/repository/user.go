package repository

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/kazi-s/usermgmt/internal/model"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already exists")
)

type UserRepository interface {
	Create(user *model.User) error
	ByID(id string) (*model.User, error)
	ByEmail(email string) (*model.User, error)
	ConfirmEmail(id string) error
	UpdateLastLogin(id string, at time.Time) error
	List() ([]model.User, error)
	Block(ids []string) (int64, error)
	Unblock(ids []string) (int64, error)
	Delete(ids []string) (int64, error)
	DeleteUnverified() (int64, error)
}

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *model.User) error {
	query := `INSERT INTO users
		(id, name, email, password_hash, status, registration_time, last_login_time, confirmation_token, confirmation_token_expires, email_confirmed)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.Exec(query,
		user.ID, user.Name, user.Email, user.PasswordHash, user.Status,
		user.RegistrationTime, user.LastLoginTime,
		user.ConfirmationToken, user.ConfirmationTokenExpires, user.EmailConfirmed)
	if err != nil {
		// Check for unique constraint violation (works for both SQLite and PostgreSQL)
		errStr := err.Error()
		if strings.Contains(errStr, "UNIQUE constraint failed") || strings.Contains(errStr, "duplicate key value") {
			return ErrDuplicateEmail
		}
		return err
	}

	return nil
}

func (r *userRepository) ByID(id string) (*model.User, error) {
	user := &model.User{}
	query := `SELECT * FROM users WHERE id = $1`

	err := r.db.Get(user, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}

	return user, err
}

func (r *userRepository) ByEmail(email string) (*model.User, error) {
	user := &model.User{}
	query := `SELECT * FROM users WHERE email = $1`

	err := r.db.Get(user, query, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}

	return user, err
}

// ConfirmEmail marks the account active and clears the pending
// confirmation token and its expiry in one statement.
func (r *userRepository) ConfirmEmail(id string) error {
	query := `UPDATE users
		SET status = $1, email_confirmed = TRUE, confirmation_token = NULL, confirmation_token_expires = NULL
		WHERE id = $2`

	result, err := r.db.Exec(query, model.StatusActive, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrUserNotFound
	}

	return nil
}

func (r *userRepository) UpdateLastLogin(id string, at time.Time) error {
	query := `UPDATE users SET last_login_time = $1 WHERE id = $2`

	_, err := r.db.Exec(query, at, id)
	return err
}

// List returns every account ordered by last login, newest first.
// Accounts that never logged in sort last.
func (r *userRepository) List() ([]model.User, error) {
	users := []model.User{}
	query := `SELECT * FROM users ORDER BY last_login_time DESC NULLS LAST, registration_time DESC`

	err := r.db.Select(&users, query)
	return users, err
}

func (r *userRepository) Block(ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	query, args, err := sqlx.In(`UPDATE users SET status = ? WHERE id IN (?)`, model.StatusBlocked, ids)
	if err != nil {
		return 0, err
	}

	result, err := r.db.Exec(r.db.Rebind(query), args...)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}

// Unblock moves matched blocked accounts back to active, or to
// unverified when email confirmation is still pending. The returned
// count is the number of matched ids, not the number transitioned.
func (r *userRepository) Unblock(ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	tx, err := r.db.Beginx()
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	query, args, err := sqlx.In(`SELECT COUNT(*) FROM users WHERE id IN (?)`, ids)
	if err != nil {
		return 0, err
	}
	var matched int64
	err = tx.Get(&matched, r.db.Rebind(query), args...)
	if err != nil {
		return 0, err
	}

	query, args, err = sqlx.In(`UPDATE users SET status = ?
		WHERE id IN (?) AND status = ? AND confirmation_token IS NULL`,
		model.StatusActive, ids, model.StatusBlocked)
	if err != nil {
		return 0, err
	}
	_, err = tx.Exec(r.db.Rebind(query), args...)
	if err != nil {
		return 0, err
	}

	query, args, err = sqlx.In(`UPDATE users SET status = ?
		WHERE id IN (?) AND status = ? AND confirmation_token IS NOT NULL`,
		model.StatusUnverified, ids, model.StatusBlocked)
	if err != nil {
		return 0, err
	}
	_, err = tx.Exec(r.db.Rebind(query), args...)
	if err != nil {
		return 0, err
	}

	err = tx.Commit()
	if err != nil {
		return 0, err
	}

	return matched, nil
}

func (r *userRepository) Delete(ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	query, args, err := sqlx.In(`DELETE FROM users WHERE id IN (?)`, ids)
	if err != nil {
		return 0, err
	}

	result, err := r.db.Exec(r.db.Rebind(query), args...)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}

func (r *userRepository) DeleteUnverified() (int64, error) {
	query := `DELETE FROM users WHERE status = $1`

	result, err := r.db.Exec(query, model.StatusUnverified)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}
