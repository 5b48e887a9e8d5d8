package repository

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/kazi-s/usermgmt/internal/db"
	"github.com/kazi-s/usermgmt/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	database, err := db.Init("sqlite", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations(database.DB, "sqlite"))

	t.Cleanup(func() { _ = database.Close() })
	return database
}

func newUser(status model.Status, email string, pendingToken bool) *model.User {
	u := &model.User{
		ID:               uuid.NewString(),
		Name:             "Test User",
		Email:            email,
		PasswordHash:     "$2a$10$fakefakefakefakefakefake",
		Status:           status,
		RegistrationTime: time.Now().UTC(),
		EmailConfirmed:   !pendingToken,
	}
	if pendingToken {
		token := uuid.NewString()
		expires := time.Now().UTC().Add(24 * time.Hour)
		u.ConfirmationToken = &token
		u.ConfirmationTokenExpires = &expires
	}
	return u
}

func TestCreateDuplicateEmail(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))

	err := repo.Create(newUser(model.StatusUnverified, "dup@example.com", true))
	require.NoError(t, err)

	err = repo.Create(newUser(model.StatusUnverified, "dup@example.com", true))
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	users, err := repo.List()
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestConfirmEmailClearsToken(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))

	u := newUser(model.StatusUnverified, "confirm@example.com", true)
	require.NoError(t, repo.Create(u))

	require.NoError(t, repo.ConfirmEmail(u.ID))

	got, err := repo.ByID(u.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusActive, got.Status)
	assert.True(t, got.EmailConfirmed)
	assert.Nil(t, got.ConfirmationToken)
	assert.Nil(t, got.ConfirmationTokenExpires)
}

func TestConfirmEmailUnknownID(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))

	err := repo.ConfirmEmail(uuid.NewString())
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUnblockSplitsOnPendingConfirmation(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))

	confirmed := newUser(model.StatusBlocked, "confirmed@example.com", false)
	pending := newUser(model.StatusBlocked, "pending@example.com", true)
	active := newUser(model.StatusActive, "active@example.com", false)
	require.NoError(t, repo.Create(confirmed))
	require.NoError(t, repo.Create(pending))
	require.NoError(t, repo.Create(active))

	count, err := repo.Unblock([]string{confirmed.ID, pending.ID, active.ID})
	require.NoError(t, err)
	// Matched count includes the account that was not blocked.
	assert.Equal(t, int64(3), count)

	got, err := repo.ByID(confirmed.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusActive, got.Status)

	got, err = repo.ByID(pending.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusUnverified, got.Status)

	got, err = repo.ByID(active.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusActive, got.Status)
}

func TestListOrdersByLastLoginDescending(t *testing.T) {
	database := newTestDB(t)
	repo := NewUserRepository(database)

	never := newUser(model.StatusUnverified, "never@example.com", true)
	old := newUser(model.StatusActive, "old@example.com", false)
	recent := newUser(model.StatusActive, "recent@example.com", false)
	require.NoError(t, repo.Create(never))
	require.NoError(t, repo.Create(old))
	require.NoError(t, repo.Create(recent))

	require.NoError(t, repo.UpdateLastLogin(old.ID, time.Now().UTC().Add(-48*time.Hour)))
	require.NoError(t, repo.UpdateLastLogin(recent.ID, time.Now().UTC()))

	users, err := repo.List()
	require.NoError(t, err)
	require.Len(t, users, 3)
	assert.Equal(t, recent.ID, users[0].ID)
	assert.Equal(t, old.ID, users[1].ID)
	// Never-logged-in accounts sort last
	assert.Equal(t, never.ID, users[2].ID)
	assert.Nil(t, users[2].LastLoginTime)
}

func TestDeleteRemovesRows(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))

	u := newUser(model.StatusActive, "gone@example.com", false)
	require.NoError(t, repo.Create(u))

	count, err := repo.Delete([]string{u.ID, uuid.NewString()})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	_, err = repo.ByID(u.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestBatchOpsWithNoIDs(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))

	count, err := repo.Block(nil)
	require.NoError(t, err)
	assert.Zero(t, count)

	count, err = repo.Unblock(nil)
	require.NoError(t, err)
	assert.Zero(t, count)

	count, err = repo.Delete(nil)
	require.NoError(t, err)
	assert.Zero(t, count)
}
