package service

import (
	"testing"
	"time"

	"github.com/kazi-s/usermgmt/internal/model"
	"github.com/kazi-s/usermgmt/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedUsers registers three accounts: alice confirmed, bob pending
// confirmation, carol confirmed.
func seedUsers(t *testing.T, auth *AuthService) (alice, bob, carol *model.User) {
	t.Helper()

	var err error
	alice, err = auth.Register("Alice", "alice@x.com", "pw")
	require.NoError(t, err)
	bob, err = auth.Register("Bob", "bob@x.com", "pw")
	require.NoError(t, err)
	carol, err = auth.Register("Carol", "carol@x.com", "pw")
	require.NoError(t, err)

	_, err = auth.ConfirmEmail("alice@x.com", *alice.ConfirmationToken)
	require.NoError(t, err)
	_, err = auth.ConfirmEmail("carol@x.com", *carol.ConfirmationToken)
	require.NoError(t, err)

	return alice, bob, carol
}

func TestBlock(t *testing.T) {
	auth, repo, _ := newTestAuthService(t, time.Hour)
	users := NewUserService(repo)
	alice, bob, _ := seedUsers(t, auth)

	count, err := users.Block([]string{alice.ID, bob.ID, "no-such-id"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	for _, id := range []string{alice.ID, bob.ID} {
		got, err := repo.ByID(id)
		require.NoError(t, err)
		assert.Equal(t, model.StatusBlocked, got.Status)
	}

	// Blocking again is idempotent
	count, err = users.Block([]string{alice.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestUnblock(t *testing.T) {
	auth, repo, _ := newTestAuthService(t, time.Hour)
	users := NewUserService(repo)
	alice, bob, carol := seedUsers(t, auth)

	_, err := users.Block([]string{alice.ID, bob.ID})
	require.NoError(t, err)

	// carol is matched but not blocked; still counted (observed behavior)
	count, err := users.Unblock([]string{alice.ID, bob.ID, carol.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	got, err := repo.ByID(alice.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusActive, got.Status, "confirmed account returns to active")

	got, err = repo.ByID(bob.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusUnverified, got.Status, "unconfirmed account stays unverified")

	got, err = repo.ByID(carol.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusActive, got.Status)
}

func TestDelete(t *testing.T) {
	auth, repo, _ := newTestAuthService(t, time.Hour)
	users := NewUserService(repo)
	alice, bob, carol := seedUsers(t, auth)

	count, err := users.Delete([]string{alice.ID, bob.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	_, err = repo.ByID(alice.ID)
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
	_, err = repo.ByID(bob.ID)
	assert.ErrorIs(t, err, repository.ErrUserNotFound)

	remaining, err := users.List()
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, carol.ID, remaining[0].ID)
}

func TestDeleteUnverified(t *testing.T) {
	auth, repo, _ := newTestAuthService(t, time.Hour)
	users := NewUserService(repo)
	alice, bob, carol := seedUsers(t, auth)

	// A blocked account is not unverified and must survive
	_, err := users.Block([]string{carol.ID})
	require.NoError(t, err)

	count, err := users.DeleteUnverified()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	_, err = repo.ByID(bob.ID)
	assert.ErrorIs(t, err, repository.ErrUserNotFound)

	got, err := repo.ByID(alice.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusActive, got.Status)

	got, err = repo.ByID(carol.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusBlocked, got.Status)
}
