package repo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/card_collection/internal/domain"
	"github.com/Skotchmaster/card_collection/internal/models"
	"github.com/Skotchmaster/card_collection/pkg/db"
)

func newTestRepo(t *testing.T) *GormRepo {
	t.Helper()
	ctx := context.Background()

	gdb, err := db.Open(ctx, db.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(gdb) })

	r := New(gdb)
	require.NoError(t, r.Migrate(ctx))
	return r
}

func seedUser(t *testing.T, r *GormRepo, username string, role domain.Role) *models.User {
	t.Helper()
	ctx := context.Background()

	rl, err := r.EnsureRole(ctx, role)
	require.NoError(t, err)
	av, err := r.EnsureAvatar(ctx, "Avatar1")
	require.NoError(t, err)

	u := &models.User{Username: username, PasswordHash: "hash", RoleID: rl.ID, AvatarID: av.ID}
	require.NoError(t, r.CreateUserIfNotExists(ctx, u))
	return u
}

func TestGetUserByUsername(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	seeded := seedUser(t, r, "alice", domain.RoleUser)

	u, err := r.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, u.ID)
	assert.Equal(t, "hash", u.PasswordHash)

	_, err = r.GetUserByUsername(ctx, "bob")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestGetUserByID_PreloadsRoleAndAvatar(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	seeded := seedUser(t, r, "alice", domain.RoleAdmin)

	u, err := r.GetUserByID(ctx, seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, "Admin", u.Role.Name)
	assert.Equal(t, "Avatar1", u.Avatar.Name)

	_, err = r.GetUserByID(ctx, seeded.ID+100)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestGetUserRole(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	seeded := seedUser(t, r, "alice", domain.RoleUser)

	role, err := r.GetUserRole(ctx, seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, "User", role.Name)

	_, err = r.GetUserRole(ctx, 999)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestRefreshTokenLifecycle(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	seeded := seedUser(t, r, "alice", domain.RoleUser)

	stored, err := r.GetRefreshToken(ctx, seeded.ID)
	require.NoError(t, err)
	assert.Nil(t, stored)

	token := "refresh-1"
	n, err := r.SetRefreshToken(ctx, seeded.ID, &token)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	stored, err = r.GetRefreshToken(ctx, seeded.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "refresh-1", *stored)

	n, err = r.SetRefreshToken(ctx, seeded.ID, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	stored, err = r.GetRefreshToken(ctx, seeded.ID)
	require.NoError(t, err)
	assert.Nil(t, stored)

	n, err = r.SetRefreshToken(ctx, 999, &token)
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = r.GetRefreshToken(ctx, 999)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestCreateUserIfNotExists_Conflict(t *testing.T) {
	r := newTestRepo(t)
	seeded := seedUser(t, r, "alice", domain.RoleUser)

	dup := &models.User{Username: "alice", PasswordHash: "other", RoleID: seeded.RoleID, AvatarID: seeded.AvatarID}
	err := r.CreateUserIfNotExists(context.Background(), dup)
	assert.ErrorIs(t, err, ErrUserAlreadyExist)
}

func TestEnsureRole_Idempotent(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	a, err := r.EnsureRole(ctx, domain.RoleAdmin)
	require.NoError(t, err)
	b, err := r.EnsureRole(ctx, domain.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, a.ID, b.ID)
}

func TestEnsureRole_RejectsUnknownRole(t *testing.T) {
	r := newTestRepo(t)

	_, err := r.EnsureRole(context.Background(), domain.Role("Guest"))
	assert.ErrorIs(t, err, domain.ErrValidation)

	var n int64
	require.NoError(t, r.DB.Model(&models.Role{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestClosedDatabase_IsPersistenceError(t *testing.T) {
	r := newTestRepo(t)
	require.NoError(t, db.Close(r.DB))

	_, err := r.GetUserByUsername(context.Background(), "alice")
	assert.ErrorIs(t, err, domain.ErrPersistence)
}
