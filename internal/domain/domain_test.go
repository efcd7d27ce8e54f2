package domain

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRole_In(t *testing.T) {
	assert.True(t, RoleAdmin.In(RoleAdmin))
	assert.True(t, RoleUser.In(RoleAdmin, RoleUser))
	assert.False(t, RoleUser.In(RoleAdmin))
	assert.False(t, RoleAdmin.In())
	assert.False(t, Role("admin").In(RoleAdmin))
}

func TestRole_Valid(t *testing.T) {
	assert.True(t, RoleAdmin.Valid())
	assert.True(t, RoleUser.Valid())
	assert.False(t, Role("Guest").Valid())
}

func TestIdentityContext(t *testing.T) {
	_, ok := IdentityFromContext(context.Background())
	assert.False(t, ok)

	ctx := ContextWithIdentity(context.Background(), Identity{UserID: 3, Role: RoleUser})
	id, ok := IdentityFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, Identity{UserID: 3, Role: RoleUser}, id)
}

func TestIsTokenRejection(t *testing.T) {
	assert.True(t, IsTokenRejection(fmt.Errorf("%w: sig", ErrTokenInvalid)))
	assert.True(t, IsTokenRejection(ErrTokenExpired))
	assert.True(t, IsTokenRejection(ErrTokenRevoked))
	assert.False(t, IsTokenRejection(ErrPersistence))
	assert.False(t, IsTokenRejection(nil))
}
