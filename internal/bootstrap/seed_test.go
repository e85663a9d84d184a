package bootstrap

import (
	"context"
	"testing"

	"anoa.com/assignmenthub/internal/entity"
	"anoa.com/assignmenthub/internal/inmem"
	"anoa.com/assignmenthub/pkg/password"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestSeedDevelopmentLecturerIsIdempotent(t *testing.T) {
	ctx := context.Background()
	users := inmem.NewUserRepository()
	hasher := password.NewHasher(bcrypt.MinCost)

	require.NoError(t, SeedDevelopmentLecturer(ctx, users, hasher))
	require.NoError(t, SeedDevelopmentLecturer(ctx, users, hasher))

	count, err := users.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	lecturer, err := users.FindByEmail(ctx, DevLecturerEmail)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleLecturer, lecturer.Role)
	assert.Nil(t, lecturer.RegNumber)
	assert.True(t, hasher.Verify(DevLecturerPassword, lecturer.HashedPassword))
}
