package repository_test

import (
	"context"
	"testing"

	"anoa.com/assignmenthub/internal/entity"
	"anoa.com/assignmenthub/internal/modules/user/dto"
	"anoa.com/assignmenthub/internal/modules/user/repository"
	"anoa.com/assignmenthub/internal/modules/user/service"
	"anoa.com/assignmenthub/internal/testutil"
	"anoa.com/assignmenthub/pkg/apperror"
	"anoa.com/assignmenthub/pkg/password"
	"anoa.com/assignmenthub/pkg/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func strPtr(s string) *string { return &s }

func student(email, reg string) *entity.User {
	return &entity.User{Email: email, RegNumber: strPtr(reg), HashedPassword: "h", Role: entity.RoleStudent, IsActive: true}
}

func lecturer(email string) *entity.User {
	return &entity.User{Email: email, HashedPassword: "h", Role: entity.RoleLecturer, IsActive: true}
}

func TestUserRepository_UniqueIndexes(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewUserRepository(testutil.PrepareDB(t))

	require.NoError(t, repo.Create(ctx, student("s@x.com", "S-001")))
	require.NoError(t, repo.Create(ctx, lecturer("l1@x.com")))
	require.NoError(t, repo.Create(ctx, lecturer("l2@x.com")), "lecturers share a NULL reg_number")

	tests := []struct {
		name string
		user *entity.User
	}{
		{name: "duplicate email", user: lecturer("s@x.com")},
		{name: "duplicate reg number", user: student("other@x.com", "S-001")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := repo.Create(ctx, tt.user)
			assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
		})
	}

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestUserRepository_Lookups(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewUserRepository(testutil.PrepareDB(t))

	s := student("s@x.com", "S-001")
	require.NoError(t, repo.Create(ctx, s))
	require.NotZero(t, s.ID)

	byEmail, err := repo.FindByEmail(ctx, "s@x.com")
	require.NoError(t, err)
	assert.Equal(t, s.ID, byEmail.ID)
	assert.Equal(t, entity.RoleStudent, byEmail.Role)

	byReg, err := repo.FindByRegNumber(ctx, "S-001")
	require.NoError(t, err)
	assert.Equal(t, s.ID, byReg.ID)

	byID, err := repo.FindByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "s@x.com", byID.Email)

	_, err = repo.FindByEmail(ctx, "nobody@x.com")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

// blindRepository skips the duplicate pre-checks, like a request that lost
// the race against a concurrent registration.
type blindRepository struct {
	repository.UserRepository
}

func (blindRepository) FindByEmail(context.Context, string) (*entity.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func (blindRepository) FindByRegNumber(context.Context, string) (*entity.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func TestRegister_ConstraintIsTheGuard(t *testing.T) {
	ctx := context.Background()
	tokens, err := token.NewManager("test-secret", token.DefaultAlgorithm, token.DefaultTTL)
	require.NoError(t, err)
	repo := blindRepository{repository.NewUserRepository(testutil.PrepareDB(t))}
	svc := service.NewAuthService(repo, password.NewHasher(bcrypt.MinCost), tokens)

	_, err = svc.Register(ctx, dto.RegisterInput{Email: "s@x.com", Password: "secret1", Role: "student", RegNumber: strPtr("S-001")})
	require.NoError(t, err)

	tests := []struct {
		name  string
		input dto.RegisterInput
	}{
		{name: "same email", input: dto.RegisterInput{Email: "s@x.com", Password: "secret1", Role: "lecturer"}},
		{name: "same reg number", input: dto.RegisterInput{Email: "t@x.com", Password: "secret1", Role: "student", RegNumber: strPtr("S-001")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.input)
			assert.ErrorIs(t, err, apperror.ErrConflict)
		})
	}
}
