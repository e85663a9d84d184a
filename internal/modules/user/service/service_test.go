package service

import (
	"context"
	"testing"

	"anoa.com/assignmenthub/internal/entity"
	"anoa.com/assignmenthub/internal/inmem"
	"anoa.com/assignmenthub/internal/modules/user/dto"
	"anoa.com/assignmenthub/pkg/apperror"
	"anoa.com/assignmenthub/pkg/password"
	"anoa.com/assignmenthub/pkg/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func strPtr(s string) *string { return &s }

func newTestService(t *testing.T) (AuthService, *inmem.UserRepository, *token.Manager) {
	t.Helper()
	tokens, err := token.NewManager("test-secret", token.DefaultAlgorithm, token.DefaultTTL)
	require.NoError(t, err)
	repo := inmem.NewUserRepository()
	return NewAuthService(repo, password.NewHasher(bcrypt.MinCost), tokens), repo, tokens
}

func TestRegister(t *testing.T) {
	tests := []struct {
		name    string
		input   dto.RegisterInput
		wantErr error
		wantMsg string
	}{
		{
			name:  "student with reg number",
			input: dto.RegisterInput{Email: "s@x.com", Password: "secret1", Role: "student", RegNumber: strPtr("S-001")},
		},
		{
			name:  "role is case insensitive",
			input: dto.RegisterInput{Email: "l@x.com", Password: "secret1", Role: "  Lecturer "},
		},
		{
			name:  "empty role defaults to student",
			input: dto.RegisterInput{Email: "d@x.com", Password: "secret1", RegNumber: strPtr("S-002")},
		},
		{
			name:    "unknown role",
			input:   dto.RegisterInput{Email: "a@x.com", Password: "secret1", Role: "admin"},
			wantErr: apperror.ErrInvalidInput,
			wantMsg: "'admin' is not a valid role. Must be one of: student, lecturer",
		},
		{
			name:    "short password",
			input:   dto.RegisterInput{Email: "a@x.com", Password: "12345", Role: "lecturer"},
			wantErr: apperror.ErrInvalidInput,
		},
		{
			name:    "student without reg number",
			input:   dto.RegisterInput{Email: "a@x.com", Password: "secret1", Role: "student", RegNumber: strPtr("  ")},
			wantErr: apperror.ErrInvalidInput,
			wantMsg: "registration number is required for students",
		},
		{
			name:    "lecturer with reg number",
			input:   dto.RegisterInput{Email: "a@x.com", Password: "secret1", Role: "lecturer", RegNumber: strPtr("L-1")},
			wantErr: apperror.ErrInvalidInput,
			wantMsg: "lecturer cannot have a registration number",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, _ := newTestService(t)

			user, err := svc.Register(context.Background(), tt.input)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				if tt.wantMsg != "" {
					assert.Equal(t, tt.wantMsg, apperror.PublicMessage(err))
				}
				count, _ := repo.Count(context.Background())
				assert.Zero(t, count, "nothing is stored on a rejected registration")
				return
			}

			require.NoError(t, err)
			assert.NotZero(t, user.ID)
			assert.NotEqual(t, tt.input.Password, user.HashedPassword)
			assert.True(t, user.IsActive)
			if user.Role == entity.RoleLecturer {
				assert.Nil(t, user.RegNumber)
			} else {
				assert.NotNil(t, user.RegNumber)
			}
		})
	}
}

func TestRegisterConflicts(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	_, err := svc.Register(ctx, dto.RegisterInput{Email: "s@x.com", Password: "secret1", Role: "student", RegNumber: strPtr("S-001")})
	require.NoError(t, err)

	_, err = svc.Register(ctx, dto.RegisterInput{Email: "s@x.com", Password: "secret1", Role: "lecturer"})
	require.ErrorIs(t, err, apperror.ErrConflict)
	assert.Equal(t, "email already registered", apperror.PublicMessage(err))

	_, err = svc.Register(ctx, dto.RegisterInput{Email: "other@x.com", Password: "secret1", Role: "student", RegNumber: strPtr("S-001")})
	require.ErrorIs(t, err, apperror.ErrConflict)
	assert.Equal(t, "registration number already registered", apperror.PublicMessage(err))
}

func TestRegisterThenLogin(t *testing.T) {
	ctx := context.Background()
	svc, _, tokens := newTestService(t)

	for _, in := range []dto.RegisterInput{
		{Email: "l@x.com", FullName: "Lecturer", Password: "secret1", Role: "lecturer"},
		{Email: "s@x.com", FullName: "Student", Password: "another-pass", Role: "student", RegNumber: strPtr("S-9")},
	} {
		registered, err := svc.Register(ctx, in)
		require.NoError(t, err)

		resp, err := svc.Login(ctx, dto.LoginInput{Email: in.Email, Password: in.Password})
		require.NoError(t, err)
		assert.Equal(t, "bearer", resp.TokenType)
		assert.Equal(t, registered.ID, resp.User.ID)
		assert.InDelta(t, token.DefaultTTL.Seconds(), float64(resp.ExpiresIn), 2)

		claims, err := tokens.Parse(resp.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, in.Email, claims.Subject)
		assert.Equal(t, registered.Role.String(), claims.Role)

		me, err := svc.Authenticate(ctx, resp.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, registered.ID, me.ID)
	}
}

func TestLoginFailuresLookAlike(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newTestService(t)

	_, err := svc.Register(ctx, dto.RegisterInput{Email: "s@x.com", Password: "secret1", Role: "student", RegNumber: strPtr("S-1")})
	require.NoError(t, err)

	_, wrongPassword := svc.Login(ctx, dto.LoginInput{Email: "s@x.com", Password: "wrong-password"})
	_, unknownEmail := svc.Login(ctx, dto.LoginInput{Email: "nobody@x.com", Password: "secret1"})

	assert.Equal(t, ErrInvalidCredentials, wrongPassword)
	assert.Equal(t, ErrInvalidCredentials, unknownEmail)
	assert.ErrorIs(t, wrongPassword, apperror.ErrUnauthorized)
	assert.Equal(t, "incorrect email or password", apperror.PublicMessage(wrongPassword))

	user, err := repo.FindByEmail(ctx, "s@x.com")
	require.NoError(t, err)
	user.IsActive = false
	repo.Put(*user)

	_, inactive := svc.Login(ctx, dto.LoginInput{Email: "s@x.com", Password: "secret1"})
	assert.Equal(t, ErrInvalidCredentials, inactive)
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	svc, _, tokens := newTestService(t)

	_, err := svc.Authenticate(ctx, "not-a-token")
	assert.Equal(t, apperror.ErrUnauthorized, err)

	// Valid signature, but the subject no longer exists.
	ghost, err := tokens.Issue("ghost@x.com", "student")
	require.NoError(t, err)
	_, err = svc.Authenticate(ctx, ghost.AccessToken)
	assert.Equal(t, apperror.ErrUnauthorized, err)
}
