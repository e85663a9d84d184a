package bootstrap

import (
	"context"
	"errors"

	"anoa.com/assignmenthub/internal/entity"
	userRepo "anoa.com/assignmenthub/internal/modules/user/repository"
	"anoa.com/assignmenthub/pkg/logger"
	"gorm.io/gorm"
)

const (
	DevLecturerEmail    = "lecturer@example.com"
	DevLecturerPassword = "lecturer123"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.User{},
		&entity.Assignment{},
		&entity.Submission{},
		&entity.SupersededFile{},
		&entity.Notification{},
	)
}

type passwordHasher interface {
	Hash(plain string) (string, error)
}

// SeedDevelopmentLecturer creates a lecturer account to log in with on a
// fresh development database. It is a no-op when the account exists.
func SeedDevelopmentLecturer(ctx context.Context, users userRepo.UserRepository, hasher passwordHasher) error {
	_, err := users.FindByEmail(ctx, DevLecturerEmail)
	if err == nil {
		logger.Log.Debug("development lecturer already exists, skipping seed")
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashed, err := hasher.Hash(DevLecturerPassword)
	if err != nil {
		return err
	}

	lecturer := &entity.User{
		Email:          DevLecturerEmail,
		FullName:       "Development Lecturer",
		HashedPassword: hashed,
		Role:           entity.RoleLecturer,
		IsActive:       true,
	}
	if err := users.Create(ctx, lecturer); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil
		}
		return err
	}

	logger.Log.WithField("email", DevLecturerEmail).Info("development lecturer seeded")
	return nil
}
