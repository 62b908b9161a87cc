package forum

import (
	"context"
	"time"

	"github.com/uptrace/bun"

	"github.com/studybud/backend/internal/database/models"
)

func NewAccountService(db *bun.DB) *AccountService {
	return &AccountService{
		baseService: newBaseService(db),
	}
}

type AccountService struct {
	baseService
}

// CreateUser stores a new account. Callers normalize the username.
func (s *AccountService) CreateUser(ctx context.Context, username, passwordHash string) (user *models.User, err error) {
	user = &models.User{
		Username:     username,
		PasswordHash: passwordHash,
		DateJoined:   time.Now(),
	}

	_, err = s.DB.NewInsert().
		Model(user).
		Exec(ctx)
	if err = translate(err, "forum.CreateUser"); err != nil {
		user = nil
	}
	return
}

func (s *AccountService) FindUserByUsername(ctx context.Context, username string) (user *models.User, err error) {
	user = new(models.User)
	err = s.DB.NewSelect().
		Model(user).
		Where("username = ?", username).
		Scan(ctx)
	if err = translate(err, "forum.FindUserByUsername"); err != nil {
		user = nil
	}
	return
}

func (s *AccountService) TouchLastLogin(ctx context.Context, userID uint) error {
	_, err := s.DB.NewUpdate().
		Model((*models.User)(nil)).
		Set("last_login = ?", time.Now()).
		Where("id = ?", userID).
		Exec(ctx)
	return translate(err, "forum.TouchLastLogin")
}
