package service

import (
	"context"
	"fmt"

	"github.com/carelinkhq/telecare/internal/apperr"
	"github.com/carelinkhq/telecare/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UserService covers the small slice of account behavior the scheduling
// core needs: listing providers and a patient selecting theirs.
type UserService struct {
	users  UserStore
	logger *zap.Logger
}

func NewUserService(users UserStore, logger *zap.Logger) *UserService {
	return &UserService{users: users, logger: logger}
}

func (s *UserService) ListProviders(ctx context.Context) ([]*model.User, error) {
	return s.users.ListProviders(ctx)
}

// SelectProvider stores the patient's chosen provider. The target must be a
// provider account.
func (s *UserService) SelectProvider(ctx context.Context, user *model.User, providerUUID uuid.UUID) error {
	provider, err := s.users.GetByUUID(ctx, providerUUID)
	if err != nil {
		return fmt.Errorf("get provider: %w", err)
	}

	if provider == nil || !provider.IsProvider() {
		return apperr.NotFound("that provider does not exist")
	}

	if err := s.users.SetProvider(ctx, user.ID, provider.ID); err != nil {
		return fmt.Errorf("set provider: %w", err)
	}

	s.logger.Info("Provider selected",
		zap.Int64("user_id", user.ID),
		zap.Int64("provider_id", provider.ID),
	)

	return nil
}
