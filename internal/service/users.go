package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"taskmanager/internal/domain/errors"
	"taskmanager/internal/domain/models"
	"taskmanager/internal/validation"
)

type UserService struct {
	repo UserRepository
	log  *slog.Logger
}

func NewUserService(repo UserRepository, log *slog.Logger) *UserService {
	if log == nil {
		log = slog.Default()
	}
	return &UserService{repo: repo, log: log.With(slog.String("component", "users"))}
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	users, err := s.repo.GetUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}

// Create validates against the shared user schema and additionally requires
// a description.
func (s *UserService) Create(ctx context.Context, p validation.UserPayload, typeErrs errors.FieldErrors) (*models.User, error) {
	in, fe := validation.User(p, typeErrs)
	if fe == nil {
		fe = errors.FieldErrors{}
	}
	if strings.TrimSpace(p.Description) == "" && !fe.Has("description") {
		fe.Add("description", "Description is required")
	}
	if len(fe) > 0 {
		return nil, fe
	}

	user := &models.User{
		FName:       in.FName,
		LName:       in.LName,
		Email:       in.Email,
		Description: in.Description,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	s.log.Info("user created", slog.Int64("user_id", user.ID))
	return user, nil
}
