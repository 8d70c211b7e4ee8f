package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/projectdesk/projectdesk/app/models"
	"github.com/projectdesk/projectdesk/app/repositories"
	"github.com/projectdesk/projectdesk/pkg/auth"
	"github.com/projectdesk/projectdesk/pkg/model"
)

type RegisterInput struct {
	Name     string `json:"name"     validate:"required,max=100"`
	Email    string `json:"email"    validate:"required,email,max=100"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Role     string `json:"role"     validate:"omitempty,oneof=Admin Client Worker"`
}

type LoginInput struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateUserInput validates the fields of a partial user update.
type UpdateUserInput struct {
	Name     *string `json:"name"     validate:"omitempty,min=1,max=100"`
	Email    *string `json:"email"    validate:"omitempty,email,max=100"`
	Password *string `json:"password" validate:"omitempty,min=6,max=72"`
	Role     *string `json:"role"     validate:"omitempty,oneof=Admin Client Worker"`
}

type LoginResult struct {
	AccessToken string       `json:"accessToken"`
	User        model.Record `json:"user"`
}

type UserService struct {
	users  *repositories.UserRepository
	signer *auth.Signer
}

func NewUserService(users *repositories.UserRepository, signer *auth.Signer) *UserService {
	return &UserService{users: users, signer: signer}
}

// Register stores a new user and returns its profile.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (model.Record, error) {
	if in.Role == "" {
		in.Role = models.RoleWorker
	}
	id, err := s.create(ctx, in)
	if err != nil {
		return nil, err
	}
	return s.users.FindByID(ctx, id)
}

func (s *UserService) create(ctx context.Context, in RegisterInput) (int64, error) {
	taken, err := s.users.EmailTaken(ctx, in.Email)
	if err != nil {
		return 0, err
	}
	if taken {
		return 0, models.ErrEmailTaken
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}
	return s.users.Create(ctx, model.Record{
		"name":         in.Name,
		"email":        in.Email,
		"passwordHash": hash,
		"role":         in.Role,
	})
}

// Login checks the credentials and issues an access token.
func (s *UserService) Login(ctx context.Context, in LoginInput) (LoginResult, error) {
	rec, err := s.users.FindByEmail(ctx, in.Email)
	if errors.Is(err, models.ErrNotFound) {
		return LoginResult{}, models.ErrInvalidCredentials
	}
	if err != nil {
		return LoginResult{}, err
	}
	hash, _ := rec["passwordHash"].(string)
	if !auth.CheckPassword(hash, in.Password) {
		return LoginResult{}, models.ErrInvalidCredentials
	}

	id := models.Int(rec["userId"])
	role, _ := rec["role"].(string)
	token, err := s.signer.GenerateToken(id, in.Email, role)
	if err != nil {
		return LoginResult{}, fmt.Errorf("sign token: %w", err)
	}
	return LoginResult{
		AccessToken: token,
		User:        model.Project(rec, models.UserProfile),
	}, nil
}

func (s *UserService) All(ctx context.Context) ([]model.Record, error) {
	return s.users.All(ctx)
}

func (s *UserService) Workers(ctx context.Context) ([]model.Record, error) {
	return s.users.ByRoles(ctx, models.RoleWorker)
}

func (s *UserService) Admins(ctx context.Context) ([]model.Record, error) {
	return s.users.ByRoles(ctx, models.RoleAdmin)
}

// Staff lists workers and admins together.
func (s *UserService) Staff(ctx context.Context) ([]model.Record, error) {
	return s.users.ByRoles(ctx, models.RoleWorker, models.RoleAdmin)
}

func (s *UserService) Get(ctx context.Context, id int64) (model.Record, error) {
	return s.users.FindByID(ctx, id)
}

// Update applies the fields present in the body. A new password is hashed
// before it is stored.
func (s *UserService) Update(ctx context.Context, id int64, fields model.Record) (model.Record, error) {
	changes := pick(fields, "name", "email", "role")
	if pw, ok := fields["password"].(string); ok {
		hash, err := auth.HashPassword(pw)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		changes["passwordHash"] = hash
	}
	if len(changes) == 0 {
		return nil, models.Invalid("no updatable fields given")
	}

	if email, ok := changes["email"].(string); ok {
		current, err := s.users.FindByEmail(ctx, email)
		if err != nil && !errors.Is(err, models.ErrNotFound) {
			return nil, err
		}
		if current != nil && models.Int(current["userId"]) != id {
			return nil, models.ErrEmailTaken
		}
	}

	changes["updatedAt"] = now()
	n, err := s.users.Update(ctx, id, changes)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, models.ErrUserNotFound
	}
	return s.users.FindByID(ctx, id)
}

func (s *UserService) Delete(ctx context.Context, id int64) error {
	if _, err := s.users.FindByID(ctx, id); err != nil {
		return err
	}
	return s.users.Delete(ctx, id)
}
