package services

import (
	"context"

	"github.com/projectdesk/projectdesk/app/models"
	"github.com/projectdesk/projectdesk/app/repositories"
	"github.com/projectdesk/projectdesk/pkg/logger"
	"github.com/projectdesk/projectdesk/pkg/model"
)

// RegisterClientInput creates a Client user and its client profile at once.
type RegisterClientInput struct {
	Name           string `json:"name"           validate:"required,max=100"`
	Email          string `json:"email"          validate:"required,email,max=100"`
	Password       string `json:"password"       validate:"required,min=6,max=72"`
	ContactInfo    string `json:"contactInfo"    validate:"required,max=255"`
	Address        string `json:"address"        validate:"omitempty,max=255"`
	AdditionalInfo string `json:"additionalInfo" validate:"omitempty,max=2000"`
	Plan           string `json:"plan"           validate:"omitempty,oneof=Oro Esmeralda Premium"`
}

type CreateClientInput struct {
	UserID         int64  `json:"userId"         validate:"required,gt=0"`
	ContactInfo    string `json:"contactInfo"    validate:"required,max=255"`
	Address        string `json:"address"        validate:"omitempty,max=255"`
	AdditionalInfo string `json:"additionalInfo" validate:"omitempty,max=2000"`
	Plan           string `json:"plan"           validate:"omitempty,oneof=Oro Esmeralda Premium"`
}

type UpdateClientInput struct {
	ContactInfo    *string `json:"contactInfo"    validate:"omitempty,min=1,max=255"`
	Address        *string `json:"address"        validate:"omitempty,max=255"`
	AdditionalInfo *string `json:"additionalInfo" validate:"omitempty,max=2000"`
	Plan           *string `json:"plan"           validate:"omitempty,oneof=Oro Esmeralda Premium"`
}

type ClientService struct {
	clients *repositories.ClientRepository
	users   *UserService
}

func NewClientService(clients *repositories.ClientRepository, users *UserService) *ClientService {
	return &ClientService{clients: clients, users: users}
}

// Register creates the user account first, then the client row. The user is
// removed again when the client row cannot be written.
func (s *ClientService) Register(ctx context.Context, in RegisterClientInput) (model.Record, error) {
	userID, err := s.users.create(ctx, RegisterInput{
		Name:     in.Name,
		Email:    in.Email,
		Password: in.Password,
		Role:     models.RoleClient,
	})
	if err != nil {
		return nil, err
	}

	clientID, err := s.insert(ctx, CreateClientInput{
		UserID:         userID,
		ContactInfo:    in.ContactInfo,
		Address:        in.Address,
		AdditionalInfo: in.AdditionalInfo,
		Plan:           in.Plan,
	})
	if err != nil {
		if derr := s.users.users.Delete(ctx, userID); derr != nil {
			logger.WithCtx(ctx).Error("orphaned client user", "user_id", userID, "error", derr)
		}
		return nil, err
	}

	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	client, err := s.clients.FindByID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	return model.Record{"user": user, "client": client}, nil
}

func (s *ClientService) insert(ctx context.Context, in CreateClientInput) (int64, error) {
	if in.Plan == "" {
		in.Plan = models.DefaultPlan
	}
	return s.clients.Create(ctx, model.Record{
		"userId":         in.UserID,
		"contactInfo":    in.ContactInfo,
		"address":        in.Address,
		"additionalInfo": in.AdditionalInfo,
		"plan":           in.Plan,
	})
}

func (s *ClientService) List(ctx context.Context) ([]model.Record, error) {
	return s.clients.AllWithUsers(ctx)
}

func (s *ClientService) Get(ctx context.Context, id int64) (model.Record, error) {
	return s.clients.FindByID(ctx, id)
}

// Create adds a client profile to an existing user.
func (s *ClientService) Create(ctx context.Context, in CreateClientInput) (model.Record, error) {
	if _, err := s.users.Get(ctx, in.UserID); err != nil {
		return nil, err
	}
	id, err := s.insert(ctx, in)
	if err != nil {
		return nil, err
	}
	return s.clients.FindByID(ctx, id)
}

func (s *ClientService) Update(ctx context.Context, id int64, fields model.Record) (model.Record, error) {
	ok, err := s.clients.Exists(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, models.ErrClientNotFound
	}

	changes := pick(fields, "contactInfo", "address", "additionalInfo", "plan")
	if len(changes) == 0 {
		return nil, models.Invalid("no updatable fields given")
	}
	changes["updatedAt"] = now()
	if _, err := s.clients.Update(ctx, id, changes); err != nil {
		return nil, err
	}
	return s.clients.FindByID(ctx, id)
}

// Delete removes the client and then the user account behind it.
func (s *ClientService) Delete(ctx context.Context, id int64) error {
	client, err := s.clients.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.clients.Delete(ctx, id); err != nil {
		return err
	}
	return s.users.users.Delete(ctx, models.Int(client["userId"]))
}
