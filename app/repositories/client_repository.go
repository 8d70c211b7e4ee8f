package repositories

import (
	"context"

	"github.com/projectdesk/projectdesk/app/models"
	"github.com/projectdesk/projectdesk/pkg/model"
)

// ClientRepository handles database operations for CLIENTS.
type ClientRepository struct {
	store *model.Store
}

func NewClientRepository(store *model.Store) *ClientRepository {
	return &ClientRepository{store: store}
}

// AllWithUsers returns every client joined with its user, newest first.
func (r *ClientRepository) AllWithUsers(ctx context.Context) ([]model.Record, error) {
	rows, err := r.store.FindMany(ctx, models.ClientWithUser, `
		SELECT c.client_id, c.user_id, c.contact_info, c.address, c.additional_info, c.plan,
		       c.created_at, c.updated_at, u.name, u.email, u.role
		FROM CLIENTS c
		INNER JOIN USERS u ON c.user_id = u.user_id
		ORDER BY c.created_at DESC, c.client_id DESC`)
	if err != nil {
		return nil, err
	}
	return model.ProjectAll(rows, models.ClientWithUser), nil
}

func (r *ClientRepository) FindByID(ctx context.Context, id int64) (model.Record, error) {
	rec, err := r.store.GetOne(ctx, models.Client, "SELECT * FROM CLIENTS WHERE client_id = ?", id)
	return found(rec, err, models.ErrClientNotFound)
}

// FindByUserID returns the client owned by a user.
func (r *ClientRepository) FindByUserID(ctx context.Context, userID int64) (model.Record, error) {
	rec, err := r.store.GetOne(ctx, models.Client, "SELECT * FROM CLIENTS WHERE user_id = ?", userID)
	return found(rec, err, models.ErrClientNotFound)
}

func (r *ClientRepository) Exists(ctx context.Context, id int64) (bool, error) {
	return r.store.Exists(ctx, "SELECT 1 FROM CLIENTS WHERE client_id = ?", id)
}

func (r *ClientRepository) Create(ctx context.Context, client model.Record) (int64, error) {
	return r.store.Insert(ctx, models.TableClients, client, models.Client)
}

func (r *ClientRepository) Update(ctx context.Context, id int64, fields model.Record) (int64, error) {
	res, err := r.store.Update(ctx, models.TableClients, fields, model.Record{"clientId": id}, models.Client)
	return res.RowsAffected, err
}

func (r *ClientRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.store.Remove(ctx, models.TableClients, model.Record{"clientId": id}, models.Client)
	return err
}
