// Package repositories holds the SQL of each table. Every query goes
// through model.Store so rows come back in application form.
package repositories

import (
	"context"
	"strings"

	"github.com/projectdesk/projectdesk/app/models"
	"github.com/projectdesk/projectdesk/pkg/model"
)

const userColumns = "user_id, name, email, role, created_at, updated_at"

// UserRepository handles database operations for USERS.
type UserRepository struct {
	store *model.Store
}

func NewUserRepository(store *model.Store) *UserRepository {
	return &UserRepository{store: store}
}

// FindByEmail returns the full row, password hash included, or
// ErrUserNotFound.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (model.Record, error) {
	rec, err := r.store.GetOne(ctx, models.User, "SELECT * FROM USERS WHERE email = ?", email)
	return found(rec, err, models.ErrUserNotFound)
}

// FindByID looks up a user by primary key, without the password hash.
func (r *UserRepository) FindByID(ctx context.Context, id int64) (model.Record, error) {
	rec, err := r.store.GetOne(ctx, models.UserProfile,
		"SELECT "+userColumns+" FROM USERS WHERE user_id = ?", id)
	return found(rec, err, models.ErrUserNotFound)
}

// EmailTaken reports whether another user already uses email.
func (r *UserRepository) EmailTaken(ctx context.Context, email string) (bool, error) {
	return r.store.Exists(ctx, "SELECT 1 FROM USERS WHERE email = ?", email)
}

// All returns every user, newest first.
func (r *UserRepository) All(ctx context.Context) ([]model.Record, error) {
	return r.store.FindMany(ctx, models.UserProfile,
		"SELECT "+userColumns+" FROM USERS ORDER BY created_at DESC, user_id DESC")
}

// ByRoles returns the users holding any of roles, ordered by name.
func (r *UserRepository) ByRoles(ctx context.Context, roles ...string) ([]model.Record, error) {
	if len(roles) == 0 {
		return []model.Record{}, nil
	}
	args := make([]any, len(roles))
	for i, role := range roles {
		args[i] = role
	}
	q := "SELECT " + userColumns + " FROM USERS WHERE role IN (" +
		strings.TrimSuffix(strings.Repeat("?, ", len(roles)), ", ") + ") ORDER BY name ASC"
	return r.store.FindMany(ctx, models.UserProfile, q, args...)
}

// Create inserts a user and returns its id.
func (r *UserRepository) Create(ctx context.Context, user model.Record) (int64, error) {
	return r.store.Insert(ctx, models.TableUsers, user, models.User)
}

// Update applies fields to the user and reports how many rows changed.
func (r *UserRepository) Update(ctx context.Context, id int64, fields model.Record) (int64, error) {
	res, err := r.store.Update(ctx, models.TableUsers, fields, model.Record{"userId": id}, models.User)
	return res.RowsAffected, err
}

// Delete removes the user.
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.store.Remove(ctx, models.TableUsers, model.Record{"userId": id}, models.User)
	return err
}

// found turns a missing row into notFound.
func found(rec model.Record, err error, notFound error) (model.Record, error) {
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, notFound
	}
	return rec, nil
}
