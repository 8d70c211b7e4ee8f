package repositories

import (
	"context"

	"github.com/projectdesk/projectdesk/app/models"
	"github.com/projectdesk/projectdesk/pkg/model"
)

// FileRepository handles the metadata of uploaded files.
type FileRepository struct {
	store *model.Store
}

func NewFileRepository(store *model.Store) *FileRepository {
	return &FileRepository{store: store}
}

func (r *FileRepository) ByProject(ctx context.Context, projectID int64) ([]model.Record, error) {
	return r.store.FindMany(ctx, models.File,
		"SELECT * FROM FILES WHERE project_id = ? ORDER BY uploaded_at DESC, file_id DESC", projectID)
}

func (r *FileRepository) FindByID(ctx context.Context, id int64) (model.Record, error) {
	rec, err := r.store.GetOne(ctx, models.File, "SELECT * FROM FILES WHERE file_id = ?", id)
	return found(rec, err, models.ErrFileNotFound)
}

func (r *FileRepository) Create(ctx context.Context, file model.Record) (int64, error) {
	return r.store.Insert(ctx, models.TableFiles, file, models.File)
}

func (r *FileRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.store.Remove(ctx, models.TableFiles, model.Record{"fileId": id}, models.File)
	return err
}
