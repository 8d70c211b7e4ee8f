package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/projectdesk/projectdesk/app/models"
	"github.com/projectdesk/projectdesk/app/repositories"
	"github.com/projectdesk/projectdesk/pkg/logger"
	"github.com/projectdesk/projectdesk/pkg/model"
	"github.com/projectdesk/projectdesk/pkg/storage"
)

type FileService struct {
	files    *repositories.FileRepository
	projects *repositories.ProjectRepository
	disk     storage.Disk
	maxBytes int64
}

func NewFileService(
	files *repositories.FileRepository,
	projects *repositories.ProjectRepository,
	disk storage.Disk,
	maxBytes int64,
) *FileService {
	return &FileService{files: files, projects: projects, disk: disk, maxBytes: maxBytes}
}

// Upload stores the file on disk under projects/{projectID}/ with a random
// name and records its metadata.
func (s *FileService) Upload(ctx context.Context, projectID int64, fh *multipart.FileHeader) (model.Record, error) {
	ok, err := s.projects.Exists(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, models.ErrProjectNotFound
	}
	if s.maxBytes > 0 && fh.Size > s.maxBytes {
		return nil, models.Invalid(fmt.Sprintf("file exceeds the %d byte limit", s.maxBytes))
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	mime, err := mimetype.DetectReader(f)
	if err != nil {
		return nil, fmt.Errorf("detect mime type: %w", err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewind upload: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if ext == "" {
		ext = mime.Extension()
	}
	name := uuid.NewString() + ext
	key := path.Join("projects", fmt.Sprint(projectID), name)

	if err := s.disk.Put(ctx, key, f, mime.String()); err != nil {
		return nil, fmt.Errorf("store upload: %w", err)
	}

	id, err := s.files.Create(ctx, model.Record{
		"fileName":     name,
		"originalName": filepath.Base(fh.Filename),
		"filePath":     key,
		"fileSize":     fh.Size,
		"mimeType":     mime.String(),
		"projectId":    projectID,
		"uploadedAt":   now(),
	})
	if err != nil {
		if derr := s.disk.Delete(ctx, key); derr != nil {
			logger.WithCtx(ctx).Error("orphaned upload", "path", key, "error", derr)
		}
		return nil, err
	}
	return s.files.FindByID(ctx, id)
}

func (s *FileService) ByProject(ctx context.Context, projectID int64) ([]model.Record, error) {
	ok, err := s.projects.Exists(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, models.ErrProjectNotFound
	}
	return s.files.ByProject(ctx, projectID)
}

// Open returns the file's metadata and a reader for its content. The caller
// closes the reader.
func (s *FileService) Open(ctx context.Context, id int64) (model.Record, io.ReadCloser, error) {
	rec, err := s.files.FindByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	key, _ := rec["filePath"].(string)
	rc, err := s.disk.Open(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil, models.ErrFileNotFound
	}
	if err != nil {
		return nil, nil, err
	}
	return rec, rc, nil
}

// Delete removes the content from disk, then the metadata row.
func (s *FileService) Delete(ctx context.Context, id int64) error {
	rec, err := s.files.FindByID(ctx, id)
	if err != nil {
		return err
	}
	key, _ := rec["filePath"].(string)
	if err := s.disk.Delete(ctx, key); err != nil {
		return fmt.Errorf("delete stored file: %w", err)
	}
	return s.files.Delete(ctx, id)
}
