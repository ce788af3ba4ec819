package resumes

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jezzlucena/slatefolio/internal/media"
	"github.com/jezzlucena/slatefolio/pkg/db/models"
	"github.com/jezzlucena/slatefolio/pkg/enums"
	pkgerrors "github.com/jezzlucena/slatefolio/pkg/errors"
	"github.com/jezzlucena/slatefolio/pkg/logger"
)

const pdfMimeType = "application/pdf"

type resumeRepository interface {
	Create(ctx context.Context, resume *models.Resume) (*models.Resume, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Resume, error)
	FindActive(ctx context.Context) (*models.Resume, error)
	List(ctx context.Context) ([]models.Resume, error)
	UpdateFilename(ctx context.Context, id uuid.UUID, filename string) error
	ActivateExclusive(tx *gorm.DB, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type diskStore interface {
	Write(folder enums.MediaFolder, storedName string, r io.Reader) (int64, error)
	Open(folder enums.MediaFolder, storedName string) (io.ReadCloser, int64, error)
	Remove(folder enums.MediaFolder, storedName string) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes the resume lifecycle: upload, listing, exclusive
// activation, rename, delete, and streaming.
type Service interface {
	Upload(ctx context.Context, data []byte, originalName string) (*models.Resume, error)
	List(ctx context.Context) ([]models.Resume, error)
	Active(ctx context.Context) (*models.Resume, error)
	Rename(ctx context.Context, id uuid.UUID, filename string) (*models.Resume, error)
	Activate(ctx context.Context, id uuid.UUID) (*models.Resume, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Serve(ctx context.Context, id uuid.UUID) (*media.ResolvedFile, error)
	ServeActive(ctx context.Context) (*media.ResolvedFile, error)
}

type service struct {
	repo     resumeRepository
	disk     diskStore
	tx       txRunner
	logg     *logger.Logger
	maxBytes int64
}

// NewService constructs the resume service.
func NewService(repo resumeRepository, disk diskStore, tx txRunner, logg *logger.Logger, maxBytes int64) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("resume repository required")
	}
	if disk == nil {
		return nil, fmt.Errorf("disk store required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if maxBytes <= 0 {
		return nil, fmt.Errorf("max upload bytes must be positive")
	}
	return &service{
		repo:     repo,
		disk:     disk,
		tx:       tx,
		logg:     logg,
		maxBytes: maxBytes,
	}, nil
}

// Upload stores a PDF under resumes/ using the same hash-of-id naming scheme
// as media files. New resumes start inactive.
func (s *service) Upload(ctx context.Context, data []byte, originalName string) (*models.Resume, error) {
	name := strings.TrimSpace(originalName)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file name is required")
	}
	if len(data) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "upload is empty")
	}
	if int64(len(data)) > s.maxBytes {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("upload exceeds %d bytes", s.maxBytes))
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "resume must be a PDF document")
	}

	id := uuid.New()
	storedName := media.StoredName(id, ".pdf")

	written, err := s.disk.Write(enums.MediaFolderResumes, storedName, bytes.NewReader(data))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persist resume bytes")
	}

	record := &models.Resume{
		ID:           id,
		Filename:     name,
		OriginalName: name,
		StoredName:   storedName,
		MimeType:     pdfMimeType,
		SizeBytes:    written,
		IsActive:     false,
	}
	if _, err := s.repo.Create(ctx, record); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist resume record")
	}
	return record, nil
}

func (s *service) List(ctx context.Context) ([]models.Resume, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list resumes")
	}
	return rows, nil
}

func (s *service) Active(ctx context.Context) (*models.Resume, error) {
	resume, err := s.repo.FindActive(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no active resume")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load active resume")
	}
	return resume, nil
}

func (s *service) Rename(ctx context.Context, id uuid.UUID, filename string) (*models.Resume, error) {
	name := strings.TrimSpace(filename)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "filename is required")
	}
	if _, err := s.mustFind(ctx, id); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateFilename(ctx, id, name); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rename resume")
	}
	return s.mustFind(ctx, id)
}

// Activate flips the target active and every other resume inactive in one
// transaction, so a concurrent reader never sees two active resumes.
func (s *service) Activate(ctx context.Context, id uuid.UUID) (*models.Resume, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "resume id required")
	}
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.ActivateExclusive(tx, id)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "resume not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "activate resume")
	}
	return s.mustFind(ctx, id)
}

// Delete removes the record and its backing file; a missing disk file is
// tolerated the same way media eviction tolerates it.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load resume record")
	}

	if err := s.disk.Remove(enums.MediaFolderResumes, record.StoredName); err != nil {
		logCtx := s.logg.WithField(ctx, "resume_id", record.ID)
		s.logg.Warn(logCtx, fmt.Sprintf("disk cleanup incomplete: %v", err))
	}
	if err := s.repo.Delete(ctx, record.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete resume record")
	}
	return nil
}

func (s *service) Serve(ctx context.Context, id uuid.UUID) (*media.ResolvedFile, error) {
	record, err := s.mustFind(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.stream(ctx, record)
}

func (s *service) ServeActive(ctx context.Context) (*media.ResolvedFile, error) {
	record, err := s.Active(ctx)
	if err != nil {
		return nil, err
	}
	return s.stream(ctx, record)
}

func (s *service) stream(ctx context.Context, record *models.Resume) (*media.ResolvedFile, error) {
	content, size, err := s.disk.Open(enums.MediaFolderResumes, record.StoredName)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logCtx := s.logg.WithFields(ctx, map[string]any{
				"resume_id":   record.ID,
				"stored_name": record.StoredName,
			})
			s.logg.Error(logCtx, "resume record has no backing content on disk", err)
			return nil, pkgerrors.New(pkgerrors.CodeIntegrity, "stored content unavailable")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "open stored resume")
	}
	return &media.ResolvedFile{
		Content:      content,
		MimeType:     record.MimeType,
		OriginalName: record.Filename,
		SizeBytes:    size,
		Folder:       enums.MediaFolderResumes,
	}, nil
}

func (s *service) mustFind(ctx context.Context, id uuid.UUID) (*models.Resume, error) {
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "resume not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load resume record")
	}
	return record, nil
}
