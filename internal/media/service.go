package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/jezzlucena/slatefolio/pkg/db/models"
	"github.com/jezzlucena/slatefolio/pkg/enums"
	pkgerrors "github.com/jezzlucena/slatefolio/pkg/errors"
	"github.com/jezzlucena/slatefolio/pkg/logger"
	"github.com/jezzlucena/slatefolio/pkg/metrics"
)

const webpMimeType = "image/webp"

type fileRepository interface {
	Create(ctx context.Context, file *models.File) (*models.File, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.File, error)
	FindChildren(ctx context.Context, parentID uuid.UUID) ([]models.File, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type diskStore interface {
	Write(folder enums.MediaFolder, storedName string, r io.Reader) (int64, error)
	Open(folder enums.MediaFolder, storedName string) (io.ReadCloser, int64, error)
	Remove(folder enums.MediaFolder, storedName string) error
}

// Service exposes the upload/serve/delete lifecycle for media files.
type Service interface {
	Ingest(ctx context.Context, input IngestInput) (*IngestResult, error)
	Resolve(ctx context.Context, id uuid.UUID) (*ResolvedFile, error)
	Evict(ctx context.Context, id uuid.UUID) (int, error)
}

type service struct {
	repo     fileRepository
	disk     diskStore
	logg     *logger.Logger
	metrics  *metrics.MediaMetrics
	maxBytes int64
}

// NewService constructs the media service over the metadata repository and
// disk store. The metrics collector may be nil.
func NewService(repo fileRepository, disk diskStore, logg *logger.Logger, mm *metrics.MediaMetrics, maxBytes int64) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("file repository required")
	}
	if disk == nil {
		return nil, fmt.Errorf("disk store required")
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
		logg:     logg,
		metrics:  mm,
		maxBytes: maxBytes,
	}, nil
}

// IngestInput models one uploaded binary plus its declared metadata.
type IngestInput struct {
	Data             []byte
	DeclaredMimeType string
	OriginalName     string
}

// IngestResult maps logical roles to the ids of the records created for one
// upload. FileID is the externally-referenced id: the optimized variant for
// images, the sole record for videos.
type IngestResult struct {
	FileID      uuid.UUID
	ThumbID     *uuid.UUID
	OriginalID  *uuid.UUID
	AspectRatio *float64
	Folder      enums.MediaFolder
	MimeType    string
	SizeBytes   int64
}

// ResolvedFile streams one stored variant. Callers own closing Content.
type ResolvedFile struct {
	Content      io.ReadCloser
	MimeType     string
	OriginalName string
	SizeBytes    int64
	Folder       enums.MediaFolder
}

func (s *service) Ingest(ctx context.Context, input IngestInput) (*IngestResult, error) {
	originalName := strings.TrimSpace(input.OriginalName)
	if originalName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file name is required")
	}
	if len(input.Data) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "upload is empty")
	}
	if int64(len(input.Data)) > s.maxBytes {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("upload exceeds %d bytes", s.maxBytes))
	}

	mimeType, err := SniffMimeType(input.DeclaredMimeType)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "content type")
	}
	folder, ok := FolderForMime(mimeType)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "content type not allowed")
	}

	switch folder {
	case enums.MediaFolderImages:
		return s.ingestImage(ctx, input.Data, mimeType, originalName)
	default:
		return s.ingestVideo(ctx, input.Data, mimeType, originalName)
	}
}

// ingestImage derives the optimized and thumb renditions, plus a
// byte-preserved original for animated sources. Variants are written
// strictly in order because thumb/original records link back to the
// optimized record's id. A failure mid-way leaves earlier variants in
// place; the reconciliation sweep reclaims any resulting orphans.
func (s *service) ingestImage(ctx context.Context, data []byte, mimeType, originalName string) (*IngestResult, error) {
	derived, err := deriveImageVariants(data)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "image payload unreadable")
	}

	aspect := derived.AspectRatio
	optimizedVariant := enums.MediaVariantOptimized
	optimized, err := s.storeRecord(ctx, storeParams{
		data:         derived.Optimized,
		folder:       enums.MediaFolderImages,
		ext:          ".webp",
		mimeType:     webpMimeType,
		originalName: originalName,
		variant:      &optimizedVariant,
		aspectRatio:  &aspect,
	})
	if err != nil {
		return nil, err
	}

	thumbVariant := enums.MediaVariantThumb
	thumb, err := s.storeRecord(ctx, storeParams{
		data:         derived.Thumb,
		folder:       enums.MediaFolderImages,
		ext:          ".webp",
		mimeType:     webpMimeType,
		originalName: originalName,
		variant:      &thumbVariant,
		parentID:     &optimized.ID,
	})
	if err != nil {
		return nil, err
	}

	result := &IngestResult{
		FileID:      optimized.ID,
		ThumbID:     &thumb.ID,
		AspectRatio: &aspect,
		Folder:      enums.MediaFolderImages,
		MimeType:    webpMimeType,
		SizeBytes:   optimized.SizeBytes,
	}

	// Re-encoding destroys animation, so animated sources keep their raw
	// bytes as a third record.
	if mimeType == "image/gif" {
		originalVariant := enums.MediaVariantOriginal
		original, err := s.storeRecord(ctx, storeParams{
			data:         data,
			folder:       enums.MediaFolderImages,
			ext:          ".gif",
			mimeType:     mimeType,
			originalName: originalName,
			variant:      &originalVariant,
			parentID:     &optimized.ID,
		})
		if err != nil {
			return nil, err
		}
		result.OriginalID = &original.ID
	}

	return result, nil
}

func (s *service) ingestVideo(ctx context.Context, data []byte, mimeType, originalName string) (*IngestResult, error) {
	record, err := s.storeRecord(ctx, storeParams{
		data:         data,
		folder:       enums.MediaFolderVideos,
		ext:          ExtensionForMime(mimeType),
		mimeType:     mimeType,
		originalName: originalName,
	})
	if err != nil {
		return nil, err
	}
	return &IngestResult{
		FileID:    record.ID,
		Folder:    enums.MediaFolderVideos,
		MimeType:  mimeType,
		SizeBytes: record.SizeBytes,
	}, nil
}

type storeParams struct {
	data         []byte
	folder       enums.MediaFolder
	ext          string
	mimeType     string
	originalName string
	variant      *enums.MediaVariant
	parentID     *uuid.UUID
	aspectRatio  *float64
}

// storeRecord mints the id, derives the stored name from it, writes the
// bytes, then persists the metadata row. The id is never reused, so stored
// names stay unique across the lifetime of the store.
func (s *service) storeRecord(ctx context.Context, params storeParams) (*models.File, error) {
	id := uuid.New()
	storedName := StoredName(id, params.ext)

	written, err := s.disk.Write(params.folder, storedName, bytes.NewReader(params.data))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persist file bytes")
	}

	record := &models.File{
		ID:           id,
		OriginalName: params.originalName,
		StoredName:   storedName,
		MimeType:     params.mimeType,
		SizeBytes:    written,
		Folder:       params.folder,
		Variant:      params.variant,
		ParentFileID: params.parentID,
		AspectRatio:  params.aspectRatio,
	}
	if _, err := s.repo.Create(ctx, record); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist file record")
	}

	variantLabel := ""
	if params.variant != nil {
		variantLabel = params.variant.String()
	}
	s.metrics.IncIngested(params.folder.String(), variantLabel)

	return record, nil
}

func (s *service) Resolve(ctx context.Context, id uuid.UUID) (*ResolvedFile, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file id required")
	}

	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "file not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load file record")
	}

	content, size, err := s.disk.Open(record.Folder, record.StoredName)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.metrics.IncIntegrityError()
			logCtx := s.logg.WithFields(ctx, map[string]any{
				"file_id":     record.ID,
				"stored_name": record.StoredName,
				"folder":      record.Folder,
			})
			s.logg.Error(logCtx, "file record has no backing content on disk", err)
			return nil, pkgerrors.New(pkgerrors.CodeIntegrity, "stored content unavailable")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "open stored file")
	}

	s.metrics.IncServed(record.Folder.String())

	return &ResolvedFile{
		Content:      content,
		MimeType:     record.MimeType,
		OriginalName: record.OriginalName,
		SizeBytes:    size,
		Folder:       record.Folder,
	}, nil
}

// Evict removes the record, its backing file, and every sibling pointing at
// it via parent_file_id — children before parent, so an interrupted run
// never leaves a child referencing a deleted parent. Unknown ids are a
// no-op. Missing disk files are tolerated; other disk errors are logged and
// do not block metadata removal.
func (s *service) Evict(ctx context.Context, id uuid.UUID) (int, error) {
	if id == uuid.Nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "file id required")
	}

	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load file record")
	}

	children, err := s.repo.FindChildren(ctx, record.ID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list sibling records")
	}

	deleted := 0
	var diskErrs error
	for _, child := range children {
		if err := s.disk.Remove(child.Folder, child.StoredName); err != nil {
			diskErrs = multierr.Append(diskErrs, fmt.Errorf("remove %s: %w", child.StoredName, err))
		}
		if err := s.repo.Delete(ctx, child.ID); err != nil {
			return deleted, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete sibling record")
		}
		deleted++
		s.metrics.IncEvicted(child.Folder.String())
	}

	if err := s.disk.Remove(record.Folder, record.StoredName); err != nil {
		diskErrs = multierr.Append(diskErrs, fmt.Errorf("remove %s: %w", record.StoredName, err))
	}
	if err := s.repo.Delete(ctx, record.ID); err != nil {
		return deleted, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete file record")
	}
	deleted++
	s.metrics.IncEvicted(record.Folder.String())

	if diskErrs != nil {
		logCtx := s.logg.WithField(ctx, "file_id", record.ID)
		s.logg.Warn(logCtx, fmt.Sprintf("disk cleanup incomplete: %v", diskErrs))
	}

	return deleted, nil
}
