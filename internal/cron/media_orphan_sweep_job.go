package cron

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"

	"github.com/jezzlucena/slatefolio/internal/media"
	"github.com/jezzlucena/slatefolio/pkg/db/models"
	"github.com/jezzlucena/slatefolio/pkg/enums"
	"github.com/jezzlucena/slatefolio/pkg/logger"
)

const defaultOrphanGracePeriod = time.Hour

type sweepDiskStore interface {
	ListFolder(folder enums.MediaFolder) ([]media.DiskEntry, error)
	Remove(folder enums.MediaFolder, storedName string) error
}

type sweepMediaRepo interface {
	ListAll(ctx context.Context) ([]models.File, error)
}

type sweepResumeRepo interface {
	ListAll(ctx context.Context) ([]models.Resume, error)
}

// MediaOrphanSweepJobParams configure the orphan sweep.
type MediaOrphanSweepJobParams struct {
	Logger      *logger.Logger
	Disk        sweepDiskStore
	MediaRepo   sweepMediaRepo
	ResumeRepo  sweepResumeRepo
	GracePeriod time.Duration
}

// NewMediaOrphanSweepJob builds the job reconciling the uploads tree against
// metadata. Disk files with no record are deleted once older than the grace
// period; records with no backing file are logged and left for an operator.
func NewMediaOrphanSweepJob(params MediaOrphanSweepJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Disk == nil {
		return nil, fmt.Errorf("disk store required")
	}
	if params.MediaRepo == nil {
		return nil, fmt.Errorf("media repository required")
	}
	if params.ResumeRepo == nil {
		return nil, fmt.Errorf("resume repository required")
	}
	grace := params.GracePeriod
	if grace <= 0 {
		grace = defaultOrphanGracePeriod
	}
	return &mediaOrphanSweepJob{
		logg:    params.Logger,
		disk:    params.Disk,
		files:   params.MediaRepo,
		resumes: params.ResumeRepo,
		grace:   grace,
		now:     time.Now,
	}, nil
}

type mediaOrphanSweepJob struct {
	logg    *logger.Logger
	disk    sweepDiskStore
	files   sweepMediaRepo
	resumes sweepResumeRepo
	grace   time.Duration
	now     func() time.Time
}

func (j *mediaOrphanSweepJob) Name() string { return "media-orphan-sweep" }

func (j *mediaOrphanSweepJob) Run(ctx context.Context) error {
	expected, err := j.expectedNames(ctx)
	if err != nil {
		return err
	}
	cutoff := j.now().UTC().Add(-j.grace)

	var (
		deleted int
		kept    int
		sweep   error
	)
	onDisk := make(map[enums.MediaFolder]map[string]struct{})
	for _, folder := range []enums.MediaFolder{
		enums.MediaFolderImages,
		enums.MediaFolderVideos,
		enums.MediaFolderResumes,
	} {
		entries, err := j.disk.ListFolder(folder)
		if err != nil {
			sweep = multierr.Append(sweep, fmt.Errorf("list %s: %w", folder, err))
			continue
		}
		present := make(map[string]struct{}, len(entries))
		for _, entry := range entries {
			present[entry.StoredName] = struct{}{}
			if _, ok := expected[folder][entry.StoredName]; ok {
				continue
			}
			// Recent strays may belong to an ingest still in flight.
			if entry.ModTime.After(cutoff) {
				kept++
				continue
			}
			if err := j.disk.Remove(folder, entry.StoredName); err != nil {
				sweep = multierr.Append(sweep, fmt.Errorf("remove %s/%s: %w", folder, entry.StoredName, err))
				continue
			}
			deleted++
		}
		onDisk[folder] = present
	}

	missing := j.reportMissingFiles(ctx, expected, onDisk)

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"grace":           j.grace.String(),
		"orphans_deleted": deleted,
		"orphans_kept":    kept,
		"records_missing": missing,
	})
	j.logg.Info(logCtx, "media orphan sweep complete")
	return sweep
}

func (j *mediaOrphanSweepJob) expectedNames(ctx context.Context) (map[enums.MediaFolder]map[string]struct{}, error) {
	expected := map[enums.MediaFolder]map[string]struct{}{
		enums.MediaFolderImages:  {},
		enums.MediaFolderVideos:  {},
		enums.MediaFolderResumes: {},
	}

	files, err := j.files.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list media records: %w", err)
	}
	for _, file := range files {
		if _, ok := expected[file.Folder]; !ok {
			expected[file.Folder] = map[string]struct{}{}
		}
		expected[file.Folder][file.StoredName] = struct{}{}
	}

	resumes, err := j.resumes.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list resume records: %w", err)
	}
	for _, resume := range resumes {
		expected[enums.MediaFolderResumes][resume.StoredName] = struct{}{}
	}
	return expected, nil
}

// reportMissingFiles logs records whose backing file vanished. Deleting the
// metadata automatically would destroy the only pointer an operator has for
// restoring from backup, so the sweep only raises the alarm.
func (j *mediaOrphanSweepJob) reportMissingFiles(ctx context.Context, expected, onDisk map[enums.MediaFolder]map[string]struct{}) int {
	missing := 0
	for folder, names := range expected {
		present, scanned := onDisk[folder]
		if !scanned {
			// The folder listing failed; absence proves nothing.
			continue
		}
		for storedName := range names {
			if _, ok := present[storedName]; ok {
				continue
			}
			missing++
			logCtx := j.logg.WithFields(ctx, map[string]any{
				"folder":      folder.String(),
				"stored_name": storedName,
			})
			j.logg.Warn(logCtx, "metadata record has no backing file")
		}
	}
	return missing
}
