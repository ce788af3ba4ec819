package media

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/jezzlucena/slatefolio/pkg/enums"
)

// DiskStore owns the uploads directory tree. All physical filenames are
// stored names produced by StoredName; originalName never reaches the disk.
type DiskStore struct {
	root string
}

// NewDiskStore builds a store rooted at the provided uploads directory.
func NewDiskStore(root string) (*DiskStore, error) {
	if root == "" {
		return nil, fmt.Errorf("uploads root is required")
	}
	return &DiskStore{root: root}, nil
}

// EnsureDirs creates the uploads root and its per-folder subdirectories.
func (d *DiskStore) EnsureDirs() error {
	for _, folder := range []enums.MediaFolder{
		enums.MediaFolderImages,
		enums.MediaFolderVideos,
		enums.MediaFolderResumes,
	} {
		if err := os.MkdirAll(d.folderPath(folder), 0o755); err != nil {
			return fmt.Errorf("mkdir %s: %w", folder, err)
		}
	}
	return nil
}

// Write persists the reader's bytes under folder/storedName and returns the
// byte count written.
func (d *DiskStore) Write(folder enums.MediaFolder, storedName string, r io.Reader) (int64, error) {
	path := d.filePath(folder, storedName)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", path, err)
	}
	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return 0, fmt.Errorf("write %s: %w", path, err)
	}
	return n, nil
}

// Open returns a streaming reader for the stored file plus its size.
// Callers own closing the reader. A missing file surfaces as os.ErrNotExist.
func (d *DiskStore) Open(folder enums.MediaFolder, storedName string) (io.ReadCloser, int64, error) {
	path := d.filePath(folder, storedName)
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, 0, err
	}
	return f, info.Size(), nil
}

// Exists reports whether the stored file is present on disk.
func (d *DiskStore) Exists(folder enums.MediaFolder, storedName string) (bool, error) {
	_, err := os.Stat(d.filePath(folder, storedName))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// Remove deletes the stored file, treating "already absent" as success.
func (d *DiskStore) Remove(folder enums.MediaFolder, storedName string) error {
	err := os.Remove(d.filePath(folder, storedName))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// ListFolder returns the stored names present in the folder with their
// modification times, for reconciliation against metadata records.
func (d *DiskStore) ListFolder(folder enums.MediaFolder) ([]DiskEntry, error) {
	entries, err := os.ReadDir(d.folderPath(folder))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	out := make([]DiskEntry, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, err
		}
		out = append(out, DiskEntry{
			StoredName: e.Name(),
			ModTime:    info.ModTime(),
			SizeBytes:  info.Size(),
		})
	}
	return out, nil
}

// DiskEntry describes one physical file found during a folder scan.
type DiskEntry struct {
	StoredName string
	ModTime    time.Time
	SizeBytes  int64
}

func (d *DiskStore) folderPath(folder enums.MediaFolder) string {
	return filepath.Join(d.root, folder.String())
}

func (d *DiskStore) filePath(folder enums.MediaFolder, storedName string) string {
	// storedName is hash-derived, but Base guards against crafted values
	// reaching us through the metadata layer.
	return filepath.Join(d.folderPath(folder), filepath.Base(storedName))
}
