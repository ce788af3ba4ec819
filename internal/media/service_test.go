package media

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/chai2010/webp"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/jezzlucena/slatefolio/pkg/db/models"
	"github.com/jezzlucena/slatefolio/pkg/enums"
	pkgerrors "github.com/jezzlucena/slatefolio/pkg/errors"
	"github.com/jezzlucena/slatefolio/pkg/logger"
	"github.com/rs/zerolog"
)

func newTestService(t *testing.T) (Service, *Repository, *DiskStore, string) {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&models.File{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	root := t.TempDir()
	disk, err := NewDiskStore(root)
	if err != nil {
		t.Fatalf("new disk store: %v", err)
	}
	if err := disk.EnsureDirs(); err != nil {
		t.Fatalf("ensure dirs: %v", err)
	}

	logg := logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled, Output: io.Discard})
	repo := NewRepository(conn)
	svc, err := NewService(repo, disk, logg, nil, 8*1024*1024)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, repo, disk, root
}

func makeJPEG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x += 10 {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		t.Fatalf("encode jpeg: %v", err)
	}
	return buf.Bytes()
}

func makeAnimatedGIF(t *testing.T) []byte {
	t.Helper()
	palette := color.Palette{color.White, color.Black, color.RGBA{R: 255, A: 255}}
	anim := &gif.GIF{}
	for frame := 0; frame < 2; frame++ {
		paletted := image.NewPaletted(image.Rect(0, 0, 60, 40), palette)
		for x := 0; x < 60; x++ {
			paletted.SetColorIndex(x, frame*10, uint8(1+frame))
		}
		anim.Image = append(anim.Image, paletted)
		anim.Delay = append(anim.Delay, 10)
	}
	var buf bytes.Buffer
	if err := gif.EncodeAll(&buf, anim); err != nil {
		t.Fatalf("encode gif: %v", err)
	}
	return buf.Bytes()
}

func TestIngestJPEGCreatesOptimizedAndThumb(t *testing.T) {
	svc, repo, _, root := newTestService(t)
	ctx := context.Background()

	result, err := svc.Ingest(ctx, IngestInput{
		Data:             makeJPEG(t, 1200, 800),
		DeclaredMimeType: "image/jpeg",
		OriginalName:     "hero.jpg",
	})
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}

	if result.OriginalID != nil {
		t.Fatalf("jpeg upload should not keep an original variant")
	}
	if result.ThumbID == nil {
		t.Fatal("expected thumb record")
	}
	if result.MimeType != "image/webp" {
		t.Fatalf("expected webp mime, got %s", result.MimeType)
	}
	if result.AspectRatio == nil {
		t.Fatal("expected aspect ratio on result")
	}
	if ratio := *result.AspectRatio; ratio < 0.66 || ratio > 0.68 {
		t.Fatalf("expected aspect ratio near 0.667, got %f", ratio)
	}

	optimized, err := repo.FindByID(ctx, result.FileID)
	if err != nil {
		t.Fatalf("find optimized: %v", err)
	}
	if optimized.Variant == nil || *optimized.Variant != enums.MediaVariantOptimized {
		t.Fatalf("unexpected optimized variant %v", optimized.Variant)
	}
	if optimized.AspectRatio == nil {
		t.Fatal("optimized record must carry aspect ratio")
	}
	if optimized.ParentFileID != nil {
		t.Fatal("optimized record must not have a parent")
	}

	thumb, err := repo.FindByID(ctx, *result.ThumbID)
	if err != nil {
		t.Fatalf("find thumb: %v", err)
	}
	if thumb.ParentFileID == nil || *thumb.ParentFileID != optimized.ID {
		t.Fatalf("thumb must link to optimized, got %v", thumb.ParentFileID)
	}
	if thumb.AspectRatio != nil {
		t.Fatal("thumb record must not carry aspect ratio")
	}

	thumbBytes, err := os.ReadFile(filepath.Join(root, "images", thumb.StoredName))
	if err != nil {
		t.Fatalf("read thumb from disk: %v", err)
	}
	thumbImg, err := webp.Decode(bytes.NewReader(thumbBytes))
	if err != nil {
		t.Fatalf("decode thumb webp: %v", err)
	}
	if width := thumbImg.Bounds().Dx(); width > 400 {
		t.Fatalf("thumb width must be <= 400, got %d", width)
	}
}

func TestIngestSmallImageNeverUpscales(t *testing.T) {
	svc, repo, _, root := newTestService(t)
	ctx := context.Background()

	result, err := svc.Ingest(ctx, IngestInput{
		Data:             makeJPEG(t, 200, 150),
		DeclaredMimeType: "image/jpeg",
		OriginalName:     "small.jpg",
	})
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}

	thumb, err := repo.FindByID(ctx, *result.ThumbID)
	if err != nil {
		t.Fatalf("find thumb: %v", err)
	}
	thumbBytes, err := os.ReadFile(filepath.Join(root, "images", thumb.StoredName))
	if err != nil {
		t.Fatalf("read thumb: %v", err)
	}
	thumbImg, err := webp.Decode(bytes.NewReader(thumbBytes))
	if err != nil {
		t.Fatalf("decode thumb: %v", err)
	}
	if width := thumbImg.Bounds().Dx(); width != 200 {
		t.Fatalf("expected thumb to keep 200px width, got %d", width)
	}
}

func TestIngestGIFKeepsOriginalBytes(t *testing.T) {
	svc, repo, _, root := newTestService(t)
	ctx := context.Background()
	source := makeAnimatedGIF(t)

	result, err := svc.Ingest(ctx, IngestInput{
		Data:             source,
		DeclaredMimeType: "image/gif",
		OriginalName:     "loop.gif",
	})
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if result.OriginalID == nil {
		t.Fatal("gif upload must keep an original record")
	}

	original, err := repo.FindByID(ctx, *result.OriginalID)
	if err != nil {
		t.Fatalf("find original: %v", err)
	}
	if original.ParentFileID == nil || *original.ParentFileID != result.FileID {
		t.Fatal("original must link to optimized record")
	}
	if original.AspectRatio != nil {
		t.Fatal("original record must not carry aspect ratio")
	}
	if original.MimeType != "image/gif" {
		t.Fatalf("original mime must stay image/gif, got %s", original.MimeType)
	}

	stored, err := os.ReadFile(filepath.Join(root, "images", original.StoredName))
	if err != nil {
		t.Fatalf("read original: %v", err)
	}
	if !bytes.Equal(stored, source) {
		t.Fatal("original bytes must be preserved exactly")
	}
}

func TestIngestVideoSingleRecord(t *testing.T) {
	svc, repo, _, _ := newTestService(t)
	ctx := context.Background()

	payload := []byte("not really mp4 but stored verbatim")
	result, err := svc.Ingest(ctx, IngestInput{
		Data:             payload,
		DeclaredMimeType: "video/mp4",
		OriginalName:     "demo.mp4",
	})
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if result.ThumbID != nil || result.OriginalID != nil || result.AspectRatio != nil {
		t.Fatal("video upload must produce exactly one record")
	}
	if result.Folder != enums.MediaFolderVideos {
		t.Fatalf("expected videos folder, got %s", result.Folder)
	}

	record, err := repo.FindByID(ctx, result.FileID)
	if err != nil {
		t.Fatalf("find record: %v", err)
	}
	if record.Variant != nil {
		t.Fatalf("video record must not be variant-tagged, got %v", record.Variant)
	}
	if record.SizeBytes != int64(len(payload)) {
		t.Fatalf("expected size %d, got %d", len(payload), record.SizeBytes)
	}
}

func TestIngestValidation(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		input IngestInput
	}{
		{"disallowed mime", IngestInput{Data: []byte("x"), DeclaredMimeType: "application/zip", OriginalName: "a.zip"}},
		{"empty payload", IngestInput{Data: nil, DeclaredMimeType: "image/png", OriginalName: "a.png"}},
		{"missing name", IngestInput{Data: []byte("x"), DeclaredMimeType: "image/png", OriginalName: "  "}},
		{"corrupt image", IngestInput{Data: []byte("definitely not an image"), DeclaredMimeType: "image/png", OriginalName: "a.png"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Ingest(ctx, tc.input)
			if err == nil {
				t.Fatal("expected validation error")
			}
			coded := pkgerrors.As(err)
			if coded == nil || coded.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation code, got %v", err)
			}
		})
	}
}

func TestIngestOversizedPayload(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	_, err := svc.Ingest(context.Background(), IngestInput{
		Data:             make([]byte, 9*1024*1024),
		DeclaredMimeType: "video/mp4",
		OriginalName:     "big.mp4",
	})
	if err == nil {
		t.Fatal("expected size ceiling error")
	}
	coded := pkgerrors.As(err)
	if coded == nil || coded.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation code, got %v", err)
	}
}

func TestResolveRoundTrip(t *testing.T) {
	svc, repo, _, root := newTestService(t)
	ctx := context.Background()

	result, err := svc.Ingest(ctx, IngestInput{
		Data:             makeJPEG(t, 640, 480),
		DeclaredMimeType: "image/jpeg",
		OriginalName:     "photo.jpg",
	})
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}

	resolved, err := svc.Resolve(ctx, result.FileID)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	defer resolved.Content.Close()

	if resolved.MimeType != "image/webp" {
		t.Fatalf("expected webp content type, got %s", resolved.MimeType)
	}
	if resolved.OriginalName != "photo.jpg" {
		t.Fatalf("expected original name preserved, got %s", resolved.OriginalName)
	}

	streamed, err := io.ReadAll(resolved.Content)
	if err != nil {
		t.Fatalf("read stream: %v", err)
	}
	record, err := repo.FindByID(ctx, result.FileID)
	if err != nil {
		t.Fatalf("find record: %v", err)
	}
	if int64(len(streamed)) != record.SizeBytes || resolved.SizeBytes != record.SizeBytes {
		t.Fatalf("stream length %d disagrees with recorded size %d", len(streamed), record.SizeBytes)
	}
	onDisk, err := os.ReadFile(filepath.Join(root, "images", record.StoredName))
	if err != nil {
		t.Fatalf("read disk: %v", err)
	}
	if !bytes.Equal(streamed, onDisk) {
		t.Fatal("streamed bytes must match stored bytes")
	}
}

func TestResolveNotFound(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	_, err := svc.Resolve(context.Background(), uuid.New())
	if err == nil {
		t.Fatal("expected not found")
	}
	coded := pkgerrors.As(err)
	if coded == nil || coded.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not-found code, got %v", err)
	}
}

func TestResolveMissingDiskFileIsIntegrityError(t *testing.T) {
	svc, repo, _, root := newTestService(t)
	ctx := context.Background()

	result, err := svc.Ingest(ctx, IngestInput{
		Data:             makeJPEG(t, 640, 480),
		DeclaredMimeType: "image/jpeg",
		OriginalName:     "photo.jpg",
	})
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	record, err := repo.FindByID(ctx, result.FileID)
	if err != nil {
		t.Fatalf("find record: %v", err)
	}
	if err := os.Remove(filepath.Join(root, "images", record.StoredName)); err != nil {
		t.Fatalf("remove backing file: %v", err)
	}

	_, err = svc.Resolve(ctx, result.FileID)
	if err == nil {
		t.Fatal("expected integrity error")
	}
	coded := pkgerrors.As(err)
	if coded == nil || coded.Code() != pkgerrors.CodeIntegrity {
		t.Fatalf("expected integrity code, got %v", err)
	}
}

func TestEvictCascadeRemovesAllVariants(t *testing.T) {
	svc, repo, _, root := newTestService(t)
	ctx := context.Background()

	result, err := svc.Ingest(ctx, IngestInput{
		Data:             makeAnimatedGIF(t),
		DeclaredMimeType: "image/gif",
		OriginalName:     "loop.gif",
	})
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}

	ids := []uuid.UUID{result.FileID, *result.ThumbID, *result.OriginalID}
	storedNames := make([]string, 0, len(ids))
	for _, id := range ids {
		record, err := repo.FindByID(ctx, id)
		if err != nil {
			t.Fatalf("find record %s: %v", id, err)
		}
		storedNames = append(storedNames, record.StoredName)
	}

	deleted, err := svc.Evict(ctx, result.FileID)
	if err != nil {
		t.Fatalf("evict: %v", err)
	}
	if deleted != 3 {
		t.Fatalf("expected 3 records removed, got %d", deleted)
	}

	for _, id := range ids {
		_, err := svc.Resolve(ctx, id)
		coded := pkgerrors.As(err)
		if coded == nil || coded.Code() != pkgerrors.CodeNotFound {
			t.Fatalf("expected not-found after evict for %s, got %v", id, err)
		}
	}
	for _, name := range storedNames {
		if _, err := os.Stat(filepath.Join(root, "images", name)); !os.IsNotExist(err) {
			t.Fatalf("expected %s removed from disk, stat err=%v", name, err)
		}
	}
}

func TestEvictIsIdempotent(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	result, err := svc.Ingest(ctx, IngestInput{
		Data:             makeJPEG(t, 640, 480),
		DeclaredMimeType: "image/jpeg",
		OriginalName:     "photo.jpg",
	})
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}

	if _, err := svc.Evict(ctx, result.FileID); err != nil {
		t.Fatalf("first evict: %v", err)
	}
	deleted, err := svc.Evict(ctx, result.FileID)
	if err != nil {
		t.Fatalf("second evict must be a no-op, got %v", err)
	}
	if deleted != 0 {
		t.Fatalf("expected 0 deletions on second evict, got %d", deleted)
	}

	// Ids that were never issued behave the same way.
	if _, err := svc.Evict(ctx, uuid.New()); err != nil {
		t.Fatalf("evict of unknown id must succeed, got %v", err)
	}
}

func TestEvictToleratesMissingDiskFiles(t *testing.T) {
	svc, repo, _, root := newTestService(t)
	ctx := context.Background()

	result, err := svc.Ingest(ctx, IngestInput{
		Data:             makeJPEG(t, 640, 480),
		DeclaredMimeType: "image/jpeg",
		OriginalName:     "photo.jpg",
	})
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	record, err := repo.FindByID(ctx, result.FileID)
	if err != nil {
		t.Fatalf("find record: %v", err)
	}
	if err := os.Remove(filepath.Join(root, "images", record.StoredName)); err != nil {
		t.Fatalf("remove backing file: %v", err)
	}

	if _, err := svc.Evict(ctx, result.FileID); err != nil {
		t.Fatalf("evict with missing disk file must succeed, got %v", err)
	}
}
