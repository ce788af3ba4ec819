package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/jezzlucena/slatefolio/api/responses"
	"github.com/jezzlucena/slatefolio/internal/media"
	pkgerrors "github.com/jezzlucena/slatefolio/pkg/errors"
	"github.com/jezzlucena/slatefolio/pkg/logger"
)

// Stored content is immutable: ids are minted per upload and never reused,
// so clients may cache resolved files for a year.
const immutableCacheControl = "public, max-age=31536000, immutable"

// FileServe streams a stored file by id with long-lived cache headers.
func FileServe(svc media.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid file id"))
			return
		}

		resolved, err := svc.Resolve(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		defer resolved.Content.Close()

		writeResolvedFile(w, resolved)
	}
}

func writeResolvedFile(w http.ResponseWriter, resolved *media.ResolvedFile) {
	w.Header().Set("Content-Type", resolved.MimeType)
	w.Header().Set("Content-Length", strconv.FormatInt(resolved.SizeBytes, 10))
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", resolved.OriginalName))
	w.Header().Set("Cache-Control", immutableCacheControl)
	_, _ = io.Copy(w, resolved.Content)
}

type uploadResponse struct {
	ID          uuid.UUID  `json:"id"`
	URL         string     `json:"url"`
	ThumbID     *uuid.UUID `json:"thumbId,omitempty"`
	ThumbURL    *string    `json:"thumbUrl,omitempty"`
	OriginalID  *uuid.UUID `json:"originalId,omitempty"`
	OriginalURL *string    `json:"originalUrl,omitempty"`
	AspectRatio *float64   `json:"aspectRatio,omitempty"`
	MimeType    string     `json:"mimeType"`
	SizeBytes   int64      `json:"sizeBytes"`
}

func fileURL(id uuid.UUID) string {
	return "/files/" + id.String()
}

// AdminUpload accepts a multipart upload and ingests it into the media store.
func AdminUpload(svc media.Service, maxBytes int64, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		file, header, err := openMultipartFile(r, maxBytes)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read upload"))
			return
		}

		result, err := svc.Ingest(r.Context(), media.IngestInput{
			Data:             data,
			DeclaredMimeType: header.Header.Get("Content-Type"),
			OriginalName:     header.Filename,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resp := uploadResponse{
			ID:          result.FileID,
			URL:         fileURL(result.FileID),
			ThumbID:     result.ThumbID,
			OriginalID:  result.OriginalID,
			AspectRatio: result.AspectRatio,
			MimeType:    result.MimeType,
			SizeBytes:   result.SizeBytes,
		}
		if result.ThumbID != nil {
			u := fileURL(*result.ThumbID)
			resp.ThumbURL = &u
		}
		if result.OriginalID != nil {
			u := fileURL(*result.OriginalID)
			resp.OriginalURL = &u
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, resp)
	}
}

type uploadDeleteRequest struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// AdminUploadDelete evicts a stored file, addressed by id or by its public URL.
func AdminUploadDelete(svc media.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload uploadDeleteRequest
		// Tolerate both query-string and body addressing.
		if q := r.URL.Query().Get("id"); q != "" {
			payload.ID = q
		} else if q := r.URL.Query().Get("url"); q != "" {
			payload.URL = q
		} else if err := decodeLooseJSON(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		raw := payload.ID
		if raw == "" {
			raw = strings.TrimPrefix(strings.TrimSpace(payload.URL), "/files/")
		}
		id, err := uuid.Parse(strings.TrimSpace(raw))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "id or url is required"))
			return
		}

		evicted, err := svc.Evict(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"evicted": evicted})
	}
}

func decodeLooseJSON(r *http.Request, dest any) error {
	defer func() {
		io.Copy(io.Discard, r.Body)
	}()
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid request body")
	}
	return nil
}

func openMultipartFile(r *http.Request, maxBytes int64) (multipart.File, *multipart.FileHeader, error) {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBytes+1024*1024)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart payload")
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "file field is required")
	}
	return file, header, nil
}
