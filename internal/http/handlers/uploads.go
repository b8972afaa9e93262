package handlers

import (
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/google/uuid"
)

const maxUploadBytes = 8 << 20

var uploadExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// UploadImage accepts a multipart image upload and stores it under the
// authenticated user's prefix. The returned key can be attached to a case
// or a case update.
func (a *App) UploadImage(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	if a.Uploads == nil {
		a.error(w, http.StatusServiceUnavailable, "storage_unavailable", "upload storage is not configured")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "multipart field 'file' is required")
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "failed to read upload")
		return
	}
	ext, ok := uploadExtensions[http.DetectContentType(data)]
	if !ok {
		// Fall back to the client-supplied name for formats the sniffer
		// cannot identify from a short prefix.
		ext = strings.ToLower(path.Ext(header.Filename))
		switch ext {
		case ".jpg", ".jpeg", ".png", ".webp", ".gif":
		default:
			a.error(w, http.StatusUnsupportedMediaType, "unsupported_media", "only jpeg, png, webp and gif images are accepted")
			return
		}
	}
	key := "uploads/" + userID + "/" + uuid.NewString() + ext
	storedKey, err := a.Uploads.Write(r.Context(), key, data)
	if err != nil {
		a.Logger.Error().Err(err).Str("key", key).Msg("upload write failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to store upload")
		return
	}
	a.json(w, http.StatusCreated, map[string]any{
		"key": storedKey,
		"url": a.Images.URL(storedKey),
	})
}
