package handlers

import (
	"fmt"
	"io"
	"math/rand"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"lexipic-backend/internal/middleware"
	"lexipic-backend/internal/repository"
	"lexipic-backend/internal/services"
)

const maxImageSize = 5 << 20 // 5MB

type ImageHandler struct {
	flashRepo   *repository.FlashcardRepo
	userRepo    *repository.UserRepo
	detector    *services.DetectorService
	storagePath string
}

func NewImageHandler(flashRepo *repository.FlashcardRepo, userRepo *repository.UserRepo, detector *services.DetectorService, storagePath string) *ImageHandler {
	return &ImageHandler{
		flashRepo:   flashRepo,
		userRepo:    userRepo,
		detector:    detector,
		storagePath: storagePath,
	}
}

// Upload stores an image and returns its URL, to be referenced by flashcard
// creation or generation requests.
func (h *ImageHandler) Upload(w http.ResponseWriter, r *http.Request) {
	path, err := h.saveUpload(w, r, "upload")
	if err != nil {
		return // saveUpload already wrote the error response
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"image_url": "/uploads/" + filepath.Base(path),
	})
}

// Analyze stores the image, asks the detector service what is in it, and
// returns a flashcard matching the primary detected object.
func (h *ImageHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	path, err := h.saveUpload(w, r, "analyzed")
	if err != nil {
		return
	}

	objects, confidence, err := h.detector.DetectObjects(r.Context(), path)
	if err != nil {
		writeJSON(w, http.StatusBadGateway, errorResp("DETECTOR_ERROR", "Failed to analyze image", r))
		return
	}
	if len(objects) == 0 {
		writeJSON(w, http.StatusNotFound, errorResp("NO_OBJECTS", "No objects detected in image", r))
		return
	}

	// Prefer a card matching the primary detection, fall back to any card.
	matches, err := h.flashRepo.FindByObjectName(r.Context(), objects[0], 5)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to look up flashcards", r))
		return
	}
	if len(matches) == 0 {
		matches, err = h.flashRepo.FindCandidates(r.Context(), "", nil, 0)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to look up flashcards", r))
			return
		}
	}
	if len(matches) == 0 {
		writeJSON(w, http.StatusNotFound, errorResp("NO_FLASHCARDS", "No flashcards available in database", r))
		return
	}

	flashcard := matches[rand.Intn(len(matches))]

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"flashcard":        flashcard,
		"detected_objects": objects,
		"confidence":       confidence,
	})
}

// UpdateAvatar stores a new avatar image for the authenticated user.
func (h *ImageHandler) UpdateAvatar(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	path, err := h.saveUpload(w, r, "avatar")
	if err != nil {
		return
	}

	avatarURL := "/uploads/" + filepath.Base(path)
	if err := h.userRepo.UpdateAvatar(r.Context(), userID, avatarURL); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to update avatar", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Avatar updated successfully",
		"avatar":  avatarURL,
	})
}

// saveUpload reads the "image" multipart field, enforces the size and type
// limits, and writes the file under the storage path. On failure it writes
// the error response and returns a non-nil error.
func (h *ImageHandler) saveUpload(w http.ResponseWriter, r *http.Request, prefix string) (string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImageSize)
	if err := r.ParseMultipartForm(maxImageSize); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Image must be smaller than 5MB", r))
		return "", err
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "No image file provided", r))
		return "", err
	}
	defer file.Close()

	if !isImageUpload(file, header) {
		writeJSON(w, http.StatusUnsupportedMediaType, errorResp("UNSUPPORTED_FORMAT", "Only image files are allowed", r))
		return "", fmt.Errorf("unsupported media type")
	}

	if err := os.MkdirAll(h.storagePath, 0o755); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to store image", r))
		return "", err
	}

	filename := fmt.Sprintf("%s_%d_%s", prefix, time.Now().UnixNano(), sanitizeFilename(header.Filename))
	path := filepath.Join(h.storagePath, filename)

	dst, err := os.Create(path)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to store image", r))
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		os.Remove(path)
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to store image", r))
		return "", err
	}

	return path, nil
}

func isImageUpload(file multipart.File, header *multipart.FileHeader) bool {
	if strings.HasPrefix(header.Header.Get("Content-Type"), "image/") {
		return true
	}

	// Fall back to content sniffing when the client did not set a type.
	buf := make([]byte, 512)
	n, _ := file.Read(buf)
	file.Seek(0, io.SeekStart)
	return strings.HasPrefix(http.DetectContentType(buf[:n]), "image/")
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.' || r == '-' || r == '_':
			return r
		default:
			return '_'
		}
	}, name)
}
