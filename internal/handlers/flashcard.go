package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"lexipic-backend/internal/middleware"
	"lexipic-backend/internal/models"
	"lexipic-backend/internal/practice"
	"lexipic-backend/internal/repository"
)

type FlashcardHandler struct {
	practice  *practice.Service
	flashRepo *repository.FlashcardRepo
	statRepo  *repository.StatRepo
	jobRepo   *repository.JobRepo
	redis     *redis.Client
}

func NewFlashcardHandler(
	practiceService *practice.Service,
	flashRepo *repository.FlashcardRepo,
	statRepo *repository.StatRepo,
	jobRepo *repository.JobRepo,
	redisClient *redis.Client,
) *FlashcardHandler {
	return &FlashcardHandler{
		practice:  practiceService,
		flashRepo: flashRepo,
		statRepo:  statRepo,
		jobRepo:   jobRepo,
		redis:     redisClient,
	}
}

// Practice returns one flashcard to practice plus multiple-choice options.
// Works for anonymous callers; authenticated users get recency-aware
// selection.
func (h *FlashcardHandler) Practice(w http.ResponseWriter, r *http.Request) {
	language := r.URL.Query().Get("language")

	var userID *uuid.UUID
	if id := middleware.GetUserID(r.Context()); id != uuid.Nil {
		userID = &id
	}

	resp, err := h.practice.SelectPractice(r.Context(), userID, language)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *FlashcardHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	var req models.AnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	if req.FlashcardID == uuid.Nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "flashcard_id is required", r))
		return
	}
	if req.UserAnswer == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "user_answer is required", r))
		return
	}

	userID := middleware.GetUserID(r.Context())

	result, err := h.practice.RecordAnswer(r.Context(), userID, req.FlashcardID, req.UserAnswer)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *FlashcardHandler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 {
		limit = 20
	}
	language := r.URL.Query().Get("language")
	offset := (page - 1) * limit

	flashcards, err := h.flashRepo.List(r.Context(), language, limit, offset)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to fetch flashcards", r))
		return
	}

	total, err := h.flashRepo.Count(r.Context(), language)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to count flashcards", r))
		return
	}

	pages := (total + limit - 1) / limit
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"flashcards": flashcards,
		"pagination": models.Pagination{
			Current: page,
			Pages:   pages,
			Total:   total,
			HasNext: page*limit < total,
			HasPrev: page > 1,
		},
	})
}

func (h *FlashcardHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateFlashcardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	if req.ObjectName == "" || req.Translation == "" || req.ImageURL == "" || req.Language == "" {
		writeJSON(w, http.StatusBadRequest,
			errorResp("VALIDATION_ERROR", "object_name, translation, image_url, and language are required", r))
		return
	}

	userID := middleware.GetUserID(r.Context())
	flashcard := &models.Flashcard{
		ObjectName:  req.ObjectName,
		Translation: req.Translation,
		ImageURL:    req.ImageURL,
		Language:    req.Language,
		CreatedBy:   &userID,
	}

	if err := h.flashRepo.Create(r.Context(), flashcard); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to create flashcard", r))
		return
	}

	writeJSON(w, http.StatusCreated, flashcard)
}

func (h *FlashcardHandler) History(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 {
		limit = 20
	}

	history, err := h.statRepo.RecentActivity(r.Context(), userID, limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to fetch history", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"history":    history,
		"total_seen": len(history),
	})
}

func (h *FlashcardHandler) Languages(w http.ResponseWriter, r *http.Request) {
	languages, err := h.flashRepo.Languages(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to get available languages", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"languages":       languages,
		"total_languages": len(languages),
	})
}

// Generate queues a flashcard-generation job for a previously uploaded image.
// The worker pool picks it up, calls the detector service, and inserts the
// resulting cards.
func (h *FlashcardHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req models.GenerateFlashcardsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	if req.ImageURL == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "image_url is required", r))
		return
	}
	if req.Language == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "language is required", r))
		return
	}
	if req.MaxCards <= 0 {
		req.MaxCards = 5
	}

	userID := middleware.GetUserID(r.Context())
	configBytes, _ := json.Marshal(req)

	job := &models.Job{
		UserID:     userID,
		Type:       "flashcard-generation",
		ConfigJSON: configBytes,
	}
	if err := h.jobRepo.Create(r.Context(), job); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to create job", r))
		return
	}

	jobBytes, _ := json.Marshal(job)
	h.redis.LPush(r.Context(), "queue:flashcard-generation", string(jobBytes))

	writeJSON(w, http.StatusAccepted, map[string]interface{}{
		"job_id": job.ID,
		"status": job.Status,
	})
}

func (h *FlashcardHandler) GetJob(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid job ID", r))
		return
	}

	job, err := h.jobRepo.GetByID(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Job not found", r))
		return
	}

	userID := middleware.GetUserID(r.Context())
	if job.UserID != userID {
		writeJSON(w, http.StatusForbidden, errorResp("FORBIDDEN", "Access denied", r))
		return
	}

	writeJSON(w, http.StatusOK, job)
}
