package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"

	"lexipic-backend/internal/middleware"
	"lexipic-backend/internal/models"
	"lexipic-backend/internal/practice"
	"lexipic-backend/internal/repository"
)

// Languages a user may register interest in; matches the set used by the
// seeded flashcards.
var validLanguages = map[string]bool{
	"Spanish":    true,
	"French":     true,
	"German":     true,
	"Italian":    true,
	"Portuguese": true,
	"English":    true,
}

const leaderboardCacheTTL = 60 * time.Second

type UserHandler struct {
	userRepo *repository.UserRepo
	statRepo *repository.StatRepo
	practice *practice.Service
	redis    *redis.Client
}

func NewUserHandler(userRepo *repository.UserRepo, statRepo *repository.StatRepo, practiceService *practice.Service, redisClient *redis.Client) *UserHandler {
	return &UserHandler{
		userRepo: userRepo,
		statRepo: statRepo,
		practice: practiceService,
		redis:    redisClient,
	}
}

func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	user, err := h.userRepo.GetByID(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "User not found", r))
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req models.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	user, err := h.userRepo.GetByID(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "User not found", r))
		return
	}

	if req.Email != nil && *req.Email != user.Email {
		existing, err := h.userRepo.GetByEmail(r.Context(), *req.Email)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to update profile", r))
			return
		}
		if existing != nil {
			writeJSON(w, http.StatusConflict, errorResp("CONFLICT", "Email is already taken", r))
			return
		}
		user.Email = *req.Email
	}

	if req.DisplayName != nil {
		if len(*req.DisplayName) < 2 || len(*req.DisplayName) > 50 {
			writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Name must be between 2 and 50 characters", r))
			return
		}
		user.DisplayName = *req.DisplayName
	}

	if req.PreferredLanguages != nil {
		for _, lang := range *req.PreferredLanguages {
			if !validLanguages[lang] {
				writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Unsupported language: "+lang, r))
				return
			}
		}
		user.PreferredLanguages = *req.PreferredLanguages
	}

	if err := h.userRepo.Update(r.Context(), user); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to update profile", r))
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// Stats returns the derived aggregate learning statistics plus recent
// activity. An empty history yields the zero state, not an error.
func (h *UserHandler) Stats(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	stats, err := h.practice.UserStats(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to fetch stats", r))
		return
	}

	recent, err := h.statRepo.RecentActivity(r.Context(), userID, 10)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to fetch activity", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"accuracy":              stats.Accuracy,
		"current_streak":        stats.CurrentStreak,
		"level":                 stats.Level,
		"xp":                    stats.XP,
		"total_flashcards_seen": stats.TotalSeen,
		"total_correct":         stats.TotalCorrect,
		"total_score":           stats.TotalScore,
		"recent_activity":       recent,
	})
}

// DeleteAccount deactivates rather than deletes; history stays for the
// leaderboard's aggregate queries.
func (h *UserHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	if err := h.userRepo.Deactivate(r.Context(), userID); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to deactivate account", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Account deactivated successfully"})
}

func (h *UserHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 || limit > 100 {
		limit = 10
	}
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	if offset < 0 {
		offset = 0
	}

	cacheKey := "leaderboard:" + strconv.Itoa(limit) + ":" + strconv.Itoa(offset)
	if cached, err := h.redis.Get(r.Context(), cacheKey).Result(); err == nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(cached))
		return
	}

	entries, err := h.statRepo.Leaderboard(r.Context(), limit, offset)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to fetch leaderboard", r))
		return
	}
	if entries == nil {
		entries = []models.LeaderboardEntry{}
	}

	payload, _ := json.Marshal(map[string]interface{}{"leaderboard": entries})
	h.redis.Set(r.Context(), cacheKey, payload, leaderboardCacheTTL)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(payload)
}
