package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID                 uuid.UUID  `json:"id"`
	Email              string     `json:"email"`
	PasswordHash       string     `json:"-"`
	DisplayName        string     `json:"display_name"`
	Avatar             *string    `json:"avatar"`
	PreferredLanguages []string   `json:"preferred_languages"`
	IsActive           bool       `json:"is_active"`
	CreatedAt          time.Time  `json:"created_at"`
	LastLoginAt        *time.Time `json:"last_login"`
}

type RegisterRequest struct {
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

type UpdateProfileRequest struct {
	DisplayName        *string   `json:"display_name"`
	Email              *string   `json:"email"`
	PreferredLanguages *[]string `json:"preferred_languages"`
}

type LeaderboardEntry struct {
	Rank         int       `json:"rank"`
	UserID       uuid.UUID `json:"id"`
	DisplayName  string    `json:"display_name"`
	Avatar       *string   `json:"avatar"`
	Score        int       `json:"score"`
	Accuracy     int       `json:"accuracy"`
	TotalCorrect int       `json:"total_correct"`
	TotalSeen    int       `json:"total_seen"`
}
