package models

import (
	"time"

	"github.com/google/uuid"
)

type Flashcard struct {
	ID          uuid.UUID  `json:"id"`
	ObjectName  string     `json:"object_name"`
	Translation string     `json:"translation"`
	ImageURL    string     `json:"image_url"`
	Language    string     `json:"language"`
	CreatedBy   *uuid.UUID `json:"created_by,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// UserFlashcardStat is the per-(user, flashcard) exposure record. There is
// exactly one row per pair; it is created on the first answer and updated in
// place afterwards.
type UserFlashcardStat struct {
	ID           uuid.UUID `json:"id"`
	UserID       uuid.UUID `json:"user_id"`
	FlashcardID  uuid.UUID `json:"flashcard_id"`
	TimesSeen    int       `json:"times_seen"`
	TimesCorrect int       `json:"times_correct"`
	LastSeen     time.Time `json:"last_seen"`
}

// ActivityEntry is a stat row joined with its flashcard, used for history views.
type ActivityEntry struct {
	UserFlashcardStat
	ObjectName  string `json:"object_name"`
	Translation string `json:"translation"`
	ImageURL    string `json:"image_url"`
}

// StatsSummary holds the derived aggregate learning statistics for a user.
// Every field is recomputed from the stat rows on each read, so stored and
// derived values can never diverge.
type StatsSummary struct {
	TotalSeen     int `json:"total_flashcards_seen"`
	TotalCorrect  int `json:"total_correct"`
	Accuracy      int `json:"accuracy"`
	XP            int `json:"xp"`
	Level         int `json:"level"`
	CurrentStreak int `json:"current_streak"`
	TotalScore    int `json:"total_score"`
}

type CreateFlashcardRequest struct {
	ObjectName  string `json:"object_name"`
	Translation string `json:"translation"`
	ImageURL    string `json:"image_url"`
	Language    string `json:"language"`
}

type AnswerRequest struct {
	FlashcardID uuid.UUID `json:"flashcard_id"`
	UserAnswer  string    `json:"user_answer"`
	TimeSpent   int       `json:"time_spent,omitempty"`
}

type PracticeResponse struct {
	Flashcard *Flashcard `json:"flashcard"`
	Options   []string   `json:"options"`
}

type LanguageCount struct {
	Language string `json:"language"`
	Count    int    `json:"count"`
}

type Pagination struct {
	Current int  `json:"current"`
	Pages   int  `json:"pages"`
	Total   int  `json:"total"`
	HasNext bool `json:"hasNext"`
	HasPrev bool `json:"hasPrev"`
}
