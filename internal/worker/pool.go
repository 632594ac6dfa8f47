package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"lexipic-backend/internal/models"
	"lexipic-backend/internal/repository"
	"lexipic-backend/internal/services"
)

const flashcardQueue = "queue:flashcard-generation"

type Pool struct {
	redis       *redis.Client
	detector    *services.DetectorService
	jobRepo     *repository.JobRepo
	flashRepo   *repository.FlashcardRepo
	storagePath string
	workerCount int
	stopChan    chan struct{}
}

func NewPool(
	redisClient *redis.Client,
	detector *services.DetectorService,
	jobRepo *repository.JobRepo,
	flashRepo *repository.FlashcardRepo,
	storagePath string,
	workerCount int,
) *Pool {
	return &Pool{
		redis:       redisClient,
		detector:    detector,
		jobRepo:     jobRepo,
		flashRepo:   flashRepo,
		storagePath: storagePath,
		workerCount: workerCount,
		stopChan:    make(chan struct{}),
	}
}

func (p *Pool) Start() {
	for i := 0; i < p.workerCount; i++ {
		go p.worker(i)
	}

	log.Printf("Started %d worker goroutines", p.workerCount)
}

func (p *Pool) Stop() {
	close(p.stopChan)
}

func (p *Pool) worker(id int) {
	for {
		select {
		case <-p.stopChan:
			log.Printf("Worker %d shutting down", id)
			return
		default:
		}

		ctx := context.Background()

		// BLPOP with 30s timeout
		result, err := p.redis.BLPop(ctx, 30*time.Second, flashcardQueue).Result()
		if err != nil {
			continue // Timeout or error, retry
		}

		if len(result) < 2 {
			continue
		}

		var job models.Job
		if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
			log.Printf("Worker %d: failed to parse job: %v", id, err)
			continue
		}

		// One worker per job, even with multiple instances on the queue
		lockKey := fmt.Sprintf("job_lock:%s", job.ID.String())
		locked, err := p.redis.SetNX(ctx, lockKey, "1", 10*time.Minute).Result()
		if err != nil || !locked {
			continue
		}

		log.Printf("Worker %d: processing job %s (type: %s)", id, job.ID, job.Type)

		p.jobRepo.UpdateStatus(ctx, job.ID, "processing")

		var processErr error
		switch job.Type {
		case "flashcard-generation":
			processErr = p.processFlashcardGeneration(ctx, &job)
		default:
			processErr = fmt.Errorf("unknown job type: %s", job.Type)
		}

		if processErr != nil {
			log.Printf("Worker %d: job %s failed: %v", id, job.ID, processErr)
			p.jobRepo.Fail(ctx, job.ID, processErr.Error())
		} else {
			log.Printf("Worker %d: job %s completed", id, job.ID)
		}

		p.redis.Del(ctx, lockKey)
	}
}

// processFlashcardGeneration sends the uploaded image to the detector service
// and inserts one flashcard per detected word. The job result records the
// created card IDs.
func (p *Pool) processFlashcardGeneration(ctx context.Context, job *models.Job) error {
	var config models.GenerateFlashcardsRequest
	if err := json.Unmarshal(job.ConfigJSON, &config); err != nil {
		return fmt.Errorf("invalid job config: %w", err)
	}

	imagePath, err := p.resolveImagePath(config.ImageURL)
	if err != nil {
		return err
	}

	maxCards := config.MaxCards
	if maxCards <= 0 {
		maxCards = 5
	}

	words, err := p.detector.GenerateWords(ctx, imagePath, config.Language, maxCards)
	if err != nil {
		return fmt.Errorf("detector failed: %w", err)
	}
	if len(words) == 0 {
		return fmt.Errorf("no objects detected in image")
	}

	created := make([]models.Flashcard, 0, len(words))
	for _, word := range words {
		if word.ObjectName == "" || word.Translation == "" {
			continue
		}

		card := &models.Flashcard{
			ObjectName:  strings.ToLower(strings.TrimSpace(word.ObjectName)),
			Translation: strings.ToLower(strings.TrimSpace(word.Translation)),
			ImageURL:    config.ImageURL,
			Language:    config.Language,
			CreatedBy:   &job.UserID,
		}
		if err := p.flashRepo.Create(ctx, card); err != nil {
			return fmt.Errorf("failed to insert flashcard %q: %w", card.ObjectName, err)
		}
		created = append(created, *card)
	}

	if len(created) == 0 {
		return fmt.Errorf("detector returned no usable words")
	}

	resultBytes, _ := json.Marshal(map[string]interface{}{
		"flashcards_created": len(created),
		"flashcards":         created,
	})
	return p.jobRepo.Complete(ctx, job.ID, resultBytes)
}

// resolveImagePath maps an /uploads/... URL back to a file under the storage
// path, refusing anything that escapes it.
func (p *Pool) resolveImagePath(imageURL string) (string, error) {
	name := filepath.Base(strings.TrimPrefix(imageURL, "/uploads/"))
	if name == "" || name == "." || name == "/" {
		return "", fmt.Errorf("invalid image URL: %s", imageURL)
	}
	return filepath.Join(p.storagePath, name), nil
}
