package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// WordDetection is one object the detector service found in an image,
// together with its translation into the requested language.
type WordDetection struct {
	ObjectName  string  `json:"object_name"`
	Translation string  `json:"translation"`
	Confidence  float64 `json:"confidence"`
}

// DetectorService talks to the external image-analysis service that detects
// objects in a photo and produces word/translation pairs. The service itself
// (model choice, prompting, bounding boxes) is outside this backend.
type DetectorService struct {
	baseURL string
	client  *http.Client
}

func NewDetectorService(baseURL string) *DetectorService {
	return &DetectorService{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

// GenerateWords uploads the image and returns detected objects with
// translations in the given language.
func (s *DetectorService) GenerateWords(ctx context.Context, imagePath, language string, maxWords int) ([]WordDetection, error) {
	fields := map[string]string{
		"language":  language,
		"max_words": fmt.Sprintf("%d", maxWords),
	}

	var result struct {
		Words []WordDetection `json:"words"`
	}
	if err := s.postImage(ctx, "/words", imagePath, fields, &result); err != nil {
		return nil, err
	}
	return result.Words, nil
}

// DetectObjects uploads the image and returns the raw object labels found in
// it, with an overall confidence score.
func (s *DetectorService) DetectObjects(ctx context.Context, imagePath string) ([]string, float64, error) {
	var result struct {
		Objects    []string `json:"objects"`
		Confidence float64  `json:"confidence"`
	}
	if err := s.postImage(ctx, "/detect", imagePath, nil, &result); err != nil {
		return nil, 0, err
	}
	return result.Objects, result.Confidence, nil
}

func (s *DetectorService) postImage(ctx context.Context, path, imagePath string, fields map[string]string, out interface{}) error {
	file, err := os.Open(imagePath)
	if err != nil {
		return fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("image", filepath.Base(imagePath))
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, file); err != nil {
		return err
	}
	for key, val := range fields {
		writer.WriteField(key, val)
	}
	if err := writer.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, &body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("detector request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("detector returned status %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
