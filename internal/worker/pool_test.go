package worker

import (
	"path/filepath"
	"testing"
)

func TestResolveImagePath(t *testing.T) {
	p := &Pool{storagePath: "/var/lexipic/uploads"}

	tests := []struct {
		name     string
		imageURL string
		expected string
		wantErr  bool
	}{
		{"uploads url", "/uploads/photo_123.jpg", filepath.Join("/var/lexipic/uploads", "photo_123.jpg"), false},
		{"bare filename", "photo.jpg", filepath.Join("/var/lexipic/uploads", "photo.jpg"), false},
		{"path traversal stripped", "/uploads/../../etc/passwd", filepath.Join("/var/lexipic/uploads", "passwd"), false},
		{"empty url", "", "", true},
		{"directory only", "/uploads/", "", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := p.resolveImagePath(tc.imageURL)
			if tc.wantErr {
				if err == nil {
					t.Errorf("Expected error for %q, got path %q", tc.imageURL, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tc.expected {
				t.Errorf("Expected %q, got %q", tc.expected, got)
			}
		})
	}
}
