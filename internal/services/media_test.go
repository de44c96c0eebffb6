package services

import (
	"testing"

	"learnpath-backend/internal/models"
)

func TestIsEmbeddedURL(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected bool
	}{
		{"mp4 file", "https://cdn.example.com/lecture.mp4", false},
		{"webm file", "https://cdn.example.com/lecture.webm", false},
		{"extension with query string", "https://cdn.example.com/lecture.MP4?token=abc", false},
		{"youtube watch page", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", true},
		{"vimeo page", "https://vimeo.com/123456789", true},
		{"extension mid-path", "https://example.com/mp4/index.html", true},
		{"empty url", "", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsEmbeddedURL(tc.url); got != tc.expected {
				t.Errorf("IsEmbeddedURL(%q): expected %v, got %v", tc.url, tc.expected, got)
			}
		})
	}
}

func TestIsEmbedded(t *testing.T) {
	tests := []struct {
		name       string
		sourceType models.SourceType
		sourcePath string
		expected   bool
	}{
		{"embed is always embedded", models.SourceEmbed, "https://player.example.com/e/1", true},
		{"upload is never embedded", models.SourceUpload, "/pluginfile.php/1/mod_videoactivity/media/1/lecture", false},
		{"url with video extension", models.SourceURL, "https://cdn.example.com/a.mov", false},
		{"url without video extension", models.SourceURL, "https://youtu.be/dQw4w9WgXcQ", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsEmbedded(tc.sourceType, tc.sourcePath); got != tc.expected {
				t.Errorf("Expected %v, got %v", tc.expected, got)
			}
		})
	}
}

func TestYouTubeVideoID(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected string
	}{
		{"watch url", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"short url", "https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"embed url", "https://www.youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"shorts url", "https://www.youtube.com/shorts/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"not youtube", "https://vimeo.com/123456789", ""},
		{"empty", "", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := YouTubeVideoID(tc.url); got != tc.expected {
				t.Errorf("Expected %q, got %q", tc.expected, got)
			}
		})
	}
}
