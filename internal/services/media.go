package services

import (
	"regexp"

	"learnpath-backend/internal/models"
)

// Direct-playable container extensions. Anything else is assumed to be
// an embed page and gets iframed.
var directVideoRegex = regexp.MustCompile(`(?i)\.(mp4|avi|mov|wmv|flv|webm|mkv|m4v|3gp|ogv|ts)(\?|$)`)

// IsEmbeddedURL classifies a media URL. A URL whose path ends with a
// known video extension (query string allowed) plays directly in the
// <video> element; everything else is embedded.
func IsEmbeddedURL(mediaURL string) bool {
	if mediaURL == "" {
		return false
	}
	return !directVideoRegex.MatchString(mediaURL)
}

// IsEmbedded decides the render mode for an activity's media. Uploaded
// files are always direct regardless of their name.
func IsEmbedded(sourceType models.SourceType, sourcePath string) bool {
	switch sourceType {
	case models.SourceEmbed:
		return true
	case models.SourceURL:
		return IsEmbeddedURL(sourcePath)
	default:
		return false
	}
}

var youtubeIDRegex = regexp.MustCompile(`(?:youtube\.com/(?:watch\?v=|embed/|shorts/)|youtu\.be/)([\w-]{11})`)

// YouTubeVideoID extracts the 11-character video id from a YouTube URL,
// or "" when the URL is not a YouTube link.
func YouTubeVideoID(mediaURL string) string {
	m := youtubeIDRegex.FindStringSubmatch(mediaURL)
	if len(m) < 2 {
		return ""
	}
	return m[1]
}
