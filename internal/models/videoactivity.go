package models

import (
	"time"
)

// Media source types for a video activity.
type SourceType int

const (
	SourceUpload SourceType = iota + 1
	SourceURL
	SourceEmbed
)

type VideoActivity struct {
	ID            int64      `json:"id"`
	CourseID      int64      `json:"course_id"`
	Name          string     `json:"name"`
	Intro         string     `json:"intro"`
	SourceType    SourceType `json:"source_type"`
	SourcePath    string     `json:"source_path"`
	HasResources  bool       `json:"has_resources"`
	HasTranscript bool       `json:"has_transcript"`
	TimeCreated   time.Time  `json:"time_created"`
	TimeModified  time.Time  `json:"time_modified"`
}

type SaveVideoActivityRequest struct {
	CourseID    int64  `json:"course_id" validate:"required,gt=0"`
	SectionNum  int    `json:"section_num" validate:"min=0"`
	Name        string `json:"name" validate:"required,max=255"`
	Intro       string `json:"intro"`
	MediaSource string `json:"media_source" validate:"required,oneof=upload url embed"`
	MediaURL    string `json:"media_url" validate:"omitempty,url"`
	EmbedCode   string `json:"embed_code"`
	Completion  int    `json:"completion" validate:"oneof=0 1 2"`
}

// File areas owned by the video activity.
const (
	AreaMediaFile  = "mediafile"
	AreaResources  = "resources"
	AreaTranscript = "transcript"

	// Course header banner image, owned by the format.
	AreaHeaderImage = "headerimage"

	ComponentVideoActivity = "mod_videoactivity"
	ComponentCourseFormat  = "format_videopath"
)
