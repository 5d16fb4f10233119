package models

import "time"

// VideoStats holds raw engagement counters as reported by the content API.
type VideoStats struct {
	Plays    int64 `json:"plays" db:"plays" validate:"min=0"`
	Likes    int64 `json:"likes" db:"likes" validate:"min=0"`
	Comments int64 `json:"comments" db:"comments" validate:"min=0"`
	Shares   int64 `json:"shares" db:"shares" validate:"min=0"`
}

// Video is a candidate considered for recommendation. SourceTags are the
// topics behind the search query that retrieved it; Embedding is optional
// and absent when the content pipeline produced no vector for it.
type Video struct {
	ID          string     `json:"id" validate:"required"`
	Author      string     `json:"author"`
	Description string     `json:"description"`
	URL         string     `json:"url"`
	MusicTitle  string     `json:"music_title,omitempty"`
	Hashtags    []string   `json:"hashtags,omitempty"`
	Stats       VideoStats `json:"stats"`
	CreatedAt   time.Time  `json:"created_at"`
	SourceTags  []string   `json:"source_tags,omitempty"`
	Embedding   []float32  `json:"embedding,omitempty"`
}
