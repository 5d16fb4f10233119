package models

import "time"

// UserTopicAffinity is the persisted interest strength of one user in one
// topic. Rows are unique per (username, tag) and overwritten on re-profiling.
type UserTopicAffinity struct {
	Username  string    `json:"username" db:"username" validate:"required"`
	Tag       string    `json:"tag" db:"tag" validate:"required"`
	Affinity  float64   `json:"affinity" db:"affinity" validate:"min=0,max=1"`
	Reason    string    `json:"reason,omitempty" db:"reason"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
