package models

import "time"

// Category is a taxonomy entry produced by the taxonomy pipeline. The
// ranking engine only ever reads these.
type Category struct {
	Tag         string    `json:"tag" db:"tag" validate:"required,lowercase"`
	Description string    `json:"description" db:"description"`
	Keywords    []string  `json:"keywords,omitempty" db:"keywords"`
	Embedding   []float32 `json:"-" db:"embedding"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
