package scoring

import (
	"fmt"
	"math"

	"github.com/ethanrimes/tiktok-recommendation-engine/pkg/models"
)

// ValidationError reports a record that violates the upstream data contract.
// These are hard failures: negative counts or non-finite scores mean the
// extraction or classification step is broken, not that the data is sparse.
type ValidationError struct {
	Record string
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s in %s: %s", e.Field, e.Record, e.Reason)
}

func validateStats(record string, stats models.VideoStats) error {
	switch {
	case stats.Plays < 0:
		return &ValidationError{Record: record, Field: "plays", Reason: "negative count"}
	case stats.Likes < 0:
		return &ValidationError{Record: record, Field: "likes", Reason: "negative count"}
	case stats.Comments < 0:
		return &ValidationError{Record: record, Field: "comments", Reason: "negative count"}
	case stats.Shares < 0:
		return &ValidationError{Record: record, Field: "shares", Reason: "negative count"}
	}
	return nil
}

func validateUnitScore(record, field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return &ValidationError{Record: record, Field: field, Reason: "non-finite value"}
	}
	if v < 0 || v > 1 {
		return &ValidationError{Record: record, Field: field, Reason: fmt.Sprintf("value %g outside [0,1]", v)}
	}
	return nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
