package validation

import (
	"encoding/json"
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// SchemaValidator checks incoming request bodies against JSON schemas before
// they reach struct binding. Schema validation catches shape problems (wrong
// types, missing fields) that bind errors report poorly.
type SchemaValidator struct {
	schemas map[string]*gojsonschema.Schema
}

// NewSchemaValidator compiles the built-in request schemas.
func NewSchemaValidator() (*SchemaValidator, error) {
	sources := map[string]string{
		"affinity-request":       affinityRequestSchema,
		"recommendation-request": recommendationRequestSchema,
	}

	sv := &SchemaValidator{schemas: make(map[string]*gojsonschema.Schema, len(sources))}
	for name, source := range sources {
		schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(source))
		if err != nil {
			return nil, fmt.Errorf("failed to compile schema %s: %w", name, err)
		}
		sv.schemas[name] = schema
	}

	return sv, nil
}

// ValidateAffinityRequest validates an affinity profiling request body.
func (sv *SchemaValidator) ValidateAffinityRequest(body []byte) *ValidationResult {
	return sv.validate("affinity-request", body)
}

// ValidateRecommendationRequest validates a ranking request body.
func (sv *SchemaValidator) ValidateRecommendationRequest(body []byte) *ValidationResult {
	return sv.validate("recommendation-request", body)
}

func (sv *SchemaValidator) validate(schemaName string, body []byte) *ValidationResult {
	schema, exists := sv.schemas[schemaName]
	if !exists {
		return &ValidationResult{
			Valid: false,
			Errors: []ValidationError{{
				Field:   "schema",
				Message: fmt.Sprintf("Schema '%s' not found", schemaName),
				Code:    "SCHEMA_NOT_FOUND",
			}},
		}
	}

	if !json.Valid(body) {
		return &ValidationResult{
			Valid: false,
			Errors: []ValidationError{{
				Field:   "body",
				Message: "Request body is not valid JSON",
				Code:    "INVALID_JSON",
			}},
		}
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return &ValidationResult{
			Valid: false,
			Errors: []ValidationError{{
				Field:   "validation",
				Message: fmt.Sprintf("Validation error: %v", err),
				Code:    "VALIDATION_ERROR",
			}},
		}
	}

	validationResult := &ValidationResult{
		Valid:  result.Valid(),
		Errors: make([]ValidationError, 0),
	}

	for _, verr := range result.Errors() {
		validationResult.Errors = append(validationResult.Errors, ValidationError{
			Field:   verr.Field(),
			Message: verr.Description(),
			Code:    "VALIDATION_ERROR",
		})
	}

	return validationResult
}

// ValidationResult represents the result of a validation operation
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface
func (ve ValidationError) Error() string {
	return fmt.Sprintf("validation error in field '%s': %s", ve.Field, ve.Message)
}

// ToAPIError converts validation errors to the API error envelope.
func (vr *ValidationResult) ToAPIError() map[string]interface{} {
	if vr.Valid {
		return nil
	}

	fieldErrors := make(map[string][]string)
	for _, err := range vr.Errors {
		if err.Field != "" {
			fieldErrors[err.Field] = append(fieldErrors[err.Field], err.Message)
		}
	}

	return map[string]interface{}{
		"error": map[string]interface{}{
			"code":    "VALIDATION_ERROR",
			"message": "Request validation failed",
			"details": map[string]interface{}{
				"validationErrors": vr.Errors,
				"fieldErrors":      fieldErrors,
			},
		},
	}
}

const affinityRequestSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "base_affinities": {
      "type": "object",
      "additionalProperties": {
        "type": "object",
        "properties": {
          "affinity": {"type": "number", "minimum": 0, "maximum": 1},
          "reason": {"type": "string"}
        },
        "required": ["affinity"]
      }
    },
    "activity_items": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "source": {"type": "string", "enum": ["post", "repost", "like"]},
          "relevance": {
            "type": "object",
            "additionalProperties": {"type": "number", "minimum": 0, "maximum": 1}
          },
          "stats": {"$ref": "#/definitions/stats"}
        },
        "required": ["source"]
      }
    },
    "follower_count": {"type": "integer", "minimum": 0},
    "min_affinity": {"type": "number", "minimum": 0, "maximum": 1}
  },
  "required": ["base_affinities"],
  "definitions": {
    "stats": {
      "type": "object",
      "properties": {
        "plays": {"type": "integer", "minimum": 0},
        "likes": {"type": "integer", "minimum": 0},
        "comments": {"type": "integer", "minimum": 0},
        "shares": {"type": "integer", "minimum": 0}
      }
    }
  }
}`

const recommendationRequestSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "candidates": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "author": {"type": "string"},
          "description": {"type": "string"},
          "url": {"type": "string"},
          "music_title": {"type": "string"},
          "hashtags": {"type": "array", "items": {"type": "string"}},
          "stats": {
            "type": "object",
            "properties": {
              "plays": {"type": "integer", "minimum": 0},
              "likes": {"type": "integer", "minimum": 0},
              "comments": {"type": "integer", "minimum": 0},
              "shares": {"type": "integer", "minimum": 0}
            }
          },
          "created_at": {"type": "string", "format": "date-time"},
          "source_tags": {"type": "array", "items": {"type": "string"}},
          "embedding": {"type": "array", "items": {"type": "number"}}
        },
        "required": ["id"]
      }
    },
    "affinities": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "tag": {"type": "string", "minLength": 1},
          "affinity": {"type": "number", "minimum": 0, "maximum": 1},
          "reason": {"type": "string"}
        },
        "required": ["tag", "affinity"]
      }
    },
    "options": {
      "type": "object",
      "properties": {
        "virality_weight": {"type": "number", "minimum": 0},
        "relevance_weight": {"type": "number", "minimum": 0},
        "engagement_weight": {"type": "number", "minimum": 0},
        "min_score": {"type": "number", "minimum": 0, "maximum": 1},
        "author_penalty": {"type": "number", "minimum": 0, "maximum": 1},
        "tag_signature_penalty": {"type": "number", "minimum": 0, "maximum": 1},
        "count": {"type": "integer", "minimum": 1, "maximum": 100}
      }
    }
  },
  "required": ["candidates"]
}`
