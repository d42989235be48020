// internal/workers/knowledge/build-context/models.go
package buildcontext

import (
	"knowledge-engine/internal/common/validation"
	"knowledge-engine/internal/models"
)

type Input struct {
	UserID string `json:"userId"`
	Query  string `json:"query"`
}

type Output struct {
	Context  *models.AIContext `json:"context"`
	CacheHit bool              `json:"cacheHit"`
}

func inputSchema() validation.JSONSchema {
	minLen := 1
	return validation.JSONSchema{
		Type: "object",
		Properties: map[string]validation.Property{
			"userId": {Type: "string", MinLength: &minLen},
			"query":  {Type: "string"},
		},
		Required:             []string{"userId", "query"},
		AdditionalProperties: true,
	}
}
