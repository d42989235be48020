// internal/workers/knowledge/extract-knowledge/models.go
package extractknowledge

type Input struct {
	TriggeredBy string `json:"triggeredBy,omitempty"`
}

type Output struct {
	TotalProcessed   int            `json:"totalProcessed"`
	NewItemsFound    int            `json:"newItemsFound"`
	ProcessingTimeMs int64          `json:"processingTimeMs"`
	ItemsByKind      map[string]int `json:"itemsByKind"`
	ItemsBySource    map[string]int `json:"itemsBySource"`
}
