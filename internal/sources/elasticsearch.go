// internal/sources/elasticsearch.go
package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"knowledge-engine/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

// StatusNoteStore reads free-text status notes from an Elasticsearch index.
// Notes are written there by the check-in collector; the engine only ever
// searches, it never indexes.
type StatusNoteStore struct {
	client  *elasticsearch.Client
	index   string
	maxSize int
}

func NewStatusNoteStore(client *elasticsearch.Client, index string) *StatusNoteStore {
	return &StatusNoteStore{
		client:  client,
		index:   index,
		maxSize: 1000,
	}
}

type statusNoteDoc struct {
	UserID    string    `json:"user_id"`
	UserName  string    `json:"user_name"`
	Progress  string    `json:"progress"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *StatusNoteStore) ListAll(ctx context.Context) ([]models.StatusNoteRecord, error) {
	query := map[string]interface{}{
		"query": map[string]interface{}{"match_all": map[string]interface{}{}},
		"sort":  []interface{}{map[string]interface{}{"created_at": "asc"}, map[string]interface{}{"_id": "asc"}},
		"size":  s.maxSize,
	}
	return s.search(ctx, query)
}

func (s *StatusNoteStore) ListByUser(ctx context.Context, userID string) ([]models.StatusNoteRecord, error) {
	query := map[string]interface{}{
		"query": map[string]interface{}{
			"term": map[string]interface{}{"user_id": userID},
		},
		"sort": []interface{}{map[string]interface{}{"created_at": "asc"}, map[string]interface{}{"_id": "asc"}},
		"size": s.maxSize,
	}
	return s.search(ctx, query)
}

func (s *StatusNoteStore) search(ctx context.Context, query map[string]interface{}) ([]models.StatusNoteRecord, error) {
	body, _ := json.Marshal(query)
	req := esapi.SearchRequest{
		Index: []string{s.index},
		Body:  strings.NewReader(string(body)),
	}

	res, err := req.Do(ctx, s.client)
	if err != nil {
		return nil, fmt.Errorf("status note search: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("status note search failed: %s", res.String())
	}

	var r struct {
		Hits struct {
			Hits []struct {
				ID     string        `json:"_id"`
				Source statusNoteDoc `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("decode status note response: %w", err)
	}

	records := make([]models.StatusNoteRecord, 0, len(r.Hits.Hits))
	for _, hit := range r.Hits.Hits {
		records = append(records, models.StatusNoteRecord{
			ID:        hit.ID,
			UserID:    hit.Source.UserID,
			UserName:  hit.Source.UserName,
			Progress:  hit.Source.Progress,
			Notes:     hit.Source.Notes,
			CreatedAt: hit.Source.CreatedAt,
		})
	}
	return records, nil
}
