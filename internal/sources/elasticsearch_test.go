// internal/sources/elasticsearch_test.go
package sources

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTransport struct {
	status   int
	body     string
	lastBody string
	lastPath string
}

func (s *stubTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	s.lastPath = req.URL.Path
	if req.Body != nil {
		b, _ := io.ReadAll(req.Body)
		s.lastBody = string(b)
	}
	return &http.Response{
		StatusCode: s.status,
		Body:       io.NopCloser(strings.NewReader(s.body)),
		Header:     http.Header{"X-Elastic-Product": []string{"Elasticsearch"}, "Content-Type": []string{"application/json"}},
	}, nil
}

func newStubStore(t *testing.T, transport *stubTransport) *StatusNoteStore {
	t.Helper()
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{"http://stub:9200"},
		Transport: transport,
	})
	require.NoError(t, err)
	return NewStatusNoteStore(client, "status_notes")
}

const searchResponse = `{
	"hits": {
		"hits": [
			{
				"_id": "n1",
				"_source": {
					"user_id": "alice",
					"user_name": "Alice",
					"progress": "Finished the docker migration",
					"notes": "Monitoring needs a follow-up",
					"created_at": "2026-07-01T10:00:00Z"
				}
			}
		]
	}
}`

func TestStatusNoteStore_ListAll(t *testing.T) {
	transport := &stubTransport{status: http.StatusOK, body: searchResponse}
	store := newStubStore(t, transport)

	records, err := store.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Equal(t, "n1", records[0].ID)
	assert.Equal(t, "alice", records[0].UserID)
	assert.Equal(t, "Finished the docker migration", records[0].Progress)
	assert.Equal(t, "Monitoring needs a follow-up", records[0].Notes)
	assert.Contains(t, transport.lastPath, "status_notes")

	var query map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(transport.lastBody), &query))
	assert.Contains(t, query["query"], "match_all")
}

func TestStatusNoteStore_ListByUser(t *testing.T) {
	transport := &stubTransport{status: http.StatusOK, body: searchResponse}
	store := newStubStore(t, transport)

	_, err := store.ListByUser(context.Background(), "alice")
	require.NoError(t, err)

	var query map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(transport.lastBody), &query))
	term := query["query"].(map[string]interface{})["term"].(map[string]interface{})
	assert.Equal(t, "alice", term["user_id"])
}

func TestStatusNoteStore_SearchError(t *testing.T) {
	transport := &stubTransport{status: http.StatusInternalServerError, body: `{"error":"boom"}`}
	store := newStubStore(t, transport)

	_, err := store.ListAll(context.Background())
	assert.Error(t, err)
}
