package search

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/oksasatya/go-blog-platform/internal/domain/entity"
	"github.com/oksasatya/go-blog-platform/pkg/helpers"
)

// UsersIndex keeps public profile documents in Elasticsearch.
// Email and credential never enter the index.
type UsersIndex struct {
	ES      *elasticsearch.Client
	Name    string
	Timeout time.Duration
}

func NewUsersIndex(es *elasticsearch.Client, index string) *UsersIndex {
	return &UsersIndex{ES: es, Name: index, Timeout: 3 * time.Second}
}

func userDocument(u *entity.User) map[string]any {
	doc := map[string]any{
		"id":         u.ID,
		"username":   u.Username,
		"name":       u.Name,
		"role":       string(u.Role),
		"created_at": u.CreatedAt.Format(time.RFC3339Nano),
		"updated_at": u.UpdatedAt.Format(time.RFC3339Nano),
	}
	if u.Bio != nil {
		doc["bio"] = *u.Bio
	}
	return doc
}

// usersMapping keeps id and role as exact keywords; free text goes through the standard analyzer.
const usersMapping = `{
  "mappings": {
    "properties": {
      "id":         {"type": "long"},
      "username":   {"type": "text", "fields": {"raw": {"type": "keyword"}}},
      "name":       {"type": "text"},
      "bio":        {"type": "text"},
      "role":       {"type": "keyword"},
      "created_at": {"type": "date"},
      "updated_at": {"type": "date"}
    }
  }
}`

// Ensure creates the users index with its mapping if missing.
func (x *UsersIndex) Ensure(ctx context.Context) error {
	if x == nil || x.ES == nil || x.Name == "" {
		return nil
	}
	return helpers.EnsureIndex(ctx, x.ES, x.Name, usersMapping)
}

func searchQuery(q string, size int) map[string]any {
	return map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"username^2", "name", "bio"},
			},
		},
		"size": size,
	}
}

func (x *UsersIndex) Index(ctx context.Context, u *entity.User) error {
	if x == nil || x.ES == nil || x.Name == "" {
		return nil
	}
	b, err := json.Marshal(userDocument(u))
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{Index: x.Name, DocumentID: fmt.Sprint(u.ID), Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, x.Timeout)
	defer cancel()
	res, err := req.Do(c, x.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("es index response: %s", res.Status())
	}
	return nil
}

func (x *UsersIndex) Search(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if x == nil || x.ES == nil || x.Name == "" {
		return []map[string]any{}, nil
	}
	b, err := json.Marshal(searchQuery(q, size))
	if err != nil {
		return nil, err
	}

	c, cancel := context.WithTimeout(ctx, x.Timeout)
	defer cancel()

	res, err := x.ES.Search(x.ES.Search.WithContext(c), x.ES.Search.WithIndex(x.Name), x.ES.Search.WithBody(strings.NewReader(string(b))))
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = res.Body.Close()
	}()
	if res.IsError() {
		return nil, fmt.Errorf("es search response: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
