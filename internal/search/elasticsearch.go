package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"hallbook/internal/config"
	"hallbook/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

// HallIndex mirrors wedding halls into Elasticsearch for the public browse
// query. The relational store stays authoritative; index failures are logged
// by callers and never fail a write.
type HallIndex struct {
	client *elasticsearch.Client
	index  string
}

func NewHallIndex(cfg config.ElasticsearchConfig) (*HallIndex, error) {
	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses:     []string{cfg.URL},
		Username:      cfg.Username,
		Password:      cfg.Password,
		RetryOnStatus: []int{502, 503, 504, 429},
		MaxRetries:    cfg.MaxRetries,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}

	idx := &HallIndex{client: es, index: cfg.Index}

	if err := idx.ensureIndex(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ensure index exists: %w", err)
	}

	return idx, nil
}

func (h *HallIndex) ensureIndex(ctx context.Context) error {
	req := esapi.IndicesExistsRequest{Index: []string{h.index}}

	res, err := req.Do(ctx, h.client)
	if err != nil {
		return fmt.Errorf("failed to check index existence: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == 200 {
		slog.Info("Elasticsearch index already exists", "index", h.index)
		return nil
	}

	mapping := map[string]interface{}{
		"settings": map[string]interface{}{
			"number_of_shards":   1,
			"number_of_replicas": 0,
		},
		"mappings": map[string]interface{}{
			"properties": map[string]interface{}{
				"id":          map[string]interface{}{"type": "long"},
				"center_id":   map[string]interface{}{"type": "long"},
				"name":        map[string]interface{}{"type": "text"},
				"address":     map[string]interface{}{"type": "text"},
				"description": map[string]interface{}{"type": "text"},
				"capacity":    map[string]interface{}{"type": "integer"},
			},
		},
	}

	body, err := json.Marshal(mapping)
	if err != nil {
		return err
	}

	createReq := esapi.IndicesCreateRequest{
		Index: h.index,
		Body:  bytes.NewReader(body),
	}

	createRes, err := createReq.Do(ctx, h.client)
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}
	defer createRes.Body.Close()

	if createRes.IsError() {
		return fmt.Errorf("index creation returned %s", createRes.Status())
	}

	slog.Info("Created Elasticsearch index", "index", h.index)
	return nil
}

type hallDocument struct {
	ID          int64  `json:"id"`
	CenterID    int64  `json:"center_id"`
	Name        string `json:"name"`
	Address     string `json:"address"`
	Description string `json:"description"`
	Capacity    int    `json:"capacity"`
}

// IndexHall writes or overwrites the hall document.
func (h *HallIndex) IndexHall(ctx context.Context, hall *models.WeddingHall) error {
	doc := hallDocument{
		ID:          hall.ID,
		CenterID:    hall.CenterID,
		Name:        hall.Name,
		Address:     hall.Address,
		Description: hall.Description,
		Capacity:    hall.Capacity,
	}

	body, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	req := esapi.IndexRequest{
		Index:      h.index,
		DocumentID: strconv.FormatInt(hall.ID, 10),
		Body:       bytes.NewReader(body),
		Refresh:    "false",
	}

	res, err := req.Do(ctx, h.client)
	if err != nil {
		return fmt.Errorf("failed to index hall %d: %w", hall.ID, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("indexing hall %d returned %s", hall.ID, res.Status())
	}

	return nil
}

func (h *HallIndex) DeleteHall(ctx context.Context, hallID int64) error {
	req := esapi.DeleteRequest{
		Index:      h.index,
		DocumentID: strconv.FormatInt(hallID, 10),
	}

	res, err := req.Do(ctx, h.client)
	if err != nil {
		return fmt.Errorf("failed to delete hall %d from index: %w", hallID, err)
	}
	defer res.Body.Close()

	// 404 just means the document was never indexed.
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("deleting hall %d returned %s", hallID, res.Status())
	}

	return nil
}

// Search runs a full-text query over name, address and description and
// returns the matching hall listings.
func (h *HallIndex) Search(ctx context.Context, query string, page, pageSize int) ([]models.ListHallsItem, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	searchBody := map[string]interface{}{
		"from": (page - 1) * pageSize,
		"size": pageSize,
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  query,
				"fields": []string{"name^2", "address", "description"},
			},
		},
	}

	body, err := json.Marshal(searchBody)
	if err != nil {
		return nil, err
	}

	req := esapi.SearchRequest{
		Index: []string{h.index},
		Body:  bytes.NewReader(body),
	}

	res, err := req.Do(ctx, h.client)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("search returned %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source hallDocument `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}

	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	items := make([]models.ListHallsItem, len(parsed.Hits.Hits))
	for i, hit := range parsed.Hits.Hits {
		items[i] = models.ListHallsItem{
			ID:       hit.Source.ID,
			CenterID: hit.Source.CenterID,
			Name:     hit.Source.Name,
			Address:  hit.Source.Address,
			Capacity: hit.Source.Capacity,
		}
	}

	return items, nil
}
