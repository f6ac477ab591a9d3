package retrieval

import (
	"context"
	"fmt"

	"github.com/typesense/typesense-go/v2/typesense"
	typesenseapi "github.com/typesense/typesense-go/v2/typesense/api"
)

// TypesenseConfig configures the optional persisted lexical-index backend,
// the counterpart to QdrantIndex for the lexical half of the hybrid
// retriever when a deployment opts into cross-run index persistence.
type TypesenseConfig struct {
	Host   string
	Port   int
	APIKey string
}

// TypesenseIndex is an optional lexical-store adapter over a typesense
// collection.
type TypesenseIndex struct {
	client     *typesense.Client
	collection string
}

// NewTypesenseIndex connects to a Typesense node and binds to collection.
func NewTypesenseIndex(cfg TypesenseConfig, collection string) *TypesenseIndex {
	url := fmt.Sprintf("http://%s:%d", cfg.Host, cfg.Port)
	client := typesense.NewClient(
		typesense.WithServer(url),
		typesense.WithAPIKey(cfg.APIKey),
	)
	return &TypesenseIndex{client: client, collection: collection}
}

// IndexDocument persists a chunk's content for cross-run lexical search.
func (t *TypesenseIndex) IndexDocument(ctx context.Context, docID, content, url, title string) error {
	doc := map[string]interface{}{
		"id":      docID,
		"content": content,
		"url":     url,
		"title":   title,
	}
	action := typesenseapi.Upsert
	_, err := t.client.Collection(t.collection).Documents().Create(ctx, doc, &typesenseapi.DocumentIndexParameters{
		Action: &action,
	})
	if err != nil {
		return fmt.Errorf("typesense index document: %w", err)
	}
	return nil
}
