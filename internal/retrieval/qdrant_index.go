package retrieval

import (
	"context"
	"fmt"

	"github.com/qdrant/go-client/qdrant"
)

// QdrantConfig configures the optional persisted vector-index backend. This
// backend is never used for the default, deterministic single-run retriever
// (its ranking semantics are an external service's, not a contract this
// module controls) — it exists only for a cross-run "persist the index"
// deployment mode, analogous to how a shared Qdrant instance could be
// reused across workflow runs instead of rebuilt each time.
type QdrantConfig struct {
	Host string
	Port int
}

// QdrantIndex is an optional vector-store adapter over a qdrant
// collection, for callers that want embeddings to persist across runs
// instead of living only in the in-memory Index.
type QdrantIndex struct {
	client     *qdrant.Client
	collection string
}

// NewQdrantIndex connects to a Qdrant instance and binds to collection.
func NewQdrantIndex(cfg QdrantConfig, collection string) (*QdrantIndex, error) {
	client, err := qdrant.NewClient(&qdrant.Config{
		Host: cfg.Host,
		Port: cfg.Port,
	})
	if err != nil {
		return nil, fmt.Errorf("connect qdrant: %w", err)
	}
	return &QdrantIndex{client: client, collection: collection}, nil
}

// Upsert persists a chunk's embedding under docID for later cross-run search.
func (q *QdrantIndex) Upsert(ctx context.Context, docID string, embedding []float64) error {
	vec := make([]float32, len(embedding))
	for i, v := range embedding {
		vec[i] = float32(v)
	}
	_, err := q.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: q.collection,
		Points: []*qdrant.PointStruct{
			{
				Id:      qdrant.NewIDNum(hashString(docID)),
				Vectors: qdrant.NewVectors(vec...),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("qdrant upsert: %w", err)
	}
	return nil
}
