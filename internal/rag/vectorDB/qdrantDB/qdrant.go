package qdrantDB

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/akolanti/ragsearch/internal/config"
	"github.com/akolanti/ragsearch/internal/domain/docModel"
	"github.com/akolanti/ragsearch/internal/rag/vectorDB"
	"github.com/akolanti/ragsearch/pkg/logger_i"
	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
)

const (
	payloadDocId    = "doc_id"
	payloadDocument = "document"
	payloadMetadata = "metadata"
)

var logger *logger_i.Logger
var qdrantInstance *qdrant.Client
var once sync.Once

type Options struct {
	Host       string
	Port       int
	APIKey     string
	UseTLS     bool
	Collection string
	Dimension  uint64
}

type ClientHolder struct {
	QObj       *qdrant.Client
	collection string
	dimension  uint64
}

// GetQdrantClient connects once and closes the connection when ctx is done.
// Returns nil when Qdrant is unreachable.
func GetQdrantClient(ctx context.Context, opts Options) *ClientHolder {
	once.Do(func() {
		logger = logger_i.NewLogger("Qdrant")
		res := newClient(opts)
		if res != nil {
			qdrantInstance = res
			go closeQdrant(ctx, qdrantInstance)
		}
	})

	if qdrantInstance == nil {
		return nil
	}
	return &ClientHolder{
		QObj:       qdrantInstance,
		collection: opts.Collection,
		dimension:  opts.Dimension,
	}
}

func newClient(opts Options) *qdrant.Client {
	client, err := qdrant.NewClient(&qdrant.Config{
		Host:     opts.Host,
		Port:     opts.Port,
		APIKey:   opts.APIKey,
		UseTLS:   opts.UseTLS,
		PoolSize: uint(config.QdrantPoolSize),
	})
	if err != nil {
		logger.Error("could not instantiate", "error", err)
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), config.QdrantConnectionTimeout)
	defer cancel()
	if _, err = client.HealthCheck(ctx); err != nil {
		logger.Error("qdrant health check failed", "host", opts.Host, "port", opts.Port, "error", err)
		_ = client.Close()
		return nil
	}
	return client
}

func closeQdrant(ctx context.Context, qi *qdrant.Client) {
	<-ctx.Done()
	logger.Info("Shutting down Qdrant")
	if err := qi.Close(); err != nil {
		logger.Error("could not close Qdrant", "error", err)
	}
	logger.Info("Closed Qdrant")
}

func (db *ClientHolder) EnsureCollection(ctx context.Context) error {
	if db.collection == "" {
		return errors.New("empty collection name")
	}

	exists, err := db.QObj.CollectionExists(ctx, db.collection)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	logger.Info("creating collection", "collectionName", db.collection, "dimension", db.dimension)
	return db.QObj.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: db.collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     db.dimension,
			Distance: qdrant.Distance_Cosine,
		}),
	})
}

func (db *ClientHolder) Upsert(ctx context.Context, points []vectorDB.Point) error {
	if len(points) == 0 {
		return nil
	}

	qdrantPoints := make([]*qdrant.PointStruct, len(points))
	for i, p := range points {
		qdrantPoints[i] = &qdrant.PointStruct{
			Id:      qdrant.NewID(PointId(p.Id)),
			Vectors: qdrant.NewVectors(p.Vector...),
			Payload: qdrant.NewValueMap(toPayload(p)),
		}
	}

	_, err := db.QObj.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: db.collection,
		Points:         qdrantPoints,
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		return fmt.Errorf("qdrant upsert failed: %w", err)
	}
	return nil
}

func (db *ClientHolder) Query(ctx context.Context, vector []float32, k int, eq map[string]string) ([]docModel.Match, error) {
	if k <= 0 {
		return []docModel.Match{}, nil
	}

	result, err := db.QObj.Query(ctx, &qdrant.QueryPoints{
		CollectionName: db.collection,
		Query:          qdrant.NewQuery(vector...),
		Limit:          qdrant.PtrOf(uint64(k)),
		Filter:         buildFilter(eq),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		logger.WithTrace(ctx).Error("Error querying Qdrant", "error", err)
		return nil, fmt.Errorf("qdrant query failed: %w", err)
	}

	matches := make([]docModel.Match, 0, len(result))
	for _, hit := range result {
		matches = append(matches, fromScored(hit.GetPayload(), hit.GetScore()))
	}
	return matches, nil
}

func (db *ClientHolder) Delete(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	pointIds := make([]*qdrant.PointId, len(ids))
	for i, id := range ids {
		pointIds[i] = qdrant.NewID(PointId(id))
	}

	_, err := db.QObj.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: db.collection,
		Points:         qdrant.NewPointsSelector(pointIds...),
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		return fmt.Errorf("qdrant delete failed: %w", err)
	}
	return nil
}

func (db *ClientHolder) Count(ctx context.Context) (uint64, error) {
	return db.QObj.Count(ctx, &qdrant.CountPoints{
		CollectionName: db.collection,
		Exact:          qdrant.PtrOf(true),
	})
}

// PointId maps an arbitrary record id onto the UUID space Qdrant accepts.
// The mapping is stable, so re-adding an id overwrites the same point.
func PointId(docId string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(docId)).String()
}

func toPayload(p vectorDB.Point) map[string]any {
	meta := make(map[string]any, len(p.Metadata))
	for k, v := range p.Metadata {
		meta[k] = v
	}
	return map[string]any{
		payloadDocId:    p.Id,
		payloadDocument: p.Document,
		payloadMetadata: meta,
	}
}

func buildFilter(eq map[string]string) *qdrant.Filter {
	if len(eq) == 0 {
		return nil
	}
	conditions := make([]*qdrant.Condition, 0, len(eq))
	for k, v := range eq {
		conditions = append(conditions, qdrant.NewMatch(payloadMetadata+"."+k, v))
	}
	return &qdrant.Filter{Must: conditions}
}

func fromScored(payload map[string]*qdrant.Value, score float32) docModel.Match {
	meta := docModel.Metadata{}
	for k, v := range payload[payloadMetadata].GetStructValue().GetFields() {
		meta[k] = v.GetStringValue()
	}
	return docModel.Match{
		Id:       payload[payloadDocId].GetStringValue(),
		Document: payload[payloadDocument].GetStringValue(),
		Distance: 1 - score,
		Metadata: meta,
	}
}
