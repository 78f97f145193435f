package rag_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/akolanti/ragsearch/internal/config"
	"github.com/akolanti/ragsearch/internal/domain/docModel"
	"github.com/akolanti/ragsearch/internal/domain/forcesModel"
	"github.com/akolanti/ragsearch/internal/rag"
	"github.com/akolanti/ragsearch/internal/rag/embedding/hashEmbedding"
	"github.com/akolanti/ragsearch/internal/rag/normalize"
	"github.com/akolanti/ragsearch/internal/rag/vectorDB"
	"github.com/akolanti/ragsearch/internal/rag/vectorDB/memoryDB"
)

func newEngine() (rag.Service, *memoryDB.Index) {
	idx := memoryDB.NewMemoryIndex(64)
	return rag.NewService(idx, hashEmbedding.NewHashEmbedder(64)), idx
}

func testCtx() context.Context {
	return context.WithValue(context.Background(), config.TRACE_ID_KEY, "test-trace")
}

func strPtr(s string) *string { return &s }

func TestAdd_IdempotentUpsert(t *testing.T) {
	s, idx := newEngine()
	ctx := testCtx()

	for i := 0; i < 2; i++ {
		if err := s.AddDocument(ctx, "doc-1", fmt.Sprintf("text version %d", i), map[string]any{"title": i}); err != nil {
			t.Fatalf("AddDocument failed: %v", err)
		}
	}

	n, _ := idx.Count(ctx)
	if n != 1 {
		t.Fatalf("collection holds %d records; want 1", n)
	}

	res := s.Search(ctx, "text version", 5, nil)
	if len(res.Ids) != 1 || res.Documents[0] != "text version 1" || res.Metadatas[0]["title"] != "1" {
		t.Errorf("expected the last write to win, got %+v", res)
	}
}

func TestAddDocument_DefaultMetadata(t *testing.T) {
	s, _ := newEngine()
	ctx := testCtx()

	if err := s.AddDocument(ctx, "plain", "some plain text", nil); err != nil {
		t.Fatalf("AddDocument failed: %v", err)
	}
	res := s.Search(ctx, "plain text", 1, nil)
	if len(res.Metadatas) != 1 {
		t.Fatalf("expected one result, got %d", len(res.Metadatas))
	}
	meta := res.Metadatas[0]
	if meta["doc_type"] != "standard" || meta["source_type"] != "internal" {
		t.Errorf("defaults missing: %v", meta)
	}
	if meta["indexed_at"] == "" {
		t.Error("indexed_at not set")
	}
}

func TestAddDocument_MissingId(t *testing.T) {
	s, idx := newEngine()
	err := s.AddDocument(testCtx(), "  ", "text", nil)
	if !errors.Is(err, normalize.ErrMissingIdentifier) {
		t.Errorf("got %v; want ErrMissingIdentifier", err)
	}
	if n, _ := idx.Count(context.Background()); n != 0 {
		t.Errorf("a record was written despite the error")
	}
}

func TestAddEDLS_Result(t *testing.T) {
	s, idx := newEngine()

	ok := s.AddEDLS(testCtx(), docModel.EDLSItem{Id: "7", Title: "T", Content: "C"})
	if ok.Status != docModel.IngestStatusSuccess || ok.DocId != "edls_7" {
		t.Errorf("unexpected result %+v", ok)
	}

	bad := s.AddEDLS(testCtx(), docModel.EDLSItem{Title: "no id"})
	if bad.Status != docModel.IngestStatusError || bad.Error == "" {
		t.Errorf("expected error result, got %+v", bad)
	}
	if n, _ := idx.Count(context.Background()); n != 1 {
		t.Errorf("count = %d; want 1", n)
	}
}

func TestAdd_FailuresAreTyped(t *testing.T) {
	tests := []struct {
		name     string
		embedder *MockEmbedder
		index    *MockIndex
		want     error
	}{
		{
			name: "Embedding_Failure",
			embedder: &MockEmbedder{OnGetEmbedding: func(ctx context.Context, text string) ([]float32, error) {
				return nil, errors.New("model unavailable")
			}},
			index: &MockIndex{},
			want:  rag.ErrEmbedding,
		},
		{
			name:     "Index_Failure",
			embedder: &MockEmbedder{},
			index: &MockIndex{OnUpsert: func(ctx context.Context, points []vectorDB.Point) error {
				return errors.New("connection refused")
			}},
			want: rag.ErrIndex,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := rag.NewService(tt.index, tt.embedder)
			err := s.Add(testCtx(), docModel.Record{Id: "x", Text: "y"})

			if !errors.Is(err, tt.want) {
				t.Fatalf("got %v; want %v", err, tt.want)
			}
			var ie *rag.IngestionError
			if !errors.As(err, &ie) || ie.DocId != "x" {
				t.Errorf("expected *IngestionError for x, got %T %v", err, err)
			}

			res := s.AddForces(testCtx(), forcesModel.StrengthWeakness{Id: "1"}, "P")
			if res.Status != docModel.IngestStatusError {
				t.Errorf("AddForces status = %s; want error", res.Status)
			}
		})
	}
}

func TestSearch_EqualityFilter(t *testing.T) {
	s, _ := newEngine()
	ctx := testCtx()

	for i, dt := range []string{"standard", "edls", "forces", "edls", "standard", "forces"} {
		id := fmt.Sprintf("d%d", i)
		if err := s.AddDocument(ctx, id, "budget report "+id, map[string]any{"doc_type": dt}); err != nil {
			t.Fatalf("AddDocument failed: %v", err)
		}
	}

	for _, k := range []int{1, 2, 5, 10} {
		for _, q := range []string{"budget", "something unrelated", ""} {
			res := s.Search(ctx, q, k, &docModel.Filter{DocumentType: "edls"})
			if res.Error != "" {
				t.Fatalf("unexpected error %s", res.Error)
			}
			if len(res.Ids) > k || len(res.Ids) > 2 {
				t.Errorf("k=%d q=%q returned %d results", k, q, len(res.Ids))
			}
			for _, m := range res.Metadatas {
				if m["doc_type"] != "edls" {
					t.Errorf("k=%d q=%q leaked doc_type %s", k, q, m["doc_type"])
				}
			}
		}
	}
}

func TestSearch_DatePostFilterBestEffort(t *testing.T) {
	s, _ := newEngine()
	ctx := testCtx()

	records := []docModel.Record{
		{Id: "old", Text: "annual review", Metadata: docModel.Metadata{"doc_type": "edls", "created_at": "2023-01-01"}},
		{Id: "new", Text: "annual review", Metadata: docModel.Metadata{"doc_type": "edls", "created_at": "2023-07-15T10:00:00Z"}},
		{Id: "blank", Text: "annual review", Metadata: docModel.Metadata{"doc_type": "edls", "created_at": ""}},
		{Id: "garbage", Text: "annual review", Metadata: docModel.Metadata{"doc_type": "edls", "created_at": "not a date"}},
	}
	for _, r := range records {
		if err := s.Add(ctx, r); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}

	res := s.Search(ctx, "annual review", 10, &docModel.Filter{DateFrom: "2023-06-01"})
	got := strings.Join(sorted(res.Ids), ",")
	if got != "blank,garbage,new" {
		t.Errorf("date_from kept %s; want blank,garbage,new", got)
	}

	res = s.Search(ctx, "annual review", 10, &docModel.Filter{DateTo: "2023-01-01"})
	got = strings.Join(sorted(res.Ids), ",")
	if got != "blank,garbage,old" {
		t.Errorf("date_to kept %s; want blank,garbage,old", got)
	}
}

func TestSearch_ResultCapPreservesOrder(t *testing.T) {
	s, _ := newEngine()
	ctx := testCtx()

	for i := 0; i < 12; i++ {
		created := "2024-01-01"
		if i%2 == 0 {
			created = "2020-01-01"
		}
		r := docModel.Record{
			Id:       fmt.Sprintf("r%02d", i),
			Text:     strings.Repeat("alpha ", i+1) + fmt.Sprintf("beta%d", i),
			Metadata: docModel.Metadata{"doc_type": "standard", "created_at": created},
		}
		if err := s.Add(ctx, r); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}

	all := s.Search(ctx, "alpha", 5, nil)
	if len(all.Ids) != 5 {
		t.Fatalf("got %d results; want 5", len(all.Ids))
	}
	for i := 1; i < len(all.Distances); i++ {
		if all.Distances[i] < all.Distances[i-1] {
			t.Errorf("distances not ascending: %v", all.Distances)
		}
	}

	filtered := s.Search(ctx, "alpha", 5, &docModel.Filter{DateFrom: "2023-01-01"})
	if len(filtered.Ids) > 5 {
		t.Fatalf("filtered set larger than k: %d", len(filtered.Ids))
	}
	// subsequence of the unfiltered top-k, same order
	j := 0
	for _, id := range filtered.Ids {
		for j < len(all.Ids) && all.Ids[j] != id {
			j++
		}
		if j == len(all.Ids) {
			t.Fatalf("filtered ids %v are not an ordered subset of %v", filtered.Ids, all.Ids)
		}
	}
}

func TestSearch_ErrorVersusNoMatch(t *testing.T) {
	broken := rag.NewService(&MockIndex{OnQuery: func(ctx context.Context, v []float32, k int, eq map[string]string) ([]docModel.Match, error) {
		return nil, errors.New("collection not found")
	}}, &MockEmbedder{})

	res := broken.Search(testCtx(), "anything", 5, nil)
	if res.Error == "" {
		t.Error("expected error field for unreachable index")
	}
	if res.Ids == nil || len(res.Ids) != 0 || res.Documents == nil || res.Distances == nil || res.Metadatas == nil {
		t.Errorf("expected empty non-nil slices, got %+v", res)
	}

	empty, _ := newEngine()
	res = empty.Search(testCtx(), "anything", 5, nil)
	if res.Error != "" || len(res.Ids) != 0 {
		t.Errorf("expected clean empty result, got %+v", res)
	}

	embedFail := rag.NewService(&MockIndex{}, &MockEmbedder{OnGetEmbedding: func(ctx context.Context, text string) ([]float32, error) {
		return nil, errors.New("quota")
	}})
	if res = embedFail.Search(testCtx(), "anything", 5, nil); res.Error == "" {
		t.Error("expected error field for embedding failure")
	}
}

func TestForces_EndToEnd(t *testing.T) {
	s, _ := newEngine()
	ctx := testCtx()

	out := s.AddForces(ctx, forcesModel.StrengthWeakness{
		Id:      "42",
		PartyId: "p1",
		Type:    forcesModel.TypeForce,
		Contenu: "X",
		Date:    "2024-01-01",
	}, "RHDP")
	if out.Status != docModel.IngestStatusSuccess {
		t.Fatalf("AddForces failed: %+v", out)
	}
	if err := s.AddDocument(ctx, "noise", "X", nil); err != nil {
		t.Fatalf("AddDocument failed: %v", err)
	}

	res := s.Search(ctx, "X", 1, &docModel.Filter{DocumentType: "forces"})
	if len(res.Ids) != 1 || res.Ids[0] != "forces_42" {
		t.Fatalf("got ids %v; want [forces_42]", res.Ids)
	}
	if res.Metadatas[0]["party_name"] != "RHDP" {
		t.Errorf("party_name = %q; want RHDP", res.Metadatas[0]["party_name"])
	}
}

func TestAnswerQuestion_Placeholder(t *testing.T) {
	s, _ := newEngine()
	ctx := testCtx()
	_ = s.AddEDLS(ctx, docModel.EDLSItem{Id: "1", Title: "security", Content: "security incident"})
	_ = s.AddForces(ctx, forcesModel.StrengthWeakness{Id: "2", Contenu: "security policy", Categorie: strPtr("x")}, "P")

	bundle := s.AnswerQuestion(ctx, "security", 3, nil)
	if bundle.Error != "" {
		t.Fatalf("unexpected error %s", bundle.Error)
	}
	if bundle.Question != "security" || len(bundle.Ids) != 2 {
		t.Fatalf("unexpected bundle %+v", bundle)
	}
	want := "LLM Answer Generation (Pending): Based on 2 retrieved documents, the answer to 'security' would be generated here.\n\nTypes de documents utilisés comme contexte: edls, forces"
	if bundle.PlaceholderAnswer != want {
		t.Errorf("placeholder = %q", bundle.PlaceholderAnswer)
	}

	emptyEngine, _ := newEngine()
	b := emptyEngine.AnswerQuestion(ctx, "q", 3, nil)
	if !strings.HasSuffix(b.PlaceholderAnswer, "contexte: standard") || !strings.Contains(b.PlaceholderAnswer, "Based on 0 retrieved") {
		t.Errorf("placeholder for no results = %q", b.PlaceholderAnswer)
	}
}

func TestAnswerQuestion_Error(t *testing.T) {
	s := rag.NewService(&MockIndex{OnQuery: func(ctx context.Context, v []float32, k int, eq map[string]string) ([]docModel.Match, error) {
		return nil, errors.New("down")
	}}, &MockEmbedder{})

	b := s.AnswerQuestion(testCtx(), "q", 3, nil)
	if b.Error == "" || b.PlaceholderAnswer != "Error occurred during context retrieval." {
		t.Errorf("unexpected bundle %+v", b)
	}
}

func TestAddBatch_UpsertsInSlices(t *testing.T) {
	var calls []int
	idx := &MockIndex{OnUpsert: func(ctx context.Context, points []vectorDB.Point) error {
		calls = append(calls, len(points))
		return nil
	}}
	s := rag.NewService(idx, &MockEmbedder{})

	records := make([]docModel.Record, 2*config.UpsertBatch+5)
	for i := range records {
		records[i] = docModel.Record{Id: fmt.Sprintf("file_j_%d", i), Text: "chunk"}
	}
	if err := s.AddBatch(testCtx(), records); err != nil {
		t.Fatalf("AddBatch failed: %v", err)
	}
	if len(calls) != 3 || calls[0] != config.UpsertBatch || calls[2] != 5 {
		t.Errorf("upsert slices = %v", calls)
	}
}

func TestAddBatch_VectorCountMismatch(t *testing.T) {
	s := rag.NewService(&MockIndex{}, &MockEmbedder{OnBatchEmbedding: func(ctx context.Context, texts []string) ([][]float32, error) {
		return [][]float32{{1}}, nil
	}})
	err := s.AddBatch(testCtx(), []docModel.Record{{Id: "a"}, {Id: "b"}})
	if !errors.Is(err, rag.ErrEmbedding) {
		t.Errorf("got %v; want ErrEmbedding", err)
	}
}

func TestRemove(t *testing.T) {
	s, idx := newEngine()
	ctx := testCtx()
	_ = s.AddDocument(ctx, "forces_1", "a", nil)
	_ = s.AddDocument(ctx, "forces_2", "b", nil)

	if err := s.Remove(ctx, "forces_1"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if n, _ := idx.Count(ctx); n != 1 {
		t.Errorf("count = %d; want 1", n)
	}
}

func sorted(in []string) []string {
	out := append([]string(nil), in...)
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j] < out[j-1]; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}
