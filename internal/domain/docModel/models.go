package docModel

import "time"

type DocType string
type SourceType string

const (
	DocTypeStandard DocType = "standard"
	DocTypeEDLS     DocType = "edls"
	DocTypeForces   DocType = "forces"

	SourceInternal SourceType = "internal"
	SourceExternal SourceType = "external"

	//metadata keys the engine relies on
	KeyDocType    = "doc_type"
	KeySourceType = "source_type"
	KeyIndexedAt  = "indexed_at"
	KeyCreatedAt  = "created_at"

	EDLSIdPrefix   = "edls_"
	ForcesIdPrefix = "forces_"
	FileIdPrefix   = "file_"
)

// Metadata is flattened to scalar strings before it reaches the index.
type Metadata map[string]string

// Record is the canonical unit stored in the collection.
type Record struct {
	Id       string   `json:"id"`
	Text     string   `json:"text"`
	Metadata Metadata `json:"metadata"`
}

// Filter is the query-time filter. Dates are ISO-8601 strings, inclusive bounds.
type Filter struct {
	DocumentType string `json:"document_type,omitempty"`
	SourceType   string `json:"source_type,omitempty"`
	DateFrom     string `json:"date_from,omitempty"`
	DateTo       string `json:"date_to,omitempty"`
}

// Equality returns the subset the index can match natively.
func (f *Filter) Equality() map[string]string {
	eq := map[string]string{}
	if f == nil {
		return eq
	}
	if f.DocumentType != "" {
		eq[KeyDocType] = f.DocumentType
	}
	if f.SourceType != "" {
		eq[KeySourceType] = f.SourceType
	}
	return eq
}

// Match is a single hit returned by the index, ordered by ascending distance.
type Match struct {
	Id       string
	Document string
	Distance float32
	Metadata Metadata
}

type SearchResult struct {
	Documents []string   `json:"documents"`
	Ids       []string   `json:"ids"`
	Distances []float32  `json:"distances"`
	Metadatas []Metadata `json:"metadatas"`
	Error     string     `json:"error,omitempty"`
}

type ContextBundle struct {
	Question          string     `json:"question"`
	PlaceholderAnswer string     `json:"placeholder_answer"`
	Documents         []string   `json:"retrieved_context_documents"`
	Ids               []string   `json:"retrieved_context_ids"`
	Distances         []float32  `json:"distances"`
	Metadatas         []Metadata `json:"metadatas"`
	Error             string     `json:"error,omitempty"`
}

const (
	IngestStatusSuccess = "success"
	IngestStatusError   = "error"
)

type IngestResult struct {
	Status string `json:"status"`
	DocId  string `json:"doc_id,omitempty"`
	Error  string `json:"error,omitempty"`
}

// EDLSItem is a structured report as it is stored in the EDLS flat file.
type EDLSItem struct {
	Id             string      `json:"id"`
	Title          string      `json:"title"`
	Content        string      `json:"content"`
	Classification any         `json:"classification,omitempty"`
	Status         string      `json:"status,omitempty"`
	AIAnalysis     *AIAnalysis `json:"aiAnalysis,omitempty"`
	CreatedAt      string      `json:"createdAt,omitempty"`
	UpdatedAt      string      `json:"updatedAt,omitempty"`
}

type AIAnalysis struct {
	Summary   string   `json:"summary"`
	KeyPoints []string `json:"keyPoints"`
}

// UploadedDocument describes a file handed to the file ingestion path.
type UploadedDocument struct {
	Id         string
	Name       string
	Path       string
	IngestedAt time.Time
}
