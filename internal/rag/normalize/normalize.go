// Package normalize projects domain records into the canonical (id, text, metadata) triple
// stored in the collection. It knows nothing about embeddings or the index.
package normalize

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/akolanti/ragsearch/internal/domain/docModel"
	"github.com/akolanti/ragsearch/internal/domain/forcesModel"
)

var ErrMissingIdentifier = errors.New("normalize: record has no identifier")

var now = time.Now

// Generic merges caller metadata over the defaults. Caller keys win.
func Generic(docId string, text string, metadata map[string]any) (docModel.Record, error) {
	if strings.TrimSpace(docId) == "" {
		return docModel.Record{}, ErrMissingIdentifier
	}

	final := docModel.Metadata{
		docModel.KeyDocType:    string(docModel.DocTypeStandard),
		docModel.KeySourceType: string(docModel.SourceInternal),
		docModel.KeyIndexedAt:  now().Format(time.RFC3339Nano),
	}
	for k, v := range Flatten(metadata) {
		final[k] = v
	}
	// doc_type and source_type must survive an explicit empty override
	if final[docModel.KeyDocType] == "" {
		final[docModel.KeyDocType] = string(docModel.DocTypeStandard)
	}
	if final[docModel.KeySourceType] == "" {
		final[docModel.KeySourceType] = string(docModel.SourceInternal)
	}

	return docModel.Record{Id: docId, Text: text, Metadata: final}, nil
}

func EDLS(item docModel.EDLSItem) (docModel.Record, error) {
	if strings.TrimSpace(item.Id) == "" {
		return docModel.Record{}, ErrMissingIdentifier
	}

	summary, keyPoints := "", ""
	if item.AIAnalysis != nil {
		summary = item.AIAnalysis.Summary
		keyPoints = strings.Join(item.AIAnalysis.KeyPoints, " ")
	}

	text := labelled(
		"TITLE", item.Title,
		"CONTENT", item.Content,
		"SUMMARY", summary,
		"KEY POINTS", keyPoints,
	)

	status := item.Status
	if status == "" {
		status = "new"
	}

	return docModel.Record{
		Id:   docModel.EDLSIdPrefix + item.Id,
		Text: text,
		Metadata: docModel.Metadata{
			docModel.KeyDocType:    string(docModel.DocTypeEDLS),
			docModel.KeySourceType: string(docModel.SourceInternal),
			"title":                item.Title,
			"status":               status,
			"classification":       Stringify(item.Classification),
			docModel.KeyCreatedAt:  item.CreatedAt,
			"updated_at":           item.UpdatedAt,
		},
	}, nil
}

func Forces(item forcesModel.StrengthWeakness, partyName string) (docModel.Record, error) {
	if strings.TrimSpace(item.Id) == "" {
		return docModel.Record{}, ErrMissingIdentifier
	}

	typeElement := string(item.Type)
	categorie := forcesModel.Deref(item.Categorie)

	text := labelled(
		"PARTY", partyName,
		"TYPE", typeElement,
		"CATEGORY", categorie,
		"CONTENT", item.Contenu,
		"SUMMARY", forcesModel.Deref(item.Resume),
		"SOURCE", forcesModel.Deref(item.Source),
	)

	return docModel.Record{
		Id:   docModel.ForcesIdPrefix + item.Id,
		Text: text,
		Metadata: docModel.Metadata{
			docModel.KeyDocType:    string(docModel.DocTypeForces),
			docModel.KeySourceType: string(docModel.SourceInternal),
			"party_id":             item.PartyId,
			"party_name":           partyName,
			"type_element":         typeElement,
			"categorie":            categorie,
			"date":                 item.Date,
		},
	}, nil
}

// labelled renders label/value pairs as "LABEL: value" blocks separated by a blank line.
// Every pair is rendered even when the value is empty.
func labelled(pairs ...string) string {
	var b strings.Builder
	for i := 0; i+1 < len(pairs); i += 2 {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(pairs[i])
		b.WriteString(": ")
		b.WriteString(pairs[i+1])
	}
	return b.String()
}

// Flatten coerces arbitrary JSON-ish metadata into scalar strings.
func Flatten(in map[string]any) docModel.Metadata {
	out := make(docModel.Metadata, len(in))
	for k, v := range in {
		out[k] = Stringify(v)
	}
	return out
}

// Stringify renders a scalar as text; nested values are encoded as JSON.
func Stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprint(t)
	case json.Number:
		return t.String()
	case fmt.Stringer:
		return t.String()
	default:
		raw, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(raw)
	}
}
