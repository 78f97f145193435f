package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func intPtr(i int) *int { return &i }

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		request any
		wantErr string
	}{
		{"search ok", SearchRequest{Query: "budget"}, ""},
		{"search missing query", SearchRequest{}, "query is required"},
		{"search k too small", SearchRequest{Query: "q", NResults: intPtr(0)}, "n_results must be >= 1"},
		{"search k too large", SearchRequest{Query: "q", NResults: intPtr(101)}, "n_results must be <= 100"},
		{"answer missing question", AnswerRequest{}, "question is required"},
		{"add document missing text", AddDocumentRequest{DocId: "d1"}, "text is required"},
		{"forces missing party name", AddForcesRequest{}, "party_name is required"},
		{"element bad date", StrengthWeaknessCreateRequest{PartyId: "p", Type: "force", Contenu: "c", Date: "01/05/2024"}, "date_ must match 2006-01-02"},
		{"element ok", StrengthWeaknessCreateRequest{PartyId: "p", Type: "force", Contenu: "c", Date: "2024-05-01"}, ""},
		{"party missing name", PartyCreateRequest{}, "nom is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.request)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			if assert.Error(t, err) {
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestSearchFilter_ToFilter(t *testing.T) {
	var absent *SearchFilter
	assert.Nil(t, absent.ToFilter())

	f := (&SearchFilter{DocumentType: "edls", DateTo: "2024-12-31"}).ToFilter()
	assert.Equal(t, "edls", f.DocumentType)
	assert.Equal(t, "2024-12-31", f.DateTo)
}
