package docModel

import (
	"encoding/json"
	"testing"
)

func TestEDLSItem_UnmarshalFlexibleId(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{`{"id":"7","title":"T"}`, "7"},
		{`{"id":12,"title":"T"}`, "12"},
		{`{"title":"T"}`, ""},
	}
	for _, tt := range tests {
		var item EDLSItem
		if err := json.Unmarshal([]byte(tt.raw), &item); err != nil {
			t.Fatalf("Unmarshal(%s) failed: %v", tt.raw, err)
		}
		if item.Id != tt.want || item.Title != "T" {
			t.Errorf("Unmarshal(%s) = %+v; want id %q", tt.raw, item, tt.want)
		}
	}
}
