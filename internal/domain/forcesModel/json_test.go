package forcesModel

import (
	"encoding/json"
	"testing"
)

func TestStrengthWeakness_UnmarshalFlexibleId(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{`{"id":"42","contenu":"C"}`, "42"},
		{`{"id":43,"contenu":"C"}`, "43"},
		{`{"id":null,"contenu":"C"}`, ""},
		{`{"contenu":"C"}`, ""},
	}
	for _, tt := range tests {
		var item StrengthWeakness
		if err := json.Unmarshal([]byte(tt.raw), &item); err != nil {
			t.Fatalf("Unmarshal(%s) failed: %v", tt.raw, err)
		}
		if item.Id != tt.want || item.Contenu != "C" {
			t.Errorf("Unmarshal(%s) = %+v; want id %q", tt.raw, item, tt.want)
		}
	}
}
