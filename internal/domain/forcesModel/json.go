package forcesModel

import (
	"encoding/json"

	"github.com/akolanti/ragsearch/internal/domain/docModel"
)

// UnmarshalJSON accepts a numeric id as well as a string, like EDLS items.
func (s *StrengthWeakness) UnmarshalJSON(b []byte) error {
	type alias StrengthWeakness
	aux := struct {
		Id any `json:"id"`
		*alias
	}{alias: (*alias)(s)}

	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	s.Id = docModel.IdString(aux.Id)
	return nil
}
