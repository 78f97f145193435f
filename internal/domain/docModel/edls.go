package docModel

import (
	"encoding/json"
	"strconv"
)

// UnmarshalJSON accepts numeric ids as well as strings.
func (e *EDLSItem) UnmarshalJSON(b []byte) error {
	type alias EDLSItem
	aux := struct {
		Id any `json:"id"`
		*alias
	}{alias: (*alias)(e)}

	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	e.Id = IdString(aux.Id)
	return nil
}

// IdString renders a decoded JSON id. Numbers lose no digits, null becomes "".
func IdString(id any) string {
	switch v := id.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case nil:
		return ""
	default:
		raw, _ := json.Marshal(v)
		return string(raw)
	}
}
