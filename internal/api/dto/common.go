package dto

import (
	"encoding/json"
	"strconv"
	"time"
)

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

// ListMeta accompanies paginated list responses.
type ListMeta struct {
	Total   int `json:"total"`
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
}

// Warning reports a non-fatal condition on a successful response.
type Warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func formatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// formatMoney renders a numeric column the way NUMERIC(10,2) stores it.
func formatMoney(v *float64) *string {
	if v == nil {
		return nil
	}
	s := strconv.FormatFloat(*v, 'f', 2, 64)
	return &s
}

// NullableInt64 records whether a field was present in the payload, so an
// explicit null can be told apart from an omitted field.
type NullableInt64 struct {
	Set   bool
	Value *int64
}

func (n *NullableInt64) UnmarshalJSON(data []byte) error {
	n.Set = true
	if string(data) == "null" {
		n.Value = nil
		return nil
	}
	var v int64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	n.Value = &v
	return nil
}

// Cleared reports an explicit null.
func (n NullableInt64) Cleared() bool {
	return n.Set && n.Value == nil
}
