// Package record defines the schemaless record stored in a collection,
// the exact-match query over records, and page slicing.
package record

import (
	"encoding/json"
	"errors"
	"maps"
	"math"
	"strconv"
)

// IDField is the name of the identifier field every stored record carries.
const IDField = "id"

// ErrIDOverflow is returned by NextID when the largest id is already at the
// top of the int64 range.
var ErrIDOverflow = errors.New("id space exhausted")

// Record maps field names to JSON-compatible values.
type Record map[string]any

// Clone returns a shallow copy. Nested objects and arrays are shared.
func (r Record) Clone() Record {
	if r == nil {
		return Record{}
	}
	return maps.Clone(r)
}

// ID returns the record id when it is an integral number within int64.
func (r Record) ID() (int64, bool) {
	return integer(r[IDField])
}

// HasID reports whether the record carries a usable id. Missing, null, zero,
// empty-string and false ids are treated as absent and get replaced on insert.
func (r Record) HasID() bool {
	v, ok := r[IDField]
	if !ok {
		return false
	}
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	}
	if f, ok := number(v); ok {
		return f != 0 && !math.IsNaN(f)
	}
	return true
}

// Merge returns a new record with patch fields written over r's fields.
func (r Record) Merge(patch Record) Record {
	out := r.Clone()
	maps.Copy(out, patch)
	return out
}

// NextID returns one more than the largest numeric id in records, or 1 when
// there is none. Non-numeric ids are ignored and fractional ids count by
// their floor. The computation is exact over the whole int64 range; ids at
// or past math.MaxInt64 yield ErrIDOverflow.
func NextID(records []Record) (int64, error) {
	var maxID int64
	for _, r := range records {
		v := r[IDField]
		if i, ok := integer(v); ok {
			maxID = max(maxID, i)
			continue
		}
		f, ok := number(v)
		if !ok || math.IsNaN(f) {
			continue
		}
		if f >= math.MaxInt64 {
			return 0, ErrIDOverflow
		}
		if f > 0 {
			maxID = max(maxID, int64(math.Floor(f)))
		}
	}
	if maxID == math.MaxInt64 {
		return 0, ErrIDOverflow
	}
	return maxID + 1, nil
}

// integer returns v as an exact int64 when v is an integral number that fits.
// json.Number is parsed from its text so digits beyond float64 precision are kept.
func integer(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		return int64(n), uint64(n) <= math.MaxInt64
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		return int64(n), n <= math.MaxInt64
	case json.Number:
		if i, err := strconv.ParseInt(string(n), 10, 64); err == nil {
			return i, true
		}
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return floatInteger(f)
	case float32:
		return floatInteger(float64(n))
	case float64:
		return floatInteger(n)
	}
	return 0, false
}

// floatInteger converts f when it is whole and inside [MinInt64, MaxInt64).
func floatInteger(f float64) (int64, bool) {
	if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

// number converts any Go or JSON numeric value to float64.
func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}
