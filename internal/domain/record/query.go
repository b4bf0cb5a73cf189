package record

// Query maps field names to expected scalar values. A record matches when
// every query field is present in the record and equal to it.
type Query map[string]any

// ByID returns a query selecting records whose id equals id.
func ByID(id int64) Query {
	return Query{IDField: id}
}

// Matches reports whether r satisfies every field of q. An empty query matches all records.
func (q Query) Matches(r Record) bool {
	for k, want := range q {
		got, ok := r[k]
		if !ok || !Equal(got, want) {
			return false
		}
	}
	return true
}

// Filter returns the records matching q in their original order.
func (q Query) Filter(records []Record) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if q.Matches(r) {
			out = append(out, r)
		}
	}
	return out
}

// Equal is strict scalar equality. Numbers compare by value whatever their
// Go type; strings, booleans and null compare by value; objects and arrays
// never compare equal.
func Equal(a, b any) bool {
	if x, ok := number(a); ok {
		y, ok := number(b)
		if !ok {
			return false
		}
		xi, xInt := integer(a)
		yi, yInt := integer(b)
		switch {
		case xInt && yInt:
			return xi == yi
		case xInt != yInt:
			// A whole int64 never equals a fractional or out-of-range number.
			return false
		}
		return x == y
	}
	switch x := a.(type) {
	case nil:
		return b == nil
	case string:
		y, ok := b.(string)
		return ok && x == y
	case bool:
		y, ok := b.(bool)
		return ok && x == y
	}
	return false
}
