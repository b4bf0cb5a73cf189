package record

import "testing"

func makeRecords(n int) []Record {
	out := make([]Record, n)
	for i := range out {
		out[i] = Record{"id": float64(i + 1)}
	}
	return out
}

func TestPaginate_SecondPage(t *testing.T) {
	p := Paginate(makeRecords(3), 2, 2)

	if len(p.Data) != 1 {
		t.Fatalf("len(data) = %d, want 1", len(p.Data))
	}
	if id, _ := p.Data[0].ID(); id != 3 {
		t.Errorf("data[0].id = %d, want 3", id)
	}
	want := Pagination{Page: 2, Limit: 2, Total: 3, TotalPages: 2}
	if p.Pagination != want {
		t.Errorf("pagination = %+v, want %+v", p.Pagination, want)
	}
}

func TestPaginate_LengthProperty(t *testing.T) {
	for total := 0; total <= 12; total++ {
		records := makeRecords(total)
		for limit := 1; limit <= 5; limit++ {
			for page := 1; page <= 6; page++ {
				p := Paginate(records, page, limit)
				want := min(limit, max(0, total-(page-1)*limit))
				if len(p.Data) != want {
					t.Fatalf("total=%d page=%d limit=%d: len=%d, want %d", total, page, limit, len(p.Data), want)
				}
				wantPages := (total + limit - 1) / limit
				if p.Pagination.TotalPages != wantPages {
					t.Fatalf("total=%d limit=%d: totalPages=%d, want %d", total, limit, p.Pagination.TotalPages, wantPages)
				}
			}
		}
	}
}

func TestPaginate_OutOfRange(t *testing.T) {
	records := makeRecords(5)
	tests := []struct {
		name        string
		page, limit int
		wantPages   int
	}{
		{"page zero", 0, 2, 3},
		{"negative page", -1, 2, 3},
		{"past the end", 10, 2, 3},
		{"zero limit", 1, 0, 0},
		{"negative limit", 1, -3, 0},
		{"huge page", int(^uint(0) >> 1), 1 << 20, 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := Paginate(records, tc.page, tc.limit)
			if p.Data == nil || len(p.Data) != 0 {
				t.Errorf("data = %#v, want empty non-nil", p.Data)
			}
			if p.Pagination.Total != 5 {
				t.Errorf("total = %d, want 5", p.Pagination.Total)
			}
			if p.Pagination.TotalPages != tc.wantPages {
				t.Errorf("totalPages = %d, want %d", p.Pagination.TotalPages, tc.wantPages)
			}
		})
	}
}

func TestPaginate_HugeLimit(t *testing.T) {
	p := Paginate(makeRecords(3), 1, int(^uint(0)>>1))
	if len(p.Data) != 3 {
		t.Fatalf("len(data) = %d, want 3", len(p.Data))
	}
	if p.Pagination.TotalPages != 1 {
		t.Errorf("totalPages = %d, want 1", p.Pagination.TotalPages)
	}
}

func TestPaginate_CopiesSlice(t *testing.T) {
	records := makeRecords(3)
	p := Paginate(records, 1, 2)
	p.Data[0] = Record{"id": 99}
	if id, _ := records[0].ID(); id != 1 {
		t.Error("page data aliases the source slice")
	}
}
