package model

import (
	"encoding/json"
	"math"
	"testing"
)

func TestTotalPages(t *testing.T) {
	tests := []struct {
		total, limit, want int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{25, 10, 3},
		{100, 7, 15},
		{5, 0, 0},
	}
	for _, tt := range tests {
		if got := TotalPages(tt.total, tt.limit); got != tt.want {
			t.Errorf("TotalPages(%d, %d) = %d, want %d", tt.total, tt.limit, got, tt.want)
		}
	}
}

func TestNewPage_Invariants(t *testing.T) {
	for total := 0; total <= 35; total++ {
		for limit := 1; limit <= 12; limit++ {
			pages := TotalPages(total, limit)
			for page := 1; page <= max(pages, 1)+2; page++ {
				opts := ListOptions{Page: page, Limit: limit}
				n := min(limit, max(total-opts.Offset(), 0))
				p := NewPage(make([]int, n), total, opts)

				if p.TotalPages*limit < total || (p.TotalPages > 0 && (p.TotalPages-1)*limit >= total) {
					t.Fatalf("total=%d limit=%d: TotalPages=%d is not ceil", total, limit, p.TotalPages)
				}
				if len(p.Data) > p.Limit {
					t.Fatalf("total=%d limit=%d page=%d: %d items exceed page size", total, limit, page, len(p.Data))
				}
				if p.Page < 1 || p.Page > max(p.TotalPages, 1) {
					t.Fatalf("total=%d limit=%d: page %d out of range", total, limit, p.Page)
				}
			}
		}
	}
}

func TestNewPage_PastLastPage(t *testing.T) {
	tests := []struct {
		name  string
		page  int
		total int
		want  int
	}{
		{"one past", 4, 25, 3},
		{"far past", math.MaxInt, 25, 3},
		{"empty list", 7, 0, 1},
		{"last page kept", 3, 25, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPage[int](nil, tt.total, ListOptions{Page: tt.page, Limit: 10})
			if p.Page != tt.want {
				t.Errorf("Page = %d, want %d", p.Page, tt.want)
			}
		})
	}
}

func TestListOptions_ClampToKeepsOffsetInRange(t *testing.T) {
	o := ListOptions{Page: math.MaxInt, Limit: 10}
	o.Clamp()
	o.ClampTo(25)
	if o.Page != 3 || o.Offset() != 20 {
		t.Errorf("page %d offset %d, want 3 and 20", o.Page, o.Offset())
	}
}

func TestNewPage_NilItemsEncodeAsEmptyArray(t *testing.T) {
	p := NewPage[Project](nil, 0, DefaultListOptions())
	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"data":[],"total":0,"page":1,"limit":10,"totalPages":0}`
	if string(data) != want {
		t.Errorf("json = %s, want %s", data, want)
	}
}

func TestPagination_RemoveOne(t *testing.T) {
	tests := []struct {
		name string
		in   Pagination
		want Pagination
	}{
		{"middle", Pagination{Total: 25, Page: 2, Limit: 10, TotalPages: 3}, Pagination{Total: 24, Page: 2, Limit: 10, TotalPages: 3}},
		{"drops a page", Pagination{Total: 21, Page: 3, Limit: 10, TotalPages: 3}, Pagination{Total: 20, Page: 2, Limit: 10, TotalPages: 2}},
		{"last item", Pagination{Total: 1, Page: 1, Limit: 10, TotalPages: 1}, Pagination{Total: 0, Page: 1, Limit: 10, TotalPages: 0}},
		{"already empty", Pagination{Total: 0, Page: 1, Limit: 10, TotalPages: 0}, Pagination{Total: 0, Page: 1, Limit: 10, TotalPages: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in
			got.RemoveOne()
			if got != tt.want {
				t.Errorf("RemoveOne() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestListOptions_Clamp(t *testing.T) {
	tests := []struct {
		in, want ListOptions
	}{
		{ListOptions{}, ListOptions{Page: 1, Limit: 10}},
		{ListOptions{Page: -3, Limit: 500}, ListOptions{Page: 1, Limit: 100}},
		{ListOptions{Page: 4, Limit: 25}, ListOptions{Page: 4, Limit: 25}},
	}
	for _, tt := range tests {
		got := tt.in
		got.Clamp()
		if got != tt.want {
			t.Errorf("Clamp(%+v) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
	if off := (ListOptions{Page: 3, Limit: 10}).Offset(); off != 20 {
		t.Errorf("Offset() = %d, want 20", off)
	}
}
