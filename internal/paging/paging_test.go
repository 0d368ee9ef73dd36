package paging

import "testing"

func TestNormalizeClampsOutOfRangeValues(t *testing.T) {
	cases := []struct {
		name     string
		in       Request
		wantPage int
		wantSize int
	}{
		{"zero values", Request{}, 1, 10},
		{"negative page", Request{PageNumber: -3, PageSize: 20}, 1, 20},
		{"oversized page size", Request{PageNumber: 2, PageSize: 500}, 2, 100},
		{"in range untouched", Request{PageNumber: 4, PageSize: 25}, 4, 25},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tc.in.Normalize()
			if tc.in.PageNumber != tc.wantPage || tc.in.PageSize != tc.wantSize {
				t.Fatalf("normalize: want page=%d size=%d got page=%d size=%d",
					tc.wantPage, tc.wantSize, tc.in.PageNumber, tc.in.PageSize)
			}
		})
	}
}

func TestOffset(t *testing.T) {
	req := Request{PageNumber: 3, PageSize: 25}
	if got := req.Offset(); got != 50 {
		t.Fatalf("offset: want=50 got=%d", got)
	}
}

func TestNewResultPagination(t *testing.T) {
	req := Request{PageNumber: 2, PageSize: 10}
	result := NewResult([]int{1, 2, 3}, 25, req)

	if result.TotalPages != 3 {
		t.Fatalf("total pages: want=3 got=%d", result.TotalPages)
	}
	if !result.HasPrevious {
		t.Fatalf("page 2 of 3 should have a previous page")
	}
	if !result.HasNext {
		t.Fatalf("page 2 of 3 should have a next page")
	}

	var empty []string
	emptyResult := NewResult(empty, 0, Request{PageNumber: 1, PageSize: 10})
	if emptyResult.Items == nil {
		t.Fatalf("items should serialize as an empty array, not null")
	}
	if emptyResult.HasNext || emptyResult.HasPrevious {
		t.Fatalf("single empty page should have no neighbors")
	}
}
