package repos

import (
	"testing"

	"github.com/skillmatrixhq/skillmatrix-backend/internal/paging"
)

func TestOrderClauseWhitelistsSortColumns(t *testing.T) {
	sortable := map[string]string{
		"name":      "full_name",
		"createdAt": "created_at",
	}

	cases := []struct {
		name string
		req  paging.Request
		want string
	}{
		{"mapped column ascending", paging.Request{SortBy: "name"}, "full_name ASC"},
		{"mapped column descending", paging.Request{SortBy: "name", SortDescending: true}, "full_name DESC"},
		{"unknown column falls back", paging.Request{SortBy: "password_hash"}, "created_at ASC"},
		{"injection attempt falls back", paging.Request{SortBy: "name; DROP TABLE employee"}, "created_at ASC"},
		{"empty sort falls back", paging.Request{}, "created_at ASC"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := orderClause(tc.req, sortable, "created_at")
			if got != tc.want {
				t.Fatalf("orderClause: want=%q got=%q", tc.want, got)
			}
		})
	}
}
