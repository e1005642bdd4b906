package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClampPage(t *testing.T) {
	tests := []struct {
		name       string
		requested  int
		total      int64
		wantNumber int
		wantPages  int
		hasPrev    bool
		hasNext    bool
	}{
		{"first page", 1, 25, 1, 3, false, true},
		{"middle page", 2, 25, 2, 3, true, true},
		{"last page", 3, 25, 3, 3, true, false},
		{"past the end", 4, 25, 3, 3, true, false},
		{"below one", -5, 25, 1, 3, false, true},
		{"empty listing", 3, 0, 1, 1, false, false},
		{"exact fit", 2, 24, 2, 2, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := ClampPage(tt.requested, tt.total, CatalogPageSize)
			assert.Equal(t, tt.wantNumber, page.Number)
			assert.Equal(t, tt.wantPages, page.TotalPages)
			assert.Equal(t, tt.hasPrev, page.HasPrev)
			assert.Equal(t, tt.hasNext, page.HasNext)
			assert.Equal(t, (tt.wantNumber-1)*CatalogPageSize, page.Offset())
		})
	}
}

func TestParsePageNumber(t *testing.T) {
	assert.Equal(t, 3, ParsePageNumber("3"))
	assert.Equal(t, 1, ParsePageNumber("abc"))
	assert.Equal(t, 1, ParsePageNumber(""))
	assert.Equal(t, -2, ParsePageNumber("-2"))
}
