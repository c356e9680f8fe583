package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		raw         string
		total       int
		wantNumber  int
		wantPages   int
		wantNext    bool
		wantPrev    bool
		wantOffset  int
		wantPaginated bool
	}{
		{"first page of 45", "1", 45, 1, 3, true, false, 0, true},
		{"default page", "", 45, 1, 3, true, false, 0, true},
		{"last page of 45", "3", 45, 3, 3, false, true, 40, true},
		{"past the end clamps to last", "9", 45, 3, 3, false, true, 40, true},
		{"non-numeric falls back to first", "abc", 45, 1, 3, true, false, 0, true},
		{"negative falls back to first", "-2", 45, 1, 3, true, false, 0, true},
		{"empty result set", "4", 0, 1, 1, false, false, 0, false},
		{"exactly one page", "1", 20, 1, 1, false, false, 0, false},
		{"one over a page", "2", 21, 2, 2, false, true, 20, true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := New(tt.raw, tt.total, 20)
			assert.Equal(t, tt.wantNumber, p.Number)
			assert.Equal(t, tt.wantPages, p.NumPages)
			assert.Equal(t, tt.wantNext, p.HasNext)
			assert.Equal(t, tt.wantPrev, p.HasPrevious)
			assert.Equal(t, tt.wantOffset, p.Offset())
			assert.Equal(t, tt.wantPaginated, p.IsPaginated)
			assert.Equal(t, 20, p.Limit())
		})
	}
}

func TestNew_DefaultSize(t *testing.T) {
	t.Parallel()

	p := New("2", 45, 0)
	assert.Equal(t, DefaultPageSize, p.Limit())
	assert.Equal(t, DefaultPageSize, p.Offset())
}
