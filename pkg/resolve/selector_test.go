package resolve_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hmuraoka/seatwatch/pkg/resolve"
	domain "github.com/hmuraoka/seatwatch/pkg/types"
)

func TestSelectBest(t *testing.T) {
	t.Parallel()

	avail := func(ind string) domain.Resolution {
		return domain.Resolution{Status: domain.StatusAvailable, Indicator: ind}
	}
	unavail := func(ind string) domain.Resolution {
		return domain.Resolution{Status: domain.StatusUnavailable, Indicator: ind}
	}

	tests := []struct {
		name string
		in   []domain.Resolution
		want domain.Resolution
	}{
		{
			name: "available wins regardless of position",
			in:   []domain.Resolution{domain.Unknown(), unavail("満席"), avail("空席あり")},
			want: avail("空席あり"),
		},
		{
			name: "first available wins",
			in:   []domain.Resolution{avail("○"), avail("空席あり")},
			want: avail("○"),
		},
		{
			name: "unavailable beats unknown",
			in:   []domain.Resolution{domain.Unknown(), unavail("残席なし")},
			want: unavail("残席なし"),
		},
		{
			name: "first unavailable wins",
			in:   []domain.Resolution{unavail("×"), unavail("満席")},
			want: unavail("×"),
		},
		{
			name: "all unknown",
			in:   []domain.Resolution{domain.Unknown(), domain.Unknown()},
			want: domain.Unknown(),
		},
		{
			name: "empty sequence",
			in:   nil,
			want: domain.Unknown(),
		},
		{
			name: "single available",
			in:   []domain.Resolution{avail("▲")},
			want: avail("▲"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, resolve.SelectBest(tt.in))
		})
	}
}
