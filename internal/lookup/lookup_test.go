package lookup_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hmuraoka/seatwatch/internal/lookup"
	"github.com/hmuraoka/seatwatch/pkg/logger"
	"github.com/hmuraoka/seatwatch/pkg/resolve"
	domain "github.com/hmuraoka/seatwatch/pkg/types"
)

const twoTrainPage = `
<html><body>
<table class="resList">
  <caption>サンライズ瀬戸</caption>
  <tr><td>ノビノビ座席</td><td><input type="radio" value="nobinobi"><img src="x.gif" alt="残席なし"></td></tr>
  <tr><td>シングル</td><td><img src="o.gif" alt="残席あり"></td></tr>
  <tr><td>ソロ</td><td title="満席">×</td></tr>
</table>
<table class="resList">
  <caption>サンライズ出雲</caption>
  <tr><td>ノビノビ座席</td><td><input type="radio" value="nobinobi"><img src="o.gif" alt="残席あり"></td></tr>
  <tr><td>シングル</td><td>空席なし</td></tr>
</table>
</body></html>`

func splitTwoTrains(t *testing.T) []*lookup.Section {
	t.Helper()
	secs, err := lookup.SplitSections(
		twoTrainPage,
		[]string{"サンライズ瀬戸", "サンライズ出雲"},
		"table.resList",
	)
	require.NoError(t, err)
	require.Len(t, secs, 2)
	return secs
}

func TestSplitSections_ScopesByTrain(t *testing.T) {
	t.Parallel()

	secs := splitTwoTrains(t)
	assert.Equal(t, "サンライズ瀬戸", secs[0].Train)
	assert.Contains(t, secs[0].NormalizedText(), "サンライズ瀬戸")
	assert.NotContains(t, secs[0].NormalizedText(), "サンライズ出雲")
}

func TestSplitSections_FallsBackToWholePage(t *testing.T) {
	t.Parallel()

	secs, err := lookup.SplitSections(
		twoTrainPage,
		[]string{"サンライズ瀬戸"},
		"div.absent",
	)
	require.NoError(t, err)
	require.Len(t, secs, 1)
	// No matching section element: the whole page serves as the section.
	assert.Contains(t, secs[0].NormalizedText(), "サンライズ出雲")
}

func TestSection_ControlRow(t *testing.T) {
	t.Parallel()

	secs := splitTwoTrains(t)

	snap, ok := secs[0].ControlRow("nobinobi")
	require.True(t, ok)
	assert.Equal(t, []string{"残席なし"}, snap.IconIndicators)
	assert.Contains(t, snap.TextContent, "ノビノビ座席")

	_, ok = secs[0].ControlRow("does-not-exist")
	assert.False(t, ok)
}

func TestSection_KeywordRows(t *testing.T) {
	t.Parallel()

	secs := splitTwoTrains(t)

	rows := secs[0].KeywordRows("シングル")
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"残席あり"}, rows[0].IconIndicators)

	rows = secs[0].KeywordRows("ソロ")
	require.Len(t, rows, 1)
	assert.Empty(t, rows[0].IconIndicators)
	assert.Equal(t, []string{"満席"}, rows[0].AttributeIndicators)

	assert.Empty(t, secs[0].KeywordRows("存在しない部屋"))
}

func TestFinder_ResolveRoom(t *testing.T) {
	t.Parallel()

	secs := splitTwoTrains(t)
	f := lookup.NewFinder(resolve.WindowRadiusMulti, logger.Discard())

	tests := []struct {
		name       string
		section    int
		room       domain.RoomCategory
		wantStatus domain.AvailabilityStatus
	}{
		{
			name:       "form control row, negative icon",
			section:    0,
			room:       domain.RoomCategory{Name: "ノビノビ座席", FormValue: "nobinobi"},
			wantStatus: domain.StatusUnavailable,
		},
		{
			name:       "form control row, positive icon on other train",
			section:    1,
			room:       domain.RoomCategory{Name: "ノビノビ座席", FormValue: "nobinobi"},
			wantStatus: domain.StatusAvailable,
		},
		{
			name:       "keyword row with icon",
			section:    0,
			room:       domain.RoomCategory{Name: "シングル"},
			wantStatus: domain.StatusAvailable,
		},
		{
			name:       "keyword row with attribute signal",
			section:    0,
			room:       domain.RoomCategory{Name: "ソロ"},
			wantStatus: domain.StatusUnavailable,
		},
		{
			name:       "keyword row with text signal",
			section:    1,
			room:       domain.RoomCategory{Name: "シングル"},
			wantStatus: domain.StatusUnavailable,
		},
		{
			name:       "room absent from section",
			section:    1,
			room:       domain.RoomCategory{Name: "シングルデラックス", Aliases: []string{"シングルDX"}},
			wantStatus: domain.StatusUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := f.ResolveRoom(secs[tt.section], tt.room)
			assert.Equal(t, tt.wantStatus, got.Status)
		})
	}
}

func TestFinder_WindowedFallback(t *testing.T) {
	t.Parallel()

	// No table rows at all: only the windowed whole-section search can
	// resolve, and only within the radius.
	page := `<html><body><div>サンライズ出雲　ソロ　○　シングル` +
		strings.Repeat("あ", 200) + `満席</div></body></html>`

	secs, err := lookup.SplitSections(page, []string{"サンライズ出雲"}, "div")
	require.NoError(t, err)
	require.Len(t, secs, 1)

	f := lookup.NewFinder(40, logger.Discard())

	soro := f.ResolveRoom(secs[0], domain.RoomCategory{Name: "ソロ"})
	assert.Equal(t, domain.StatusAvailable, soro.Status)
	assert.Equal(t, "○", soro.Indicator)

	// 満席 sits beyond the 40-rune window around シングル; the nearby ○
	// is within it.
	single := f.ResolveRoom(secs[0], domain.RoomCategory{Name: "シングル"})
	assert.Equal(t, domain.StatusAvailable, single.Status)
}

func TestFinder_ResolveSection(t *testing.T) {
	t.Parallel()

	secs := splitTwoTrains(t)
	f := lookup.NewFinder(resolve.WindowRadiusMulti, logger.Discard())

	tr := f.ResolveSection(secs[0], []domain.RoomCategory{
		{Name: "ノビノビ座席", FormValue: "nobinobi"},
		{Name: "シングル"},
		{Name: "ソロ"},
	})

	require.Len(t, tr.Rooms, 3)
	assert.Equal(t, "サンライズ瀬戸", tr.Train)
	assert.Equal(t, domain.StatusUnavailable, tr.Rooms[0].Status)
	assert.Equal(t, domain.StatusAvailable, tr.Rooms[1].Status)
	assert.Equal(t, domain.StatusUnavailable, tr.Rooms[2].Status)
}
