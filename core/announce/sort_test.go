package announce_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/cardpipe/core"
	"github.com/gaurav-prasanna/cardpipe/core/announce"
)

func ids(posts []core.AnnouncementPost) []string {
	out := make([]string, len(posts))
	for i, p := range posts {
		out[i] = p.ID
	}
	return out
}

func TestSortPinnedFirstRegardlessOfDate(t *testing.T) {
	posts := []core.AnnouncementPost{
		{ID: "old", Date: "2024-01-01"},
		{ID: "pinned", Date: "2023-06-01", Pinned: true},
		{ID: "new", Date: "2024-06-01"},
	}
	announce.Sort(posts)
	require.Equal(t, []string{"pinned", "new", "old"}, ids(posts))
}

func TestSortSpecExample(t *testing.T) {
	posts := []core.AnnouncementPost{
		{ID: "a", Date: "2024-01-01", Pinned: false},
		{ID: "b", Date: "2024-06-01", Pinned: true},
	}
	announce.Sort(posts)
	require.Equal(t, []string{"b", "a"}, ids(posts))
}

func TestSortInvalidDatesLastAndStable(t *testing.T) {
	posts := []core.AnnouncementPost{
		{ID: "bad1", Date: "soon"},
		{ID: "ok", Date: "2020-02-02"},
		{ID: "bad2", Date: ""},
		{ID: "tie1", Date: "2021-01-01"},
		{ID: "tie2", Date: "2021-01-01T00:00:00Z"},
	}
	announce.Sort(posts)
	require.Equal(t, []string{"tie1", "tie2", "ok", "bad1", "bad2"}, ids(posts))
}

func TestParseDateLayouts(t *testing.T) {
	for _, s := range []string{"2024-03-05", "2024-03-05T10:00:00Z", "2024-03-05T10:00:00", "2024-03-05T10:00"} {
		d, ok := announce.ParseDate(s)
		require.True(t, ok, s)
		require.Equal(t, 2024, d.Year())
		require.Equal(t, time.March, d.Month())
	}
	_, ok := announce.ParseDate("03/05/2024")
	require.False(t, ok)
}

func TestFormatDateFallsBackToLiteral(t *testing.T) {
	require.Equal(t, "Mar 5, 2024", announce.FormatDate("2024-03-05", "Jan 2, 2006"))
	require.Equal(t, "next week", announce.FormatDate("next week", "Jan 2, 2006"))
}

func TestLatestDate(t *testing.T) {
	raw := []any{
		map[string]any{"date": "2024-02-01"},
		map[string]any{"date": "2024-11-30"},
		map[string]any{"date": 5},
		"junk",
		nil,
	}
	require.Equal(t, "2024-11-30", announce.LatestDate(raw))
	require.Equal(t, "", announce.LatestDate(nil))
	require.Equal(t, "", announce.LatestDate(map[string]any{"date": "2024-01-01"}))
}

func TestSortOrderProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	base := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

	properties.Property("pinned before unpinned, then non-increasing date", prop.ForAll(
		func(pins []bool, days []int) bool {
			n := len(pins)
			if len(days) < n {
				n = len(days)
			}
			posts := make([]core.AnnouncementPost, n)
			for i := 0; i < n; i++ {
				date := base.AddDate(0, 0, days[i]).Format("2006-01-02")
				if days[i]%7 == 0 {
					date = "not-a-date"
				}
				posts[i] = core.AnnouncementPost{ID: fmt.Sprint(i), Date: date, Pinned: pins[i]}
			}

			announce.Sort(posts)

			for i := 1; i < n; i++ {
				prev, cur := posts[i-1], posts[i]
				if !prev.Pinned && cur.Pinned {
					return false
				}
				if prev.Pinned != cur.Pinned {
					continue
				}
				pt, _ := announce.ParseDate(prev.Date)
				ct, _ := announce.ParseDate(cur.Date)
				if pt.Before(ct) {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.Bool()),
		gen.SliceOf(gen.IntRange(0, 1500)),
	))

	properties.TestingRun(t)
}
