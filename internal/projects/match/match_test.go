package match_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/windscape-energy/windscape-backend/internal/projects/domain"
	"github.com/windscape-energy/windscape-backend/internal/projects/match"
)

func candidates(names ...string) []domain.ProjectRecord {
	out := make([]domain.ProjectRecord, 0, len(names))
	for _, n := range names {
		out = append(out, domain.ProjectRecord{ProjectID: "id-" + n, ProjectName: n})
	}
	return out
}

func names(records []domain.ProjectRecord) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.ProjectName)
	}
	return out
}

var farms = candidates("west-texas-wind-farm", "east-texas-wind-farm", "panhandle-wind")

func TestMatch_ExactName(t *testing.T) {
	got := match.Match("west-texas-wind-farm", farms)
	require.NotEmpty(t, got)
	assert.Equal(t, "west-texas-wind-farm", got[0].ProjectName)
}

func TestMatch_NormalizedSubstring(t *testing.T) {
	t.Run("spaces match hyphenated names", func(t *testing.T) {
		got := match.Match("west texas", farms)
		assert.Contains(t, names(got), "west-texas-wind-farm")
	})

	t.Run("case-insensitive", func(t *testing.T) {
		got := match.Match("West Texas", farms)
		assert.Contains(t, names(got), "west-texas-wind-farm")
	})

	t.Run("shared substring matches several", func(t *testing.T) {
		got := match.Match("texas", farms)
		assert.Contains(t, names(got), "west-texas-wind-farm")
		assert.Contains(t, names(got), "east-texas-wind-farm")
		assert.NotContains(t, names(got), "panhandle-wind")
	})
}

func TestMatch_TokenOverlap(t *testing.T) {
	got := match.Match("panhandle", farms)
	require.Len(t, got, 1)
	assert.Equal(t, "panhandle-wind", got[0].ProjectName)
}

func TestMatch_NoMatch(t *testing.T) {
	got := match.Match("california", farms)
	assert.Empty(t, got)
}

func TestMatch_Ranking(t *testing.T) {
	t.Run("exact match ranks above substring matches", func(t *testing.T) {
		pool := candidates("wind", "wind-farm", "offshore-wind")
		got := match.Match("wind", pool)
		require.NotEmpty(t, got)
		assert.Equal(t, "wind", got[0].ProjectName)
	})

	t.Run("no duplicates across tiers", func(t *testing.T) {
		got := match.Match("panhandle-wind", farms)
		seen := map[string]int{}
		for _, r := range got {
			seen[r.ProjectName]++
		}
		for name, count := range seen {
			assert.Equal(t, 1, count, "duplicate result for %s", name)
		}
	})

	t.Run("deterministic across calls", func(t *testing.T) {
		first := names(match.Match("wind", farms))
		for i := 0; i < 5; i++ {
			assert.Equal(t, first, names(match.Match("wind", farms)))
		}
	})
}
