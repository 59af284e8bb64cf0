package feed

import (
	"testing"

	"github.com/reelrally/reelrally/internal/video"
)

func candidate(id, creatorID string, score float64, hashtags ...string) RankedVideo {
	return RankedVideo{
		Video: &video.Video{ID: id, CreatorID: creatorID, Hashtags: hashtags},
		Score: score,
	}
}

func resultIDs(result []RankedVideo) []string {
	ids := make([]string, len(result))
	for i, r := range result {
		ids[i] = r.Video.ID
	}
	return ids
}

func TestSelectDiverse(t *testing.T) {
	tests := []struct {
		name          string
		candidates    []RankedVideo
		maxPerCreator int
		maxPerHashtag int
		limit         int
		want          []string
	}{
		{
			name: "creator cap skips excess entries",
			candidates: []RankedVideo{
				candidate("v1", "c1", 90),
				candidate("v2", "c1", 80),
				candidate("v3", "c1", 70),
				candidate("v4", "c2", 60),
			},
			maxPerCreator: 2,
			maxPerHashtag: 3,
			limit:         10,
			want:          []string{"v1", "v2", "v4"},
		},
		{
			name: "hashtag cap skips excess entries",
			candidates: []RankedVideo{
				candidate("v1", "c1", 90, "#x"),
				candidate("v2", "c2", 80, "#x"),
				candidate("v3", "c3", 70, "#x"),
				candidate("v4", "c4", 60, "#y"),
			},
			maxPerCreator: 2,
			maxPerHashtag: 2,
			limit:         10,
			want:          []string{"v1", "v2", "v4"},
		},
		{
			name: "one blocked hashtag rejects the whole video",
			candidates: []RankedVideo{
				candidate("v1", "c1", 90, "#x"),
				candidate("v2", "c2", 80, "#x", "#y"),
				candidate("v3", "c3", 70, "#y"),
			},
			maxPerCreator: 2,
			maxPerHashtag: 1,
			limit:         10,
			want:          []string{"v1", "v3"},
		},
		{
			name: "limit cuts off remaining candidates",
			candidates: []RankedVideo{
				candidate("v1", "c1", 90),
				candidate("v2", "c2", 80),
				candidate("v3", "c3", 70),
			},
			maxPerCreator: 2,
			maxPerHashtag: 3,
			limit:         2,
			want:          []string{"v1", "v2"},
		},
		{
			name: "rejected candidate does not block later ones",
			candidates: []RankedVideo{
				candidate("v1", "c1", 90, "#x"),
				candidate("v2", "c1", 80, "#y"),
				candidate("v3", "c1", 70, "#z"),
				candidate("v4", "c2", 60, "#z"),
			},
			maxPerCreator: 2,
			maxPerHashtag: 3,
			limit:         10,
			want:          []string{"v1", "v2", "v4"},
		},
		{
			name:          "empty candidate set",
			candidates:    nil,
			maxPerCreator: 2,
			maxPerHashtag: 3,
			limit:         10,
			want:          []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resultIDs(selectDiverse(tt.candidates, tt.maxPerCreator, tt.maxPerHashtag, tt.limit))
			if len(got) != len(tt.want) {
				t.Fatalf("selected %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("selected %v, want %v", got, tt.want)
				}
			}
		})
	}
}

// A skipped hashtag alone never drops a video entirely. The penalty
// demotes it in ranking; only the diversity caps and the page limit
// exclude candidates.
func TestSelectDiverseKeepsOrder(t *testing.T) {
	candidates := []RankedVideo{
		candidate("v1", "c1", 90, "#a"),
		candidate("v2", "c2", 80, "#b"),
		candidate("v3", "c3", 70, "#c"),
	}

	got := selectDiverse(candidates, 2, 3, 10)
	if len(got) != 3 {
		t.Fatalf("expected all 3 candidates, got %d", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].Score > got[i-1].Score {
			t.Errorf("selection reordered candidates: %v after %v", got[i].Score, got[i-1].Score)
		}
	}
}
