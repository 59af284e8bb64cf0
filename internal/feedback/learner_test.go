package feedback

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/reelrally/reelrally/internal/preference"
	"github.com/reelrally/reelrally/internal/video"
)

func setupLearner(t *testing.T) (*Learner, *video.InMemoryVideoRepository, *preference.InMemoryPreferenceRepository) {
	t.Helper()

	videos := video.NewInMemoryVideoRepository()
	prefs := preference.NewInMemoryPreferenceRepository()
	l := NewLearner(videos, prefs, NewMetrics(), nil)
	return l, videos, prefs
}

func seedVideo(t *testing.T, videos *video.InMemoryVideoRepository, v *video.Video) *video.Video {
	t.Helper()

	if v.ID == "" {
		v.ID = uuid.New().String()
	}
	if v.Status == "" {
		v.Status = video.StatusActive
	}
	if v.UploadedAt.IsZero() {
		v.UploadedAt = time.Now()
	}
	if err := videos.Create(context.Background(), v); err != nil {
		t.Fatalf("failed to create video: %v", err)
	}
	return v
}

func floatPtr(f float64) *float64 { return &f }

func TestRecordCounters(t *testing.T) {
	tests := []struct {
		kind         string
		wantViews    int64
		wantLikes    int64
		wantComments int64
		wantShares   int64
	}{
		{kind: KindView, wantViews: 1},
		{kind: KindLike, wantLikes: 1},
		{kind: KindComment, wantComments: 1},
		{kind: KindShare, wantShares: 1},
	}

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			l, videos, _ := setupLearner(t)
			ctx := context.Background()
			v := seedVideo(t, videos, &video.Video{CreatorID: "c1"})

			if err := l.Record(ctx, v.ID, "", tt.kind, nil); err != nil {
				t.Fatalf("failed to record: %v", err)
			}

			got, err := videos.GetByID(ctx, v.ID)
			if err != nil {
				t.Fatalf("failed to reload video: %v", err)
			}
			if got.ViewCount != tt.wantViews || got.LikeCount != tt.wantLikes ||
				got.CommentCount != tt.wantComments || got.ShareCount != tt.wantShares {
				t.Errorf("counters = %d/%d/%d/%d, want %d/%d/%d/%d",
					got.ViewCount, got.LikeCount, got.CommentCount, got.ShareCount,
					tt.wantViews, tt.wantLikes, tt.wantComments, tt.wantShares)
			}
		})
	}
}

func TestRecordRecomputesEngagementRate(t *testing.T) {
	l, videos, _ := setupLearner(t)
	ctx := context.Background()
	v := seedVideo(t, videos, &video.Video{CreatorID: "c1", ViewCount: 10, LikeCount: 1})

	if err := l.Record(ctx, v.ID, "", KindLike, nil); err != nil {
		t.Fatalf("failed to record like: %v", err)
	}

	got, err := videos.GetByID(ctx, v.ID)
	if err != nil {
		t.Fatalf("failed to reload video: %v", err)
	}
	if got.EngagementRate == nil {
		t.Fatal("engagement rate not set")
	}
	// 2 likes over 10 views.
	if *got.EngagementRate != 0.2 {
		t.Errorf("engagement rate = %v, want 0.2", *got.EngagementRate)
	}
}

func TestRecordSharesCountDouble(t *testing.T) {
	l, videos, _ := setupLearner(t)
	ctx := context.Background()
	v := seedVideo(t, videos, &video.Video{CreatorID: "c1", ViewCount: 10})

	if err := l.Record(ctx, v.ID, "", KindShare, nil); err != nil {
		t.Fatalf("failed to record share: %v", err)
	}

	got, _ := videos.GetByID(ctx, v.ID)
	if got.EngagementRate == nil || *got.EngagementRate != 0.2 {
		t.Errorf("engagement rate = %v, want 0.2", got.EngagementRate)
	}
}

func TestRecordEngagementRateUnsetWithoutViews(t *testing.T) {
	l, videos, _ := setupLearner(t)
	ctx := context.Background()
	v := seedVideo(t, videos, &video.Video{CreatorID: "c1"})

	if err := l.Record(ctx, v.ID, "", KindLike, nil); err != nil {
		t.Fatalf("failed to record like: %v", err)
	}

	got, _ := videos.GetByID(ctx, v.ID)
	if got.EngagementRate != nil {
		t.Errorf("engagement rate = %v, want unset", *got.EngagementRate)
	}
	if got.LikeCount != 1 {
		t.Errorf("like count = %d, want 1", got.LikeCount)
	}
}

func TestRecordWatchTime(t *testing.T) {
	tests := []struct {
		name           string
		video          *video.Video
		value          *float64
		wantCompletion float64
		wantReplay     float64
	}{
		{
			name:           "partial watch averages completion",
			video:          &video.Video{CreatorID: "c1", Duration: floatPtr(10), CompletionRate: 0.5},
			value:          floatPtr(5),
			wantCompletion: 0.5,
			wantReplay:     0,
		},
		{
			name:           "first sample halves toward ratio",
			video:          &video.Video{CreatorID: "c1", Duration: floatPtr(10)},
			value:          floatPtr(8),
			wantCompletion: 0.4,
			wantReplay:     0,
		},
		{
			name:           "replay saturates completion and feeds replay average",
			video:          &video.Video{CreatorID: "c1", Duration: floatPtr(10)},
			value:          floatPtr(15),
			wantCompletion: 1.0,
			wantReplay:     0.25,
		},
		{
			name:           "replay average folds in previous value",
			video:          &video.Video{CreatorID: "c1", Duration: floatPtr(10), ReplayRate: 0.5},
			value:          floatPtr(20),
			wantCompletion: 1.0,
			wantReplay:     0.75,
		},
		{
			name:           "missing duration leaves rates untouched",
			video:          &video.Video{CreatorID: "c1", CompletionRate: 0.3},
			value:          floatPtr(5),
			wantCompletion: 0.3,
			wantReplay:     0,
		},
		{
			name:           "missing value leaves rates untouched",
			video:          &video.Video{CreatorID: "c1", Duration: floatPtr(10), CompletionRate: 0.3},
			value:          nil,
			wantCompletion: 0.3,
			wantReplay:     0,
		},
		{
			name:           "negative value leaves rates untouched",
			video:          &video.Video{CreatorID: "c1", Duration: floatPtr(10), CompletionRate: 0.3},
			value:          floatPtr(-1),
			wantCompletion: 0.3,
			wantReplay:     0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, videos, _ := setupLearner(t)
			ctx := context.Background()
			v := seedVideo(t, videos, tt.video)

			if err := l.Record(ctx, v.ID, "", KindWatchTime, tt.value); err != nil {
				t.Fatalf("failed to record watch time: %v", err)
			}

			got, _ := videos.GetByID(ctx, v.ID)
			if got.CompletionRate != tt.wantCompletion {
				t.Errorf("completion rate = %v, want %v", got.CompletionRate, tt.wantCompletion)
			}
			if got.ReplayRate != tt.wantReplay {
				t.Errorf("replay rate = %v, want %v", got.ReplayRate, tt.wantReplay)
			}
		})
	}
}

func TestRecordIgnoresUnknownKind(t *testing.T) {
	l, videos, prefs := setupLearner(t)
	ctx := context.Background()
	v := seedVideo(t, videos, &video.Video{CreatorID: "c1", ViewCount: 5})

	if err := l.Record(ctx, v.ID, "viewer-1", "hover", nil); err != nil {
		t.Fatalf("unknown kind returned error: %v", err)
	}

	got, _ := videos.GetByID(ctx, v.ID)
	if got.ViewCount != 5 {
		t.Errorf("view count changed to %d", got.ViewCount)
	}
	profile, _ := prefs.GetByViewer(ctx, "viewer-1")
	if profile != nil {
		t.Error("unknown kind created a preference profile")
	}
}

func TestRecordIgnoresUnknownVideo(t *testing.T) {
	l, _, _ := setupLearner(t)

	if err := l.Record(context.Background(), uuid.New().String(), "viewer-1", KindLike, nil); err != nil {
		t.Fatalf("unknown video returned error: %v", err)
	}
}

func TestRecordLearnsFromPositiveInteraction(t *testing.T) {
	l, videos, prefs := setupLearner(t)
	ctx := context.Background()
	v := seedVideo(t, videos, &video.Video{CreatorID: "c1", ViewCount: 1, Hashtags: []string{"#cat", "#funny"}})

	// Seed a profile that previously skipped one of the hashtags.
	seeded := preference.NewProfile("viewer-1")
	seeded.AddSkippedHashtag("#cat")
	if err := prefs.Upsert(ctx, seeded); err != nil {
		t.Fatalf("failed to seed profile: %v", err)
	}

	if err := l.Record(ctx, v.ID, "viewer-1", KindLike, nil); err != nil {
		t.Fatalf("failed to record like: %v", err)
	}

	profile, err := prefs.GetByViewer(ctx, "viewer-1")
	if err != nil {
		t.Fatalf("failed to load profile: %v", err)
	}
	if profile == nil {
		t.Fatal("profile not saved")
	}
	for _, tag := range []string{"#cat", "#funny"} {
		if !profile.PrefersHashtag(tag) {
			t.Errorf("hashtag %s not preferred", tag)
		}
	}
	if profile.SkipsHashtag("#cat") {
		t.Error("liked hashtag still in skipped set")
	}
	if len(profile.PreferredCreators) != 1 || profile.PreferredCreators[0] != "c1" {
		t.Errorf("preferred creators = %v, want [c1]", profile.PreferredCreators)
	}
}

func TestRecordShortWatchSkipsHashtags(t *testing.T) {
	l, videos, prefs := setupLearner(t)
	ctx := context.Background()
	v := seedVideo(t, videos, &video.Video{CreatorID: "c1", Duration: floatPtr(100), Hashtags: []string{"#cat"}})

	// 20 of 100 seconds is under the 30% threshold.
	if err := l.Record(ctx, v.ID, "viewer-1", KindWatchTime, floatPtr(20)); err != nil {
		t.Fatalf("failed to record watch time: %v", err)
	}

	profile, _ := prefs.GetByViewer(ctx, "viewer-1")
	if profile == nil {
		t.Fatal("profile not saved")
	}
	if !profile.SkipsHashtag("#cat") {
		t.Error("hashtag not marked skipped after short watch")
	}
	if profile.PreferredDuration != nil {
		t.Errorf("preferred duration = %v, want unset", *profile.PreferredDuration)
	}
}

func TestRecordLongWatchLearnsDuration(t *testing.T) {
	l, videos, prefs := setupLearner(t)
	ctx := context.Background()
	v := seedVideo(t, videos, &video.Video{CreatorID: "c1", Duration: floatPtr(60), Hashtags: []string{"#cat"}})

	if err := l.Record(ctx, v.ID, "viewer-1", KindWatchTime, floatPtr(50)); err != nil {
		t.Fatalf("failed to record watch time: %v", err)
	}

	profile, _ := prefs.GetByViewer(ctx, "viewer-1")
	if profile == nil {
		t.Fatal("profile not saved")
	}
	if profile.PreferredDuration == nil || *profile.PreferredDuration != 60 {
		t.Errorf("preferred duration = %v, want 60", profile.PreferredDuration)
	}
	if profile.SkipsHashtag("#cat") {
		t.Error("long watch marked hashtag skipped")
	}

	// A second long watch on a shorter video averages toward it.
	v2 := seedVideo(t, videos, &video.Video{CreatorID: "c2", Duration: floatPtr(20)})
	if err := l.Record(ctx, v2.ID, "viewer-1", KindWatchTime, floatPtr(18)); err != nil {
		t.Fatalf("failed to record watch time: %v", err)
	}
	profile, _ = prefs.GetByViewer(ctx, "viewer-1")
	if profile.PreferredDuration == nil || *profile.PreferredDuration != 40 {
		t.Errorf("preferred duration = %v, want 40", profile.PreferredDuration)
	}
}

func TestRecordAnonymousSkipsLearning(t *testing.T) {
	l, videos, prefs := setupLearner(t)
	ctx := context.Background()
	v := seedVideo(t, videos, &video.Video{CreatorID: "c1", ViewCount: 1, Hashtags: []string{"#cat"}})

	if err := l.Record(ctx, v.ID, "", KindLike, nil); err != nil {
		t.Fatalf("failed to record like: %v", err)
	}

	profile, _ := prefs.GetByViewer(ctx, "")
	if profile != nil {
		t.Error("anonymous interaction created a profile")
	}
}

func TestRecordViewDoesNotCreateProfile(t *testing.T) {
	l, videos, prefs := setupLearner(t)
	ctx := context.Background()
	v := seedVideo(t, videos, &video.Video{CreatorID: "c1", Hashtags: []string{"#cat"}})

	if err := l.Record(ctx, v.ID, "viewer-1", KindView, nil); err != nil {
		t.Fatalf("failed to record view: %v", err)
	}

	profile, _ := prefs.GetByViewer(ctx, "viewer-1")
	if profile != nil {
		t.Error("plain view created a preference profile")
	}
}
