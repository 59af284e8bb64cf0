package preference

import (
	"math"
	"testing"
	"time"
)

func TestProfileHashtagExclusivity(t *testing.T) {
	p := NewProfile("viewer-1")

	p.AddSkippedHashtag("#cat")
	p.AddSkippedHashtag("#dog")
	p.AddPreferredHashtag("#cat")

	if !p.PrefersHashtag("#cat") {
		t.Error("expected #cat to be preferred")
	}
	if p.SkipsHashtag("#cat") {
		t.Error("#cat must leave the skipped set when preferred")
	}
	if !p.SkipsHashtag("#dog") {
		t.Error("expected #dog to remain skipped")
	}

	// Negative path mirrors the positive path.
	p.AddSkippedHashtag("#cat")
	if p.PrefersHashtag("#cat") {
		t.Error("#cat must leave the preferred set when skipped")
	}
	if !p.SkipsHashtag("#cat") {
		t.Error("expected #cat to be skipped")
	}
}

func TestProfileExclusivityUnderEventSequences(t *testing.T) {
	// No hashtag may ever be in both sets, whatever the event order.
	sequences := [][]struct {
		tag     string
		skipped bool
	}{
		{{"#a", false}, {"#a", true}, {"#a", false}},
		{{"#a", true}, {"#b", true}, {"#a", false}, {"#b", false}, {"#a", true}},
		{{"#x", false}, {"#x", false}, {"#x", true}, {"#x", true}},
	}

	for i, seq := range sequences {
		p := NewProfile("viewer-1")
		for _, ev := range seq {
			if ev.skipped {
				p.AddSkippedHashtag(ev.tag)
			} else {
				p.AddPreferredHashtag(ev.tag)
			}
		}
		for _, tag := range p.PreferredHashtags {
			if p.SkipsHashtag(tag) {
				t.Errorf("sequence %d: %s present in both sets", i, tag)
			}
		}
	}
}

func TestProfileNoDuplicates(t *testing.T) {
	p := NewProfile("viewer-1")

	p.AddPreferredHashtag("#cat")
	p.AddPreferredHashtag("#cat")
	p.AddPreferredCreator("creator-1")
	p.AddPreferredCreator("creator-1")

	if len(p.PreferredHashtags) != 1 {
		t.Errorf("expected 1 preferred hashtag, got %d", len(p.PreferredHashtags))
	}
	if len(p.PreferredCreators) != 1 {
		t.Errorf("expected 1 preferred creator, got %d", len(p.PreferredCreators))
	}
}

func TestProfileInsertionOrderPreserved(t *testing.T) {
	p := NewProfile("viewer-1")

	for _, tag := range []string{"#c", "#a", "#b"} {
		p.AddPreferredHashtag(tag)
	}

	want := []string{"#c", "#a", "#b"}
	for i, tag := range want {
		if p.PreferredHashtags[i] != tag {
			t.Fatalf("expected order %v, got %v", want, p.PreferredHashtags)
		}
	}
}

func TestProfileObserveDuration(t *testing.T) {
	p := NewProfile("viewer-1")

	if p.PreferredDuration != nil {
		t.Fatal("expected nil preferred duration before first signal")
	}

	p.ObserveDuration(30)
	if p.PreferredDuration == nil || *p.PreferredDuration != 30 {
		t.Fatalf("expected first sample taken as-is, got %v", p.PreferredDuration)
	}

	p.ObserveDuration(60)
	if math.Abs(*p.PreferredDuration-45) > 0.001 {
		t.Errorf("expected moving average 45, got %f", *p.PreferredDuration)
	}
}

func TestProfileTouch(t *testing.T) {
	p := NewProfile("viewer-1")
	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	p.Touch(ts)
	if !p.UpdatedAt.Equal(ts) {
		t.Errorf("expected updated_at %v, got %v", ts, p.UpdatedAt)
	}
}
