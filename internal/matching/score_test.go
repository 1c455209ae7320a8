package matching

import (
	"testing"

	"lessonlink/internal/ytsearch"
)

func TestNormalizeTitle(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Limits intro", "limits intro"},
		{"Khan Academy: Limits intro | AP Calculus", "khan academy limits intro ap calculus"},
		{"  What   is   a   limit?  ", "what is a limit"},
		{"Équations Différentielles!", "équations différentielles"},
		{"", ""},
		{"?!|", ""},
	}
	for _, tc := range cases {
		if got := NormalizeTitle(tc.in); got != tc.want {
			t.Errorf("NormalizeTitle(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestScoreOrderingMatchesExpectations(t *testing.T) {
	policy := DefaultPolicy()
	policy.ChannelNameMatch = "Khan"

	good := policy.Score("Limits intro", "Khan Academy: Limits intro | AP Calculus", true)
	bad := policy.Score("Limits intro", "Unrelated cooking video", false)

	if good <= bad {
		t.Fatalf("expected good candidate to outscore bad: %v <= %v", good, bad)
	}
	if bad >= policy.AcceptThreshold {
		t.Fatalf("unrelated candidate must fall below the threshold, got %v", bad)
	}
}

func TestScoreExactNormalizedEquality(t *testing.T) {
	policy := DefaultPolicy()
	score := policy.Score("Power rule", "power RULE!", false)
	// ratio 1.0 plus full word overlap, no bonus
	want := 1.0 + policy.WordOverlapWeight
	if score != want {
		t.Fatalf("exact normalized match: got %v, want %v", score, want)
	}
}

func TestScoreIsSymmetricInRatioTerm(t *testing.T) {
	policy := Policy{WordOverlapWeight: 0.0000001} // isolate the ratio
	a := policy.Score("scalars and vectors", "vectors and scalars explained", false)
	b := policy.Score("vectors and scalars explained", "scalars and vectors", false)
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	// Overlap denominators differ; the ratio itself must not.
	if diff > 0.0000002 {
		t.Fatalf("ratio term not symmetric: %v vs %v", a, b)
	}
}

func TestScoreDisjointTitlesIsZero(t *testing.T) {
	policy := DefaultPolicy()
	if got := policy.Score("limits intro", "unrelated cooking show", false); got != 0 {
		t.Fatalf("disjoint titles should score 0, got %v", got)
	}
}

func TestScoreEmptyLessonTitle(t *testing.T) {
	policy := DefaultPolicy()
	// No panic and no overlap contribution from the guarded division.
	got := policy.Score("", "anything at all", false)
	if got != 0 {
		t.Fatalf("empty lesson title should score 0, got %v", got)
	}
}

func TestScoreIsDeterministic(t *testing.T) {
	policy := DefaultPolicy()
	first := policy.Score("Chain rule introduction", "Chain rule | Derivatives | Khan Academy", true)
	for i := 0; i < 10; i++ {
		if got := policy.Score("Chain rule introduction", "Chain rule | Derivatives | Khan Academy", true); got != first {
			t.Fatalf("score not reproducible: %v != %v", got, first)
		}
	}
}

func TestVerifiedChannelPrefersAllowlist(t *testing.T) {
	policy := Policy{
		ChannelIDs:       []string{"UC4a-Gbdw7vOaccHmFo40b9g"},
		ChannelNameMatch: "Khan",
	}

	verified := ytsearch.Candidate{Channel: "Totally Different Name", ChannelID: "UC4a-Gbdw7vOaccHmFo40b9g"}
	impostor := ytsearch.Candidate{Channel: "Khan Kitchen", ChannelID: "UCimpostor"}

	if !policy.VerifiedChannel(verified) {
		t.Fatal("allow-listed channel id must verify regardless of name")
	}
	if policy.VerifiedChannel(impostor) {
		t.Fatal("name substring must not verify when an allow-list is set")
	}
}

func TestVerifiedChannelNameFallback(t *testing.T) {
	policy := Policy{ChannelNameMatch: "Khan"}

	if !policy.VerifiedChannel(ytsearch.Candidate{Channel: "Khan Academy"}) {
		t.Fatal("substring fallback should verify the publisher")
	}
	if !policy.VerifiedChannel(ytsearch.Candidate{Channel: "khan academy physics"}) {
		t.Fatal("substring fallback must be case-insensitive")
	}
	if policy.VerifiedChannel(ytsearch.Candidate{Channel: "Random Channel"}) {
		t.Fatal("non-matching channel must not verify")
	}
}
