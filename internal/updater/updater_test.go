package updater

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"lessonlink/internal/logging"
	"lessonlink/internal/manifest"
	"lessonlink/internal/matching"
	"lessonlink/internal/videocache"
	"lessonlink/internal/ytsearch"
)

type fakeProvider struct {
	mu      sync.Mutex
	calls   int
	results map[string][]ytsearch.Candidate
	err     error
	after   func()
}

func (f *fakeProvider) Search(ctx context.Context, query string) ([]ytsearch.Candidate, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.after != nil {
		defer f.after()
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.results[query], nil
}

func (f *fakeProvider) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func testPolicy() matching.Policy {
	return matching.Policy{
		AcceptThreshold:   0.3,
		WordOverlapWeight: 0.3,
		ChannelBonus:      0.2,
		ChannelNameMatch:  "Khan",
	}
}

func writeManifest(t *testing.T, path string, m *manifest.Manifest) {
	t.Helper()
	if err := manifest.NewStore(path).Save(m); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
}

func courseFixture() *manifest.Manifest {
	return &manifest.Manifest{
		Courses: []manifest.Course{
			{
				ID:    "ap-calculus-ab",
				Title: "AP Calculus AB",
				Units: []manifest.Unit{
					{
						ID:    "unit-1",
						Title: "Limits and continuity",
						Lessons: []manifest.Lesson{
							{ID: "l-limits", Title: "Limits intro", Type: manifest.TypeVideo},
							{ID: "l-continuity", Title: "Continuity at a point", Type: manifest.TypeVideo},
							{ID: "l-notes", Title: "Unit 1 summary", Type: manifest.TypeArticle},
						},
					},
				},
			},
		},
	}
}

func newTestOrchestrator(t *testing.T, dir string, provider ytsearch.Provider) (*Orchestrator, *videocache.Cache) {
	t.Helper()
	cache := videocache.Open(filepath.Join(dir, "video_cache.json"), logging.NewNop())
	o, err := New(Options{
		Manifest:  manifest.NewStore(filepath.Join(dir, "manifest.json")),
		Cache:     cache,
		Provider:  provider,
		Policy:    testPolicy(),
		Publisher: "khan academy",
		Pace:      time.Millisecond,
		Logger:    logging.NewNop(),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	o.sleep = func(time.Duration) {}
	return o, cache
}

func TestRunLinksVideosAndSkipsArticles(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, filepath.Join(dir, "manifest.json"), courseFixture())

	provider := &fakeProvider{results: map[string][]ytsearch.Candidate{
		"khan academy Limits intro": {
			{VideoID: "riXcZT2ICjA", Title: "Limits intro | AP Calculus AB", Channel: "Khan Academy"},
		},
		// Nothing relevant comes back for the continuity lesson.
		"khan academy Continuity at a point": {
			{VideoID: "zzz", Title: "Best pasta recipes", Channel: "Cooking Daily"},
		},
	}}

	o, cache := newTestOrchestrator(t, dir, provider)
	stats, err := o.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := Stats{Lessons: 3, Articles: 1, Searched: 2, Found: 1, NotFound: 1}
	if stats != want {
		t.Fatalf("stats = %+v, want %+v", stats, want)
	}

	m, err := manifest.NewStore(filepath.Join(dir, "manifest.json")).Load()
	if err != nil {
		t.Fatalf("reload manifest: %v", err)
	}
	limits, _ := m.FindLesson("l-limits")
	if limits.Lesson.YouTubeVideoID != "riXcZT2ICjA" {
		t.Errorf("limits videoId = %q, want riXcZT2ICjA", limits.Lesson.YouTubeVideoID)
	}
	if limits.Lesson.YouTubeTitle != "Limits intro | AP Calculus AB" {
		t.Errorf("limits youtubeTitle = %q", limits.Lesson.YouTubeTitle)
	}
	continuity, _ := m.FindLesson("l-continuity")
	if continuity.Lesson.HasVideo() {
		t.Errorf("continuity unexpectedly linked: %q", continuity.Lesson.YouTubeVideoID)
	}
	article, _ := m.FindLesson("l-notes")
	if article.Lesson.HasVideo() {
		t.Errorf("article unexpectedly linked: %q", article.Lesson.YouTubeVideoID)
	}

	// Both video lessons are cached, the miss as the searched-not-found
	// sentinel.
	if entry, ok := cache.Lookup("l-limits"); !ok || !entry.Found() {
		t.Errorf("limits cache entry = %+v, %v", entry, ok)
	}
	if entry, ok := cache.Lookup("l-continuity"); !ok || entry.Found() {
		t.Errorf("continuity cache entry = %+v, %v", entry, ok)
	}
	if _, ok := cache.Lookup("l-notes"); ok {
		t.Error("article lesson should not be cached")
	}
}

func TestRunSecondPassUsesCacheOnly(t *testing.T) {
	dir := t.TempDir()
	manifestPath := filepath.Join(dir, "manifest.json")
	writeManifest(t, manifestPath, courseFixture())

	provider := &fakeProvider{results: map[string][]ytsearch.Candidate{
		"khan academy Limits intro": {
			{VideoID: "riXcZT2ICjA", Title: "Limits intro | AP Calculus AB", Channel: "Khan Academy"},
		},
	}}

	o, _ := newTestOrchestrator(t, dir, provider)
	if _, err := o.Run(context.Background()); err != nil {
		t.Fatalf("first run: %v", err)
	}
	afterFirst := provider.callCount()
	firstBytes, err := os.ReadFile(manifestPath)
	if err != nil {
		t.Fatalf("read manifest: %v", err)
	}

	// Second run reopens everything from disk, the way a fresh process would.
	o2, _ := newTestOrchestrator(t, dir, provider)
	stats, err := o2.Run(context.Background())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	if provider.callCount() != afterFirst {
		t.Errorf("second run searched %d times, want 0", provider.callCount()-afterFirst)
	}
	if stats.CacheHits != 2 || stats.Searched != 0 {
		t.Errorf("second run stats = %+v, want 2 cache hits and 0 searches", stats)
	}
	if stats.Found != 1 || stats.NotFound != 1 {
		t.Errorf("second run stats = %+v, want found=1 notFound=1", stats)
	}

	secondBytes, err := os.ReadFile(manifestPath)
	if err != nil {
		t.Fatalf("read manifest: %v", err)
	}
	if string(firstBytes) != string(secondBytes) {
		t.Error("manifest changed across an idempotent second run")
	}
}

func TestRunProviderErrorResolvesNotFound(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, filepath.Join(dir, "manifest.json"), courseFixture())

	provider := &fakeProvider{err: errors.New("exit status 1")}
	o, cache := newTestOrchestrator(t, dir, provider)

	stats, err := o.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if stats.NotFound != 2 || stats.Found != 0 {
		t.Fatalf("stats = %+v, want 2 not found", stats)
	}
	if entry, ok := cache.Lookup("l-limits"); !ok || entry.Found() {
		t.Errorf("failed search should cache the absent sentinel, got %+v, %v", entry, ok)
	}
}

func TestRunCancellationLeavesManifestUntouched(t *testing.T) {
	dir := t.TempDir()
	manifestPath := filepath.Join(dir, "manifest.json")
	writeManifest(t, manifestPath, courseFixture())
	before, err := os.ReadFile(manifestPath)
	if err != nil {
		t.Fatalf("read manifest: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	provider := &fakeProvider{
		results: map[string][]ytsearch.Candidate{
			"khan academy Limits intro": {
				{VideoID: "riXcZT2ICjA", Title: "Limits intro | AP Calculus AB", Channel: "Khan Academy"},
			},
		},
		after: cancel,
	}

	o, cache := newTestOrchestrator(t, dir, provider)
	_, err = o.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run err = %v, want context.Canceled", err)
	}

	after, err := os.ReadFile(manifestPath)
	if err != nil {
		t.Fatalf("read manifest: %v", err)
	}
	if string(before) != string(after) {
		t.Error("interrupted run rewrote the manifest")
	}

	// The outcome from before the interruption survived, so a rerun resumes
	// past it.
	if entry, ok := cache.Lookup("l-limits"); !ok || !entry.Found() {
		t.Errorf("first lesson outcome not cached: %+v, %v", entry, ok)
	}
}

type abortingProvider struct {
	cancel context.CancelFunc
}

func (p *abortingProvider) Search(ctx context.Context, query string) ([]ytsearch.Candidate, error) {
	p.cancel()
	return nil, ctx.Err()
}

func TestRunCancelledSearchIsNotCached(t *testing.T) {
	dir := t.TempDir()
	manifestPath := filepath.Join(dir, "manifest.json")
	writeManifest(t, manifestPath, courseFixture())
	before, err := os.ReadFile(manifestPath)
	if err != nil {
		t.Fatalf("read manifest: %v", err)
	}

	// The run is interrupted while the first search is still in flight, the
	// way a signal lands mid-subprocess. The aborted lesson must stay
	// unsearched, not resolve to the not-found sentinel.
	ctx, cancel := context.WithCancel(context.Background())
	provider := &abortingProvider{cancel: cancel}

	o, cache := newTestOrchestrator(t, dir, provider)
	_, err = o.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run err = %v, want context.Canceled", err)
	}

	if entry, ok := cache.Lookup("l-limits"); ok {
		t.Errorf("aborted search left a durable cache entry: %+v", entry)
	}

	after, err := os.ReadFile(manifestPath)
	if err != nil {
		t.Fatalf("read manifest: %v", err)
	}
	if string(before) != string(after) {
		t.Error("interrupted run rewrote the manifest")
	}
}

func TestRunPacesEverySearch(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, filepath.Join(dir, "manifest.json"), courseFixture())

	provider := &fakeProvider{}
	o, _ := newTestOrchestrator(t, dir, provider)
	var sleeps int
	o.sleep = func(d time.Duration) {
		if d != time.Millisecond {
			t.Errorf("sleep duration = %v, want 1ms", d)
		}
		sleeps++
	}

	stats, err := o.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sleeps != stats.Searched {
		t.Errorf("slept %d times for %d searches", sleeps, stats.Searched)
	}
	if sleeps != 2 {
		t.Errorf("sleeps = %d, want 2", sleeps)
	}
}

func TestRunCacheHitAppliesStoredMatch(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, filepath.Join(dir, "manifest.json"), courseFixture())

	provider := &fakeProvider{}
	o, cache := newTestOrchestrator(t, dir, provider)
	if err := cache.Store("l-limits", videocache.FoundEntry("cachedID", "Cached title", "Khan Academy")); err != nil {
		t.Fatalf("seed cache: %v", err)
	}
	if err := cache.Store("l-continuity", videocache.AbsentEntry()); err != nil {
		t.Fatalf("seed cache: %v", err)
	}

	stats, err := o.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if provider.callCount() != 0 {
		t.Errorf("provider called %d times, want 0", provider.callCount())
	}
	if stats.CacheHits != 2 {
		t.Errorf("cache hits = %d, want 2", stats.CacheHits)
	}

	m, err := manifest.NewStore(filepath.Join(dir, "manifest.json")).Load()
	if err != nil {
		t.Fatalf("reload manifest: %v", err)
	}
	limits, _ := m.FindLesson("l-limits")
	if limits.Lesson.YouTubeVideoID != "cachedID" || limits.Lesson.YouTubeTitle != "Cached title" {
		t.Errorf("cached match not applied: %+v", limits.Lesson)
	}
}

func TestNewValidatesOptions(t *testing.T) {
	dir := t.TempDir()
	store := manifest.NewStore(filepath.Join(dir, "manifest.json"))
	cache := videocache.Open(filepath.Join(dir, "cache.json"), logging.NewNop())
	provider := &fakeProvider{}

	cases := []struct {
		name string
		opts Options
	}{
		{"missing manifest", Options{Cache: cache, Provider: provider, Publisher: "khan academy"}},
		{"missing cache", Options{Manifest: store, Provider: provider, Publisher: "khan academy"}},
		{"missing provider", Options{Manifest: store, Cache: cache, Publisher: "khan academy"}},
		{"missing publisher", Options{Manifest: store, Cache: cache, Provider: provider, Publisher: "  "}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := New(tc.opts); err == nil {
				t.Error("expected error")
			}
		})
	}
}
