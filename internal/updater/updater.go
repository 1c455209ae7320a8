package updater

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"lessonlink/internal/logging"
	"lessonlink/internal/manifest"
	"lessonlink/internal/matching"
	"lessonlink/internal/videocache"
	"lessonlink/internal/ytsearch"
)

const (
	defaultPace          = 500 * time.Millisecond
	defaultSearchTimeout = 30 * time.Second
)

// RunRecorder persists run and per-lesson history. It is optional; a nil
// recorder disables history without changing update behavior.
type RunRecorder interface {
	StartRun(ctx context.Context, manifestPath string) (string, error)
	RecordLesson(ctx context.Context, runID, courseID, lessonID string, found bool, videoID string, score float64, fromCache bool) error
	FinishRun(ctx context.Context, runID string, found, missed, cacheHits int) error
}

// Options configures an Orchestrator. Manifest, Cache, Provider, and
// Publisher are required.
type Options struct {
	Manifest  *manifest.Store
	Cache     *videocache.Cache
	Provider  ytsearch.Provider
	Policy    matching.Policy
	Publisher string

	// Pace is the delay inserted after every provider search. Zero selects
	// the default; pacing cannot be disabled.
	Pace          time.Duration
	SearchTimeout time.Duration

	Recorder RunRecorder
	Logger   *slog.Logger
}

// Stats summarizes one update run.
type Stats struct {
	Lessons   int
	Articles  int
	CacheHits int
	Searched  int
	Found     int
	NotFound  int
}

// Orchestrator resolves video lessons against the search provider and keeps
// the manifest and cache in sync.
type Orchestrator struct {
	store     *manifest.Store
	cache     *videocache.Cache
	provider  ytsearch.Provider
	policy    matching.Policy
	publisher string
	pace      time.Duration
	timeout   time.Duration
	recorder  RunRecorder
	logger    *slog.Logger

	sleep func(time.Duration)
}

// New validates opts and builds an Orchestrator.
func New(opts Options) (*Orchestrator, error) {
	if opts.Manifest == nil {
		return nil, errors.New("updater: manifest store is required")
	}
	if opts.Cache == nil {
		return nil, errors.New("updater: video cache is required")
	}
	if opts.Provider == nil {
		return nil, errors.New("updater: search provider is required")
	}
	if strings.TrimSpace(opts.Publisher) == "" {
		return nil, errors.New("updater: publisher is required")
	}

	pace := opts.Pace
	if pace <= 0 {
		pace = defaultPace
	}
	timeout := opts.SearchTimeout
	if timeout <= 0 {
		timeout = defaultSearchTimeout
	}

	return &Orchestrator{
		store:     opts.Manifest,
		cache:     opts.Cache,
		provider:  opts.Provider,
		policy:    opts.Policy,
		publisher: strings.TrimSpace(opts.Publisher),
		pace:      pace,
		timeout:   timeout,
		recorder:  opts.Recorder,
		logger:    logging.NewComponentLogger(opts.Logger, "updater"),
		sleep:     time.Sleep,
	}, nil
}

// Run walks every lesson in the manifest, resolves video lessons through the
// cache or the provider, and writes the updated manifest atomically once the
// walk finishes. Cancellation aborts the walk before the manifest write, so
// an interrupted run leaves the manifest file untouched while keeping every
// outcome already persisted to the cache.
func (o *Orchestrator) Run(ctx context.Context) (Stats, error) {
	var stats Stats

	m, err := o.store.Load()
	if err != nil {
		return stats, fmt.Errorf("load manifest: %w", err)
	}

	recorder := o.recorder
	var runID string
	if recorder != nil {
		runID, err = recorder.StartRun(ctx, o.store.Path())
		if err != nil {
			o.logger.Warn("run history unavailable", logging.Error(err))
			recorder = nil
		}
	}

	for _, ref := range m.Lessons() {
		if err := ctx.Err(); err != nil {
			return stats, fmt.Errorf("update interrupted: %w", err)
		}
		stats.Lessons++

		lesson := ref.Lesson
		if lesson.IsArticle() {
			stats.Articles++
			continue
		}

		entry, cached := o.cache.Lookup(lesson.ID)
		if cached {
			stats.CacheHits++
			o.apply(lesson, entry)
			o.countOutcome(&stats, entry)
			o.record(ctx, recorder, runID, ref, entry, 0, true)
			continue
		}

		entry, score, err := o.resolve(ctx, lesson)
		if err != nil {
			return stats, fmt.Errorf("update interrupted: %w", err)
		}
		stats.Searched++
		if err := o.cache.Store(lesson.ID, entry); err != nil {
			o.logger.Warn("cache write failed",
				logging.String(logging.FieldLessonID, lesson.ID),
				logging.Error(err))
		}
		o.apply(lesson, entry)
		o.countOutcome(&stats, entry)
		o.record(ctx, recorder, runID, ref, entry, score, false)
	}

	if err := o.store.Save(m); err != nil {
		return stats, fmt.Errorf("save manifest: %w", err)
	}

	if recorder != nil {
		if err := recorder.FinishRun(ctx, runID, stats.Found, stats.NotFound, stats.CacheHits); err != nil {
			o.logger.Warn("run history finish failed", logging.Error(err))
		}
	}

	o.logger.Info("update complete",
		logging.Int("lessons", stats.Lessons),
		logging.Int("found", stats.Found),
		logging.Int("not_found", stats.NotFound),
		logging.Int("cache_hits", stats.CacheHits),
		logging.Int("searched", stats.Searched))
	return stats, nil
}

// resolve queries the provider for one lesson and returns the cacheable
// outcome. Provider failures degrade to an absent outcome so a flaky search
// backend cannot abort a long run. A cancelled run is the exception: the
// aborted lesson gets no outcome at all, so the next run searches it again
// instead of skipping it as resolved-absent.
func (o *Orchestrator) resolve(ctx context.Context, lesson *manifest.Lesson) (videocache.Entry, float64, error) {
	query := o.publisher + " " + lesson.Title

	searchCtx, cancel := context.WithTimeout(ctx, o.timeout)
	candidates, err := o.provider.Search(searchCtx, query)
	cancel()

	if err != nil {
		if ctx.Err() != nil {
			return videocache.Entry{}, 0, ctx.Err()
		}
		o.logger.Warn("search failed",
			logging.String(logging.FieldLessonID, lesson.ID),
			logging.Error(err))
		candidates = nil
	}
	o.sleep(o.pace)

	sel, ok := matching.SelectBest(lesson.Title, candidates, o.policy)
	if !ok {
		o.logger.Info("no match",
			logging.String(logging.FieldLessonID, lesson.ID),
			logging.String("title", lesson.Title),
			logging.Int("candidates", len(candidates)))
		return videocache.AbsentEntry(), 0, nil
	}

	o.logger.Info("matched",
		logging.String(logging.FieldLessonID, lesson.ID),
		logging.String("video_id", sel.Candidate.VideoID),
		logging.Float64("score", sel.Score),
		logging.Bool("verified", sel.Verified))
	return videocache.FoundEntry(sel.Candidate.VideoID, sel.Candidate.Title, sel.Candidate.Channel), sel.Score, nil
}

// apply copies a found outcome onto the lesson. Absent outcomes leave any
// previously linked video in place; only a new match overwrites.
func (o *Orchestrator) apply(lesson *manifest.Lesson, entry videocache.Entry) {
	if !entry.Found() {
		return
	}
	lesson.YouTubeVideoID = *entry.VideoID
	lesson.YouTubeTitle = entry.YouTubeTitle
}

func (o *Orchestrator) countOutcome(stats *Stats, entry videocache.Entry) {
	if entry.Found() {
		stats.Found++
	} else {
		stats.NotFound++
	}
}

func (o *Orchestrator) record(ctx context.Context, recorder RunRecorder, runID string, ref manifest.LessonRef, entry videocache.Entry, score float64, fromCache bool) {
	if recorder == nil {
		return
	}
	videoID := ""
	if entry.Found() {
		videoID = *entry.VideoID
	}
	err := recorder.RecordLesson(ctx, runID, ref.Course.ID, ref.Lesson.ID, entry.Found(), videoID, score, fromCache)
	if err != nil {
		o.logger.Warn("run history record failed",
			logging.String(logging.FieldLessonID, ref.Lesson.ID),
			logging.Error(err))
	}
}
