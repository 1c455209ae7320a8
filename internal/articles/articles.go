// Package articles manages article-type lessons: applying a curated
// lesson-to-URL table, listing article lessons with topic-page URL guesses,
// and verifying that article lessons carry no video fields.
package articles

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"lessonlink/internal/manifest"
)

// DefaultBaseURL is the site root used when constructing topic-page guesses.
const DefaultBaseURL = "https://www.khanacademy.org"

var (
	lowerCaser   = cases.Lower(language.Und)
	unitPrefixRe = regexp.MustCompile(`^Unit \d+:\s*`)
	nonSlugRe    = regexp.MustCompile(`[^a-z0-9\s-]`)
	spaceRe      = regexp.MustCompile(`\s+`)
)

// IsArticleLesson reports whether the lesson should be handled by the
// article pipeline. Lessons are recognized either by an explicit type or by
// an "(article)" / "(articles)" marker in the title, which is how imported
// manifests flag them before typing.
func IsArticleLesson(l *manifest.Lesson) bool {
	if l.IsArticle() {
		return true
	}
	title := lowerCaser.String(l.Title)
	return strings.Contains(title, "(article)") || strings.Contains(title, "(articles)")
}

// TitleToSlug converts a unit or lesson title into a kebab-case URL slug.
// A leading "Unit N:" prefix is dropped first.
func TitleToSlug(title string) string {
	t := unitPrefixRe.ReplaceAllString(title, "")
	t = strings.TrimSpace(lowerCaser.String(t))
	t = nonSlugRe.ReplaceAllString(t, "")
	t = spaceRe.ReplaceAllString(t, "-")
	return strings.Trim(t, "-")
}

// Applied records one lesson changed by Apply.
type Applied struct {
	LessonID string
	Title    string
	URL      string
}

// Apply normalizes every article lesson in the manifest: the type is set,
// video fields left behind by earlier matching runs are stripped, and a URL
// from the table is attached when the lesson does not already have one. An
// existing articleUrl is never overwritten. The caller saves the manifest.
func Apply(m *manifest.Manifest, urls map[string]string) []Applied {
	var applied []Applied
	for _, ref := range m.Lessons() {
		lesson := ref.Lesson
		if !IsArticleLesson(lesson) {
			continue
		}
		lesson.Type = manifest.TypeArticle
		if url, ok := urls[lesson.ID]; ok && lesson.ArticleURL == "" {
			lesson.ArticleURL = url
		}
		lesson.YouTubeVideoID = ""
		lesson.YouTubeTitle = ""
		applied = append(applied, Applied{
			LessonID: lesson.ID,
			Title:    lesson.Title,
			URL:      lesson.ArticleURL,
		})
	}
	return applied
}

// Listing describes one article lesson, with a constructed topic-page URL
// guess for lessons that have no curated URL yet.
type Listing struct {
	Course         string
	CourseID       string
	Unit           string
	LessonID       string
	Title          string
	URL            string
	ConstructedURL string
}

// List returns every article lesson in manifest order. courseSlugs maps
// course IDs to site path prefixes (for example "math/multivariable-calculus");
// lessons in unmapped courses get no constructed URL.
func List(m *manifest.Manifest, courseSlugs map[string]string, baseURL string) []Listing {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")

	var listings []Listing
	for _, ref := range m.Lessons() {
		lesson := ref.Lesson
		if !IsArticleLesson(lesson) {
			continue
		}
		entry := Listing{
			Course:   ref.Course.Title,
			CourseID: ref.Course.ID,
			Unit:     ref.Unit.Title,
			LessonID: lesson.ID,
			Title:    lesson.Title,
			URL:      lesson.ArticleURL,
		}
		if slug, ok := courseSlugs[ref.Course.ID]; ok && slug != "" {
			entry.ConstructedURL = baseURL + "/" + strings.Trim(slug, "/") + "/" + TitleToSlug(ref.Unit.Title)
		}
		listings = append(listings, entry)
	}
	return listings
}

// Status is one article lesson's verification state.
type Status struct {
	LessonID string
	Title    string
	HasURL   bool
	HasVideo bool
}

// Verify inspects every article lesson and reports whether the manifest
// holds the article invariant: no article lesson carries video fields. The
// returned statuses cover all article lessons so callers can also surface
// missing URLs, which are allowed but worth listing.
func Verify(m *manifest.Manifest) ([]Status, bool) {
	var statuses []Status
	ok := true
	for _, ref := range m.Lessons() {
		lesson := ref.Lesson
		if !lesson.IsArticle() {
			continue
		}
		status := Status{
			LessonID: lesson.ID,
			Title:    lesson.Title,
			HasURL:   strings.TrimSpace(lesson.ArticleURL) != "",
			HasVideo: lesson.YouTubeVideoID != "" || lesson.YouTubeTitle != "",
		}
		if status.HasVideo {
			ok = false
		}
		statuses = append(statuses, status)
	}
	return statuses, ok
}
