package manifest

import (
	"strings"
)

// Lesson type values. An empty Type is treated as video for backward
// compatibility with manifests written before articles were tracked.
const (
	TypeVideo   = "video"
	TypeArticle = "article"
)

// Lesson is the smallest content unit, linked to at most one media item.
type Lesson struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Type           string `json:"type,omitempty"`
	YouTubeVideoID string `json:"youtubeVideoId,omitempty"`
	YouTubeTitle   string `json:"youtubeTitle,omitempty"`
	ArticleURL     string `json:"articleUrl,omitempty"`
}

// IsArticle reports whether the lesson resolves via an article URL rather
// than a video search.
func (l *Lesson) IsArticle() bool {
	return l.Type == TypeArticle
}

// HasVideo reports whether a video has been linked to the lesson.
func (l *Lesson) HasVideo() bool {
	return strings.TrimSpace(l.YouTubeVideoID) != ""
}

// Unit is an ordered sequence of lessons owned by a course.
type Unit struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Lessons []Lesson `json:"lessons"`
}

// Course is an ordered sequence of units with a stable slug ID.
type Course struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Units []Unit `json:"units"`
}

// Manifest is the root collection of courses and the single unit of atomic
// persistence.
type Manifest struct {
	Courses []Course `json:"courses"`
}

// LessonRef pairs a lesson pointer with its position in the tree so callers
// can mutate lessons in place while reporting course and unit context.
type LessonRef struct {
	Course *Course
	Unit   *Unit
	Lesson *Lesson
}

// Lessons returns references to every lesson in manifest order.
func (m *Manifest) Lessons() []LessonRef {
	var refs []LessonRef
	for ci := range m.Courses {
		course := &m.Courses[ci]
		for ui := range course.Units {
			unit := &course.Units[ui]
			for li := range unit.Lessons {
				refs = append(refs, LessonRef{Course: course, Unit: unit, Lesson: &unit.Lessons[li]})
			}
		}
	}
	return refs
}

// FindLesson returns the reference for the given lesson ID.
func (m *Manifest) FindLesson(id string) (LessonRef, bool) {
	for _, ref := range m.Lessons() {
		if ref.Lesson.ID == id {
			return ref, true
		}
	}
	return LessonRef{}, false
}

// LessonCount returns the total number of lessons across all courses.
func (m *Manifest) LessonCount() int {
	count := 0
	for ci := range m.Courses {
		for ui := range m.Courses[ci].Units {
			count += len(m.Courses[ci].Units[ui].Lessons)
		}
	}
	return count
}
