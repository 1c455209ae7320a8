// Package report computes read-only summaries over the manifest.
package report

import (
	"lessonlink/internal/manifest"
)

// CourseCoverage is one course's linked-lesson tally.
type CourseCoverage struct {
	CourseID string
	Title    string
	Linked   int
	Total    int
}

// Percent returns the course's coverage as 0..100.
func (c CourseCoverage) Percent() float64 {
	if c.Total == 0 {
		return 0
	}
	return float64(c.Linked) / float64(c.Total) * 100
}

// MissingLesson identifies one unlinked lesson with its tree context.
type MissingLesson struct {
	Course   string
	Unit     string
	LessonID string
	Title    string
	Type     string
}

// Coverage is the full coverage report for a manifest.
type Coverage struct {
	Courses []CourseCoverage
	Missing []MissingLesson
	Linked  int
	Total   int
}

// Percent returns the overall coverage as 0..100.
func (c Coverage) Percent() float64 {
	if c.Total == 0 {
		return 0
	}
	return float64(c.Linked) / float64(c.Total) * 100
}

// linked reports whether the lesson has its media attached: a video ID for
// video lessons, an article URL for article lessons.
func linked(l *manifest.Lesson) bool {
	if l.IsArticle() {
		return l.ArticleURL != ""
	}
	return l.HasVideo()
}

// ComputeCoverage tallies linked lessons per course, in manifest order, and
// lists every lesson still missing its media.
func ComputeCoverage(m *manifest.Manifest) Coverage {
	var cov Coverage
	for ci := range m.Courses {
		course := &m.Courses[ci]
		cc := CourseCoverage{CourseID: course.ID, Title: course.Title}
		for ui := range course.Units {
			unit := &course.Units[ui]
			for li := range unit.Lessons {
				lesson := &unit.Lessons[li]
				cc.Total++
				if linked(lesson) {
					cc.Linked++
					continue
				}
				lessonType := lesson.Type
				if lessonType == "" {
					lessonType = manifest.TypeVideo
				}
				cov.Missing = append(cov.Missing, MissingLesson{
					Course:   course.Title,
					Unit:     unit.Title,
					LessonID: lesson.ID,
					Title:    lesson.Title,
					Type:     lessonType,
				})
			}
		}
		cov.Linked += cc.Linked
		cov.Total += cc.Total
		cov.Courses = append(cov.Courses, cc)
	}
	return cov
}
