// Command lessonlink links course manifest lessons to their media: YouTube
// videos for video lessons, topic-page URLs for article lessons. The update
// command runs the matching pipeline; the rest inspect or maintain its
// state.
package main
