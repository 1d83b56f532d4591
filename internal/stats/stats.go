// Package stats derives the dashboard aggregates from a student's history.
// Everything here is a pure computation over already-loaded records.
package stats

import (
	"sort"

	"lecondujour/internal/model"
)

// AchievementScore is the first-quiz score from which a lesson counts as
// an achievement on the dashboard.
const AchievementScore = 8

// Overview is the headline block of a student's dashboard.
type Overview struct {
	Lessons         int
	AverageScore    float64 // mean first-quiz score, 0 when no lessons
	FavoriteSubject string  // highest mean, lexical tie-break; "" when no lessons
}

// SubjectStat is one bar of the per-subject charts.
type SubjectStat struct {
	Subject string
	Average float64
	Lessons int
}

// Summarize computes the overview block.
func Summarize(history []model.LessonResult) Overview {
	if len(history) == 0 {
		return Overview{}
	}
	total := 0
	for _, rec := range history {
		total += rec.Quiz1Score
	}
	o := Overview{
		Lessons:      len(history),
		AverageScore: float64(total) / float64(len(history)),
	}
	best := -1.0
	for _, st := range BySubject(history) {
		if st.Average > best || (st.Average == best && st.Subject < o.FavoriteSubject) {
			best = st.Average
			o.FavoriteSubject = st.Subject
		}
	}
	return o
}

// BySubject computes mean first-quiz score and lesson count per subject,
// sorted by average descending, subject ascending on ties.
func BySubject(history []model.LessonResult) []SubjectStat {
	sums := make(map[string]int)
	counts := make(map[string]int)
	for _, rec := range history {
		sums[rec.Subject] += rec.Quiz1Score
		counts[rec.Subject]++
	}
	out := make([]SubjectStat, 0, len(counts))
	for subject, n := range counts {
		out = append(out, SubjectStat{
			Subject: subject,
			Average: float64(sums[subject]) / float64(n),
			Lessons: n,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Average != out[j].Average {
			return out[i].Average > out[j].Average
		}
		return out[i].Subject < out[j].Subject
	})
	return out
}

// TopAchievements returns the most recent lessons scored AchievementScore
// or better on the first quiz, newest first, at most n.
func TopAchievements(history []model.LessonResult, n int) []model.LessonResult {
	var out []model.LessonResult
	for _, rec := range history {
		if rec.Quiz1Score >= AchievementScore {
			out = append(out, rec)
		}
	}
	return newestFirst(out, n)
}

// ReviewTopics returns the most recent lessons with pending review points,
// newest first, at most n.
func ReviewTopics(history []model.LessonResult, n int) []model.LessonResult {
	var out []model.LessonResult
	for _, rec := range history {
		if rec.ReviewPoints != "" {
			out = append(out, rec)
		}
	}
	return newestFirst(out, n)
}

func newestFirst(recs []model.LessonResult, n int) []model.LessonResult {
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].CompletedAt.After(recs[j].CompletedAt)
	})
	if len(recs) > n {
		recs = recs[:n]
	}
	return recs
}
