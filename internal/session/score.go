package session

import (
	"math/rand/v2"

	"lecondujour/internal/model"
)

// shuffleOptions randomizes each item's option order independently and
// uniformly. The option set and the correct answer value are untouched.
func shuffleOptions(items []model.QuizItem) {
	for i := range items {
		opts := items[i].Options
		rand.Shuffle(len(opts), func(a, b int) {
			opts[a], opts[b] = opts[b], opts[a]
		})
	}
}

// scoreQuiz compares each stored answer to the item's correct answer by
// exact string value, no normalization. It returns the tally and the
// deduplicated concepts of missed items that carry one, in first-seen
// order. Deterministic: identical inputs yield identical outputs.
func scoreQuiz(items []model.QuizItem, answers []string) (score int, failed []string) {
	seen := make(map[string]bool)
	for i, item := range items {
		if answers[i] == item.CorrectAnswer {
			score++
			continue
		}
		if item.Concept != "" && !seen[item.Concept] {
			seen[item.Concept] = true
			failed = append(failed, item.Concept)
		}
	}
	return score, failed
}

// validAnswers reports whether every item has a non-empty selected option.
func validAnswers(answers []string, want int) bool {
	if len(answers) != want {
		return false
	}
	for _, a := range answers {
		if a == "" {
			return false
		}
	}
	return true
}
