package session

import (
	"slices"
	"testing"

	"lecondujour/internal/model"
)

func TestShuffleOptionsPreservesSet(t *testing.T) {
	items := []model.QuizItem{
		{Question: "q1", Options: []string{"a", "b", "c", "d"}, CorrectAnswer: "c"},
		{Question: "q2", Options: []string{"x", "y"}, CorrectAnswer: "x"},
	}
	shuffleOptions(items)

	for i, item := range items {
		sorted := slices.Clone(item.Options)
		slices.Sort(sorted)
		switch i {
		case 0:
			if !slices.Equal(sorted, []string{"a", "b", "c", "d"}) {
				t.Errorf("item 0 options changed: %v", item.Options)
			}
		case 1:
			if !slices.Equal(sorted, []string{"x", "y"}) {
				t.Errorf("item 1 options changed: %v", item.Options)
			}
		}
		if !slices.Contains(item.Options, item.CorrectAnswer) {
			t.Errorf("item %d lost its correct answer", i)
		}
	}
}

func TestScoreQuiz(t *testing.T) {
	items := []model.QuizItem{
		{CorrectAnswer: "a", Concept: "addition"},
		{CorrectAnswer: "b", Concept: "addition"},
		{CorrectAnswer: "c", Concept: "soustraction"},
		{CorrectAnswer: "d"},
	}

	t.Run("all correct", func(t *testing.T) {
		score, failed := scoreQuiz(items, []string{"a", "b", "c", "d"})
		if score != 4 || len(failed) != 0 {
			t.Errorf("score = %d, failed = %v", score, failed)
		}
	})

	t.Run("misses dedup concepts in first-seen order", func(t *testing.T) {
		score, failed := scoreQuiz(items, []string{"x", "x", "x", "d"})
		if score != 1 {
			t.Errorf("score = %d, want 1", score)
		}
		if !slices.Equal(failed, []string{"addition", "soustraction"}) {
			t.Errorf("failed = %v", failed)
		}
	})

	t.Run("missed item without concept records nothing", func(t *testing.T) {
		_, failed := scoreQuiz(items, []string{"a", "b", "c", "x"})
		if len(failed) != 0 {
			t.Errorf("failed = %v, want empty", failed)
		}
	})

	t.Run("exact string match only", func(t *testing.T) {
		score, _ := scoreQuiz(items, []string{"A", " a", "c ", "d"})
		if score != 1 {
			t.Errorf("score = %d, want 1 (no normalization)", score)
		}
	})
}

func TestValidAnswers(t *testing.T) {
	if validAnswers([]string{"a", ""}, 2) {
		t.Error("empty answer accepted")
	}
	if validAnswers([]string{"a"}, 2) {
		t.Error("short answer slice accepted")
	}
	if !validAnswers([]string{"a", "b"}, 2) {
		t.Error("complete answers rejected")
	}
}
