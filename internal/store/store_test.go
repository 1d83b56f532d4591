package store

import (
	"errors"
	"testing"
	"time"

	"lecondujour/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(":memory:")
	if err != nil {
		t.Fatalf("newTestStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testResult(student string, day int, quiz1 int) model.LessonResult {
	return model.LessonResult{
		Student:      student,
		CompletedAt:  time.Date(2025, 3, day, 10, 0, 0, 0, time.UTC),
		Grade:        "CM1",
		Subject:      "Mathématiques",
		Topic:        "Les fractions",
		Quiz1Score:   quiz1,
		Appreciation: "Bravo !",
	}
}

func TestAddStudent(t *testing.T) {
	s := newTestStore(t)

	if err := s.AddStudent("Léa", "CM1"); err != nil {
		t.Fatalf("AddStudent: %v", err)
	}

	err := s.AddStudent("Léa", "CM2")
	if !errors.Is(err, ErrDuplicateStudent) {
		t.Fatalf("duplicate AddStudent: %v, want ErrDuplicateStudent", err)
	}
}

func TestListStudentsOrdered(t *testing.T) {
	s := newTestStore(t)

	for _, name := range []string{"Zoé", "Adam", "Léa"} {
		if err := s.AddStudent(name, "CM1"); err != nil {
			t.Fatal(err)
		}
	}
	names, err := s.ListStudents()
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"Adam", "Léa", "Zoé"}
	if len(names) != len(want) {
		t.Fatalf("got %d students, want %d", len(names), len(want))
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestGetStudentGrade(t *testing.T) {
	s := newTestStore(t)
	if err := s.AddStudent("Léa", "CE2"); err != nil {
		t.Fatal(err)
	}

	grade, err := s.GetStudentGrade("Léa")
	if err != nil || grade != "CE2" {
		t.Errorf("GetStudentGrade = %q, %v", grade, err)
	}

	grade, err = s.GetStudentGrade("Inconnu")
	if err != nil {
		t.Fatalf("unknown student: %v", err)
	}
	if grade != "" {
		t.Errorf("unknown student grade = %q, want empty", grade)
	}
}

func TestSaveAndGetHistory(t *testing.T) {
	s := newTestStore(t)

	// Insert out of chronological order; history must come back ascending.
	rec2 := testResult("Léa", 20, 8)
	rec1 := testResult("Léa", 10, 5)
	quiz2 := 4
	rec1.Quiz2Score = &quiz2
	rec1.ReviewPoints = "les fractions,le dénominateur"

	for _, rec := range []model.LessonResult{rec2, rec1, testResult("Adam", 15, 9)} {
		if err := s.SaveLessonResult(rec); err != nil {
			t.Fatalf("SaveLessonResult: %v", err)
		}
	}

	history, err := s.GetStudentHistory("Léa")
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 2 {
		t.Fatalf("history has %d rows, want 2", len(history))
	}
	if !history[0].CompletedAt.Before(history[1].CompletedAt) {
		t.Error("history not in ascending timestamp order")
	}

	got := history[0]
	if got.Quiz2Score == nil || *got.Quiz2Score != 4 {
		t.Errorf("Quiz2Score = %v, want 4", got.Quiz2Score)
	}
	if got.ReviewPoints != "les fractions,le dénominateur" {
		t.Errorf("ReviewPoints = %q", got.ReviewPoints)
	}
	if !got.CompletedAt.Equal(rec1.CompletedAt) {
		t.Errorf("CompletedAt = %v, want %v", got.CompletedAt, rec1.CompletedAt)
	}

	// The passing session has no second quiz.
	if history[1].Quiz2Score != nil {
		t.Errorf("Quiz2Score = %v, want nil", history[1].Quiz2Score)
	}

	empty, err := s.GetStudentHistory("Inconnu")
	if err != nil {
		t.Fatal(err)
	}
	if len(empty) != 0 {
		t.Errorf("unknown student has %d rows", len(empty))
	}
}

func TestAllLessonResults(t *testing.T) {
	s := newTestStore(t)
	for _, rec := range []model.LessonResult{
		testResult("Zoé", 10, 7),
		testResult("Adam", 12, 6),
		testResult("Adam", 11, 8),
	} {
		if err := s.SaveLessonResult(rec); err != nil {
			t.Fatal(err)
		}
	}

	all, err := s.AllLessonResults()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Fatalf("got %d rows, want 3", len(all))
	}
	if all[0].Student != "Adam" || all[2].Student != "Zoé" {
		t.Errorf("rows not ordered by student: %q, %q, %q", all[0].Student, all[1].Student, all[2].Student)
	}
	if !all[0].CompletedAt.Before(all[1].CompletedAt) {
		t.Error("same-student rows not in timestamp order")
	}
}
