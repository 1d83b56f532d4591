package model

import "time"

// GradeLevels is the fixed set of selectable grade levels, ordered from
// youngest to oldest.
var GradeLevels = []string{
	"CP", "CE1", "CE2", "CM1", "CM2",
	"6ème", "5ème", "4ème", "3ème", "Seconde",
}

// DefaultGrade is used when a student has no registered profile.
const DefaultGrade = "CM1"

// SubjectSurprise is the wildcard subject value. It is passed to the lesson
// prompt verbatim; the model picks a subject area on its own.
const SubjectSurprise = "Surprise !"

// Subjects is the fixed set of selectable subjects.
var Subjects = []string{
	"Mathématiques", "Français", "Histoire",
	"Sciences", "Anglais", "Allemand", SubjectSurprise,
}

// IsValidGrade reports whether g is one of the selectable grade levels.
func IsValidGrade(g string) bool {
	for _, lvl := range GradeLevels {
		if lvl == g {
			return true
		}
	}
	return false
}

// IsValidSubject reports whether s is one of the selectable subjects.
func IsValidSubject(s string) bool {
	for _, sub := range Subjects {
		if sub == s {
			return true
		}
	}
	return false
}

// QuizItem is a single multiple-choice question.
type QuizItem struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	// Concept tags the notion this item evaluates. Items of the second
	// (remediation) quiz carry no concept.
	Concept string `json:"concept,omitempty"`
}

// LessonPackage is the result of the lesson generation operation.
type LessonPackage struct {
	Topic      string
	LessonText string
	Quiz       []QuizItem // exactly 10 items
}

// RemediationPackage is the result of the remediation generation operation.
type RemediationPackage struct {
	RemediationText string
	Quiz            []QuizItem // exactly 5 items
}

// Student is a registered profile. Profiles are created once and never
// mutated; the grade defaults the grade selector on later sessions.
type Student struct {
	ID        int64
	Name      string
	Grade     string
	CreatedAt time.Time
}

// LessonResult is one completed lesson session, appended to a student's
// history when the session reaches its summary. Rows are immutable.
type LessonResult struct {
	ID           int64     `json:"id"`
	Student      string    `json:"student"`
	CompletedAt  time.Time `json:"completed_at"`
	Grade        string    `json:"grade"`
	Subject      string    `json:"subject"`
	Topic        string    `json:"topic"`
	Quiz1Score   int       `json:"quiz1_score"`
	Quiz2Score   *int      `json:"quiz2_score,omitempty"`
	ReviewPoints string    `json:"review_points,omitempty"`
	Appreciation string    `json:"appreciation"`
}

// AppConfig holds runtime parameters set via CLI flags.
type AppConfig struct {
	Lang          string
	SecureCookies bool
}
