package store

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"lecondujour/internal/model"

	_ "modernc.org/sqlite"
)

// ErrDuplicateStudent is returned when registering a name that already
// exists (case-sensitive exact match).
var ErrDuplicateStudent = errors.New("student already exists")

// timeLayout is the persisted timestamp format. Lexical order on this
// layout equals chronological order.
const timeLayout = "2006-01-02 15:04:05"

// Store persists student profiles and the append-only lesson history.
type Store struct {
	db *sql.DB
	// mu serializes writes; completed sessions from concurrent browsers
	// append one at a time.
	mu sync.Mutex
}

// New opens the database and applies the schema. Creation is idempotent.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS students (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE,
		grade TEXT NOT NULL,
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS lesson_results (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		student TEXT NOT NULL,
		completed_at TEXT NOT NULL,
		grade TEXT NOT NULL,
		subject TEXT NOT NULL,
		topic TEXT NOT NULL,
		quiz1_score INTEGER NOT NULL,
		quiz2_score INTEGER,
		review_points TEXT NOT NULL DEFAULT '',
		appreciation TEXT NOT NULL DEFAULT ''
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// AddStudent registers a profile. Fails with ErrDuplicateStudent when the
// exact name is already registered.
func (s *Store) AddStudent(name, grade string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM students WHERE name = ?`, name).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("%w: %s", ErrDuplicateStudent, name)
	}
	_, err := s.db.Exec(
		`INSERT INTO students (name, grade, created_at) VALUES (?, ?, ?)`,
		name, grade, time.Now(),
	)
	return err
}

// ListStudents returns all registered names, ordered lexically.
func (s *Store) ListStudents() ([]string, error) {
	rows, err := s.db.Query(`SELECT name FROM students ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		names = append(names, n)
	}
	return names, rows.Err()
}

// GetStudentGrade returns the registered grade for name, or "" when the
// name is unknown.
func (s *Store) GetStudentGrade(name string) (string, error) {
	var grade string
	err := s.db.QueryRow(`SELECT grade FROM students WHERE name = ?`, name).Scan(&grade)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return grade, err
}

// SaveLessonResult appends one completed session to the history. Rows are
// never updated or deleted.
func (s *Store) SaveLessonResult(rec model.LessonResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var quiz2 sql.NullInt64
	if rec.Quiz2Score != nil {
		quiz2 = sql.NullInt64{Int64: int64(*rec.Quiz2Score), Valid: true}
	}
	_, err := s.db.Exec(
		`INSERT INTO lesson_results
		 (student, completed_at, grade, subject, topic, quiz1_score, quiz2_score, review_points, appreciation)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.Student, rec.CompletedAt.Format(timeLayout), rec.Grade, rec.Subject,
		rec.Topic, rec.Quiz1Score, quiz2, rec.ReviewPoints, rec.Appreciation,
	)
	return err
}

// GetStudentHistory returns one student's completed sessions ordered by
// timestamp ascending.
func (s *Store) GetStudentHistory(name string) ([]model.LessonResult, error) {
	return s.queryResults(
		`SELECT id, student, completed_at, grade, subject, topic, quiz1_score, quiz2_score, review_points, appreciation
		 FROM lesson_results WHERE student = ? ORDER BY completed_at, id`, name,
	)
}

// AllLessonResults returns every completed session across all students,
// ordered by student then timestamp. Used by the export command.
func (s *Store) AllLessonResults() ([]model.LessonResult, error) {
	return s.queryResults(
		`SELECT id, student, completed_at, grade, subject, topic, quiz1_score, quiz2_score, review_points, appreciation
		 FROM lesson_results ORDER BY student, completed_at, id`,
	)
}

func (s *Store) queryResults(query string, args ...any) ([]model.LessonResult, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var history []model.LessonResult
	for rows.Next() {
		var rec model.LessonResult
		var completedAt string
		var quiz2 sql.NullInt64
		if err := rows.Scan(&rec.ID, &rec.Student, &completedAt, &rec.Grade, &rec.Subject,
			&rec.Topic, &rec.Quiz1Score, &quiz2, &rec.ReviewPoints, &rec.Appreciation); err != nil {
			return nil, err
		}
		rec.CompletedAt, err = time.Parse(timeLayout, completedAt)
		if err != nil {
			return nil, fmt.Errorf("parse timestamp %q: %w", completedAt, err)
		}
		if quiz2.Valid {
			v := int(quiz2.Int64)
			rec.Quiz2Score = &v
		}
		history = append(history, rec)
	}
	return history, rows.Err()
}
