package storage

import (
	"database/sql"
	"fmt"

	"github.com/conorfennell/leetfetch/internal/domain"
	_ "modernc.org/sqlite" // Registers the sqlite driver
)

// DB represents a wrapper around the SQL database connection.
type DB struct {
	conn *sql.DB
}

// Open creates a new database connection and ensures the schema is up to date.
func Open(dsn string) (*DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One connection: the pipeline is single-threaded, and a :memory:
	// dsn would otherwise give every pooled connection its own database.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Execute the schema to create tables if they don't exist.
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &DB{conn: db}, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// InsertQuestion stores a question together with its tag and snippet
// child rows as one transaction. A question that is already stored is
// left untouched, children included: INSERT OR IGNORE on the primary
// key decides, not a prior read.
func (db *DB) InsertQuestion(q *domain.Question) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction for question %d: %w", q.ID, err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		INSERT OR IGNORE INTO questions (id, titleSlug, title, content, difficulty, likes, dislikes, totalAccepted, totalSubmission)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		q.ID,
		q.TitleSlug,
		q.Title,
		q.Content,
		q.Difficulty,
		q.Likes,
		q.Dislikes,
		q.TotalAccepted,
		q.TotalSubmission,
	)
	if err != nil {
		return fmt.Errorf("failed to insert question %d: %w", q.ID, err)
	}

	inserted, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check insert of question %d: %w", q.ID, err)
	}
	if inserted == 0 {
		// Already stored; children were written with the original row.
		return nil
	}

	for _, tag := range q.TopicTags {
		if _, err := tx.Exec(`
			INSERT INTO topicTags (questionId, tag) VALUES (?, ?)
		`, q.ID, tag); err != nil {
			return fmt.Errorf("failed to insert tag for question %d: %w", q.ID, err)
		}
	}

	for _, snip := range q.CodeSnippets {
		if _, err := tx.Exec(`
			INSERT INTO codeSnippets (questionId, lang, code) VALUES (?, ?, ?)
		`, q.ID, snip.Lang, snip.Code); err != nil {
			return fmt.Errorf("failed to insert snippet for question %d: %w", q.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit question %d: %w", q.ID, err)
	}
	return nil
}

// InsertSolution stores a solution row for a question. A nil solution
// (not published upstream) is a no-op, as is a solution whose id or
// question is already stored.
func (db *DB) InsertSolution(questionID int64, s *domain.Solution) error {
	if s == nil {
		return nil
	}

	var rating sql.NullFloat64
	if s.AverageRating != nil {
		rating = sql.NullFloat64{Float64: *s.AverageRating, Valid: true}
	}

	_, err := db.conn.Exec(`
		INSERT OR IGNORE INTO solutions (id, questionId, content, averageRating, votes)
		VALUES (?, ?, ?, ?, ?)
	`,
		s.ID,
		questionID,
		s.Content,
		rating,
		s.Votes,
	)
	if err != nil {
		return fmt.Errorf("failed to insert solution %d: %w", s.ID, err)
	}
	return nil
}

// QuestionIDs returns the ids of all stored questions, unordered.
func (db *DB) QuestionIDs() ([]int64, error) {
	rows, err := db.conn.Query(`SELECT id FROM questions`)
	if err != nil {
		return nil, fmt.Errorf("failed to list question ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan question id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate question ids: %w", err)
	}
	return ids, nil
}

// GetQuestionView joins a question with its tags, snippets and solution
// into one denormalized aggregate. Returns nil without error when the
// id is not stored. The solution field of the view is an empty
// placeholder when no solution row exists, never null; tag and snippet
// lists are likewise empty, never null.
func (db *DB) GetQuestionView(id int64) (*domain.QuestionView, error) {
	var v domain.QuestionView
	row := db.conn.QueryRow(`
		SELECT id, titleSlug, title, content, difficulty, likes, dislikes, totalAccepted, totalSubmission
		FROM questions WHERE id = ?
	`, id)

	err := row.Scan(
		&v.QuestionID,
		&v.TitleSlug,
		&v.Title,
		&v.Content,
		&v.Difficulty,
		&v.Likes,
		&v.Dislikes,
		&v.TotalAccepted,
		&v.TotalSubmission,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Question not found
		}
		return nil, fmt.Errorf("failed to get question %d: %w", id, err)
	}

	v.TopicTags = make([]string, 0)
	rows, err := db.conn.Query(`SELECT tag FROM topicTags WHERE questionId = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get tags for question %d: %w", id, err)
	}
	defer rows.Close()
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, fmt.Errorf("failed to scan tag for question %d: %w", id, err)
		}
		v.TopicTags = append(v.TopicTags, tag)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tags for question %d: %w", id, err)
	}

	v.CodeSnippets = make([]domain.CodeSnippet, 0)
	snipRows, err := db.conn.Query(`SELECT lang, code FROM codeSnippets WHERE questionId = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get snippets for question %d: %w", id, err)
	}
	defer snipRows.Close()
	for snipRows.Next() {
		var s domain.CodeSnippet
		if err := snipRows.Scan(&s.Lang, &s.Code); err != nil {
			return nil, fmt.Errorf("failed to scan snippet for question %d: %w", id, err)
		}
		v.CodeSnippets = append(v.CodeSnippets, s)
	}
	if err := snipRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate snippets for question %d: %w", id, err)
	}

	var sol domain.Solution
	var rating sql.NullFloat64
	err = db.conn.QueryRow(`
		SELECT id, content, averageRating, votes FROM solutions WHERE questionId = ?
	`, id).Scan(&sol.ID, &sol.Content, &rating, &sol.Votes)
	switch {
	case err == sql.ErrNoRows:
		// No solution yet; leave the placeholder empty.
	case err != nil:
		return nil, fmt.Errorf("failed to get solution for question %d: %w", id, err)
	default:
		if rating.Valid {
			sol.AverageRating = &rating.Float64
		}
		v.Solution = domain.NewSolutionView(sol)
	}

	return &v, nil
}
