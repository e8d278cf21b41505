package storage

import (
	"encoding/json"
	"testing"

	"github.com/conorfennell/leetfetch/internal/domain"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Failed to open in-memory database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func twoSum() *domain.Question {
	return &domain.Question{
		ID:              1,
		TitleSlug:       "two-sum",
		Title:           "Two Sum",
		Content:         "<p>Given an array of integers...</p>",
		Difficulty:      domain.DifficultyEasy,
		Likes:           100,
		Dislikes:        5,
		TotalAccepted:   4000,
		TotalSubmission: 9000,
		TopicTags:       []string{"Array", "Hash Table"},
		CodeSnippets: []domain.CodeSnippet{
			{Lang: "Go", Code: "func twoSum(nums []int, target int) []int {}"},
			{Lang: "Python3", Code: "class Solution: ..."},
		},
	}
}

func TestInsertQuestionIsIdempotent(t *testing.T) {
	db := openTestDB(t)

	if err := db.InsertQuestion(twoSum()); err != nil {
		t.Fatalf("First insert failed: %v", err)
	}
	if err := db.InsertQuestion(twoSum()); err != nil {
		t.Fatalf("Second insert failed: %v", err)
	}

	var count int
	if err := db.conn.QueryRow(`SELECT COUNT(*) FROM questions WHERE id = 1`).Scan(&count); err != nil {
		t.Fatalf("Failed to count questions: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected exactly 1 question row, got %d", count)
	}

	v, err := db.GetQuestionView(1)
	if err != nil {
		t.Fatalf("Failed to get view: %v", err)
	}
	if len(v.TopicTags) != 2 {
		t.Errorf("Expected 2 tags after duplicate insert, got %d", len(v.TopicTags))
	}
	if len(v.CodeSnippets) != 2 {
		t.Errorf("Expected 2 snippets after duplicate insert, got %d", len(v.CodeSnippets))
	}
}

func TestInsertQuestionWithoutSnippets(t *testing.T) {
	db := openTestDB(t)

	q := twoSum()
	q.CodeSnippets = nil
	if err := db.InsertQuestion(q); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	v, err := db.GetQuestionView(1)
	if err != nil {
		t.Fatalf("Failed to get view: %v", err)
	}
	if v.CodeSnippets == nil {
		t.Fatal("Expected an empty snippet list, got nil")
	}
	if len(v.CodeSnippets) != 0 {
		t.Errorf("Expected no snippets, got %d", len(v.CodeSnippets))
	}
}

func TestInsertSolution(t *testing.T) {
	db := openTestDB(t)
	if err := db.InsertQuestion(twoSum()); err != nil {
		t.Fatalf("Insert question failed: %v", err)
	}

	t.Run("nil solution is a no-op", func(t *testing.T) {
		if err := db.InsertSolution(1, nil); err != nil {
			t.Fatalf("Nil solution insert failed: %v", err)
		}
		var count int
		db.conn.QueryRow(`SELECT COUNT(*) FROM solutions`).Scan(&count)
		if count != 0 {
			t.Errorf("Expected no solution rows, got %d", count)
		}
	})

	t.Run("insert and duplicate", func(t *testing.T) {
		avg := 4.5
		sol := &domain.Solution{ID: 10, Content: "Use a hash map.", AverageRating: &avg, Votes: 12}
		if err := db.InsertSolution(1, sol); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
		if err := db.InsertSolution(1, sol); err != nil {
			t.Fatalf("Duplicate insert failed: %v", err)
		}
		var count int
		db.conn.QueryRow(`SELECT COUNT(*) FROM solutions WHERE id = 10`).Scan(&count)
		if count != 1 {
			t.Errorf("Expected exactly 1 solution row, got %d", count)
		}
	})

	t.Run("one solution per question", func(t *testing.T) {
		if err := db.InsertSolution(1, &domain.Solution{ID: 11, Content: "Another."}); err != nil {
			t.Fatalf("Second solution insert failed: %v", err)
		}
		var count int
		db.conn.QueryRow(`SELECT COUNT(*) FROM solutions WHERE questionId = 1`).Scan(&count)
		if count != 1 {
			t.Errorf("Expected 1 solution for the question, got %d", count)
		}
	})
}

func TestInsertSolutionWithoutRating(t *testing.T) {
	db := openTestDB(t)
	if err := db.InsertQuestion(twoSum()); err != nil {
		t.Fatalf("Insert question failed: %v", err)
	}
	if err := db.InsertSolution(1, &domain.Solution{ID: 10, Content: "Unrated."}); err != nil {
		t.Fatalf("Insert solution failed: %v", err)
	}

	v, err := db.GetQuestionView(1)
	if err != nil {
		t.Fatalf("Failed to get view: %v", err)
	}
	if v.Solution.ID != "10" {
		t.Errorf("Expected solution id \"10\", got %q", v.Solution.ID)
	}
	if v.Solution.AverageRating != nil {
		t.Errorf("Expected nil average rating, got %v", *v.Solution.AverageRating)
	}
	if v.Solution.Votes != 0 {
		t.Errorf("Expected zero votes, got %d", v.Solution.Votes)
	}
}

func TestGetQuestionViewMissing(t *testing.T) {
	db := openTestDB(t)
	v, err := db.GetQuestionView(99)
	if err != nil {
		t.Fatalf("Expected no error for a missing question, got %v", err)
	}
	if v != nil {
		t.Errorf("Expected nil view for a missing question, got %+v", v)
	}
}

func TestSolutionPlaceholderIsNeverNull(t *testing.T) {
	db := openTestDB(t)
	if err := db.InsertQuestion(twoSum()); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	v, err := db.GetQuestionView(1)
	if err != nil {
		t.Fatalf("Failed to get view: %v", err)
	}

	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("Failed to marshal view: %v", err)
	}
	var exported map[string]json.RawMessage
	if err := json.Unmarshal(data, &exported); err != nil {
		t.Fatalf("Failed to unmarshal view: %v", err)
	}
	if string(exported["solution"]) != "{}" {
		t.Errorf("Expected solution placeholder {}, got %s", exported["solution"])
	}
}

func TestQuestionIDs(t *testing.T) {
	db := openTestDB(t)

	q := twoSum()
	if err := db.InsertQuestion(q); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	q2 := twoSum()
	q2.ID = 2
	q2.TitleSlug = "add-two-numbers"
	if err := db.InsertQuestion(q2); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	ids, err := db.QuestionIDs()
	if err != nil {
		t.Fatalf("Failed to list ids: %v", err)
	}
	if len(ids) != 2 {
		t.Errorf("Expected 2 ids, got %d", len(ids))
	}
}
