package domain

import (
	"encoding/json"
	"strconv"
)

// Difficulty levels as reported by the catalog. The store enforces
// these with a CHECK constraint.
const (
	DifficultyEasy   = "Easy"
	DifficultyMedium = "Medium"
	DifficultyHard   = "Hard"
)

// Question is a single problem with its child tags and code templates.
// A question is immutable once stored; re-fetches are skipped.
type Question struct {
	ID              int64
	TitleSlug       string
	Title           string
	Content         string
	Difficulty      string
	Likes           int64
	Dislikes        int64
	TotalAccepted   int64
	TotalSubmission int64
	TopicTags       []string
	CodeSnippets    []CodeSnippet
}

// CodeSnippet is a per-language starter template. A question may have none.
type CodeSnippet struct {
	Lang string `json:"lang"`
	Code string `json:"code"`
}

// Solution is an editorial article for a question, at most one per
// question. AverageRating is nil when the article has no rating yet.
type Solution struct {
	ID            int64
	Content       string
	AverageRating *float64
	Votes         int64
}

// QuestionView is the denormalized export shape: a question joined with
// all of its child rows.
type QuestionView struct {
	QuestionID      int64         `json:"questionId"`
	TitleSlug       string        `json:"titleSlug"`
	Title           string        `json:"title"`
	Content         string        `json:"content"`
	Difficulty      string        `json:"difficulty"`
	Likes           int64         `json:"likes"`
	Dislikes        int64         `json:"dislikes"`
	TotalAccepted   int64         `json:"totalAccepted"`
	TotalSubmission int64         `json:"totalSubmission"`
	TopicTags       []string      `json:"topicTags"`
	CodeSnippets    []CodeSnippet `json:"codeSnippets"`
	Solution        SolutionView  `json:"solution"`
}

// SolutionView is the solution part of a QuestionView. A question
// without a stored solution exports as an empty object, never null.
type SolutionView struct {
	ID            string   `json:"id"`
	Content       string   `json:"content"`
	AverageRating *float64 `json:"averageRating"`
	Votes         int64    `json:"votes"`
}

// NewSolutionView builds the view for a stored solution row.
func NewSolutionView(s Solution) SolutionView {
	return SolutionView{
		ID:            strconv.FormatInt(s.ID, 10),
		Content:       s.Content,
		AverageRating: s.AverageRating,
		Votes:         s.Votes,
	}
}

// MarshalJSON emits {} for the absent-solution placeholder so the
// exported field is always an object.
func (v SolutionView) MarshalJSON() ([]byte, error) {
	if v.ID == "" {
		return []byte("{}"), nil
	}
	type plain SolutionView
	return json.Marshal(plain(v))
}
