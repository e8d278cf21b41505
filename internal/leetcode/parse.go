package leetcode

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/conorfennell/leetfetch/internal/domain"
)

// ParseCatalog extracts the problem slugs from a raw catalog document,
// in catalog order.
func ParseCatalog(doc json.RawMessage) ([]string, error) {
	var catalog struct {
		StatStatusPairs []struct {
			Stat struct {
				QuestionTitleSlug string `json:"question__title_slug"`
			} `json:"stat"`
		} `json:"stat_status_pairs"`
	}
	if err := json.Unmarshal(doc, &catalog); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	slugs := make([]string, len(catalog.StatStatusPairs))
	for i, pair := range catalog.StatStatusPairs {
		slugs[i] = pair.Stat.QuestionTitleSlug
	}
	return slugs, nil
}

// ParseQuestion converts a raw question document into a storeable
// record. The stats field arrives as a JSON-encoded string nested
// inside the document and needs a second parse. A null codeSnippets
// field (no templates published) becomes an empty list.
func ParseQuestion(doc json.RawMessage) (*domain.Question, error) {
	var wire struct {
		QuestionID string `json:"questionId"`
		Title      string `json:"title"`
		TitleSlug  string `json:"titleSlug"`
		Content    string `json:"content"`
		Difficulty string `json:"difficulty"`
		Likes      int64  `json:"likes"`
		Dislikes   int64  `json:"dislikes"`
		TopicTags  []struct {
			Name string `json:"name"`
		} `json:"topicTags"`
		CodeSnippets []struct {
			Lang string `json:"lang"`
			Code string `json:"code"`
		} `json:"codeSnippets"`
		Stats string `json:"stats"`
	}
	if err := json.Unmarshal(doc, &wire); err != nil {
		return nil, fmt.Errorf("failed to parse question: %w", err)
	}

	id, err := strconv.ParseInt(wire.QuestionID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("failed to parse question id %q: %w", wire.QuestionID, err)
	}

	var stats struct {
		TotalAcceptedRaw   int64 `json:"totalAcceptedRaw"`
		TotalSubmissionRaw int64 `json:"totalSubmissionRaw"`
	}
	if err := json.Unmarshal([]byte(wire.Stats), &stats); err != nil {
		return nil, fmt.Errorf("failed to parse stats for %q: %w", wire.TitleSlug, err)
	}

	q := &domain.Question{
		ID:              id,
		TitleSlug:       wire.TitleSlug,
		Title:           wire.Title,
		Content:         wire.Content,
		Difficulty:      wire.Difficulty,
		Likes:           wire.Likes,
		Dislikes:        wire.Dislikes,
		TotalAccepted:   stats.TotalAcceptedRaw,
		TotalSubmission: stats.TotalSubmissionRaw,
		TopicTags:       make([]string, len(wire.TopicTags)),
		CodeSnippets:    make([]domain.CodeSnippet, len(wire.CodeSnippets)),
	}
	for i, tag := range wire.TopicTags {
		q.TopicTags[i] = tag.Name
	}
	for i, snip := range wire.CodeSnippets {
		q.CodeSnippets[i] = domain.CodeSnippet{Lang: snip.Lang, Code: snip.Code}
	}
	return q, nil
}

// ParseSolution converts a raw solution document into the question id
// it belongs to plus its solution record. The record is nil when the
// site has not published a solution for the problem; a published
// solution without a rating gets a nil average and zero votes.
func ParseSolution(doc json.RawMessage) (int64, *domain.Solution, error) {
	var wire struct {
		QuestionID string `json:"questionId"`
		Solution   *struct {
			ID      string `json:"id"`
			Content string `json:"content"`
			Rating  *struct {
				Count   int64    `json:"count"`
				Average *float64 `json:"average"`
			} `json:"rating"`
		} `json:"solution"`
	}
	if err := json.Unmarshal(doc, &wire); err != nil {
		return 0, nil, fmt.Errorf("failed to parse solution: %w", err)
	}

	questionID, err := strconv.ParseInt(wire.QuestionID, 10, 64)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to parse question id %q: %w", wire.QuestionID, err)
	}

	if wire.Solution == nil {
		return questionID, nil, nil
	}

	id, err := strconv.ParseInt(wire.Solution.ID, 10, 64)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to parse solution id %q: %w", wire.Solution.ID, err)
	}

	sol := &domain.Solution{
		ID:      id,
		Content: wire.Solution.Content,
	}
	if wire.Solution.Rating != nil {
		sol.AverageRating = wire.Solution.Rating.Average
		sol.Votes = wire.Solution.Rating.Count
	}
	return questionID, sol, nil
}
