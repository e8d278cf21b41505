// Package sync drives the fetch loop: one problem at a time, cache
// first, remote second, store third. Per-item failures are logged and
// skipped; the run as a whole only fails when the catalog itself
// cannot be obtained.
package sync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"

	"github.com/conorfennell/leetfetch/internal/cache"
	"github.com/conorfennell/leetfetch/internal/domain"
	"github.com/conorfennell/leetfetch/internal/leetcode"
	"github.com/conorfennell/leetfetch/internal/storage"
)

// Stats counts processed problems. A problem's question and solution
// documents count as a single unit: both must land for a success.
type Stats struct {
	Total     int
	Succeeded int
}

// Run fetches every problem in the catalog sequentially. Cancelling
// the context halts the loop early; everything committed so far stays
// committed. limit caps the number of problems processed, 0 means all.
func Run(ctx context.Context, client *leetcode.Client, db *storage.DB, fc *cache.Cache, limit int) (*Stats, error) {
	catalog, ok := fc.ReadCatalog()
	if !ok {
		var err error
		catalog, err = client.FetchCatalog(ctx)
		if err != nil {
			return nil, err
		}
		if err := fc.WriteCatalog(catalog); err != nil {
			return nil, err
		}
	}

	slugs, err := leetcode.ParseCatalog(catalog)
	if err != nil {
		return nil, err
	}

	stats := &Stats{}
	for _, slug := range slugs {
		if limit > 0 && stats.Total >= limit {
			break
		}
		if ctx.Err() != nil {
			slog.Info("Interrupted, stopping fetch loop", "fetched", stats.Succeeded)
			break
		}

		stats.Total++
		slog.Info("Fetching problem", "slug", slug, "n", stats.Total, "total", len(slugs))

		if err := fetchProblem(ctx, client, db, fc, slug); err != nil {
			if errors.Is(err, context.Canceled) {
				slog.Info("Interrupted, stopping fetch loop", "fetched", stats.Succeeded)
				break
			}
			slog.Error("Failed to fetch problem", "slug", slug, "error", err)
			continue
		}
		stats.Succeeded++
	}
	return stats, nil
}

// fetchProblem handles one slug: the question document, then the
// solution document. A cache hit skips both the remote call and the
// store insert for that document; on a miss the store insert happens
// before the cache write, so a fresh run can repair a missing row.
func fetchProblem(ctx context.Context, client *leetcode.Client, db *storage.DB, fc *cache.Cache, slug string) error {
	if _, ok := fc.Read(cache.KindProblem, slug); !ok {
		doc, err := client.FetchQuestion(ctx, slug)
		if err != nil {
			return err
		}
		q, err := leetcode.ParseQuestion(doc)
		if err != nil {
			return err
		}
		if err := db.InsertQuestion(q); err != nil {
			return err
		}
		if err := fc.Write(cache.KindProblem, slug, doc); err != nil {
			return err
		}
	}

	if _, ok := fc.Read(cache.KindArticle, slug); !ok {
		doc, err := client.FetchSolution(ctx, slug)
		if err != nil {
			return err
		}
		questionID, sol, err := leetcode.ParseSolution(doc)
		if err != nil {
			return err
		}
		if err := db.InsertSolution(questionID, sol); err != nil {
			return err
		}
		if err := fc.Write(cache.KindArticle, slug, doc); err != nil {
			return err
		}
	}
	return nil
}

// Export reads every stored question back as a denormalized view,
// sorted by ascending id, and writes the result as one formatted JSON
// document.
func Export(db *storage.DB, path string) error {
	ids, err := db.QuestionIDs()
	if err != nil {
		return err
	}
	slices.Sort(ids)

	views := make([]*domain.QuestionView, 0, len(ids))
	for _, id := range ids {
		v, err := db.GetQuestionView(id)
		if err != nil {
			return err
		}
		if v == nil {
			return fmt.Errorf("question %d disappeared during export", id)
		}
		views = append(views, v)
	}

	data, err := json.MarshalIndent(views, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode export: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write export %s: %w", path, err)
	}
	return nil
}
