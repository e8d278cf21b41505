package leetcode

import "fmt"

// AuthError reports a failed login. It aborts the run before any
// fetching begins.
type AuthError struct {
	Status int
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("login failed (code %d)", e.Status)
}

// CatalogError reports a failed problem catalog fetch, also fatal.
type CatalogError struct {
	Status int
}

func (e *CatalogError) Error() string {
	return fmt.Sprintf("unable to fetch problem list (code %d)", e.Status)
}

// FetchError reports a failed GraphQL fetch for one slug. The pipeline
// logs it and moves on to the next problem.
type FetchError struct {
	Slug   string
	Status int
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch %q (code %d)", e.Slug, e.Status)
}
