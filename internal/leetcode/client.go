// Package leetcode talks to the remote problem site: a cookie-based
// login, the problem catalog listing, and two fixed GraphQL queries
// for question and solution documents.
package leetcode

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"
)

const (
	loginPath   = "/accounts/login/"
	catalogPath = "/api/problems/all/"
	graphqlPath = "/graphql"

	csrfCookie = "csrftoken"
)

// The query documents are fixed; only the titleSlug variable changes.
const (
	questionQuery = `query questionData($titleSlug: String!) { question(titleSlug: $titleSlug) { questionId title titleSlug content difficulty likes dislikes topicTags { name slug } codeSnippets { lang langSlug code __typename } stats hints solution { id canSeeDetail __typename } status } }`
	solutionQuery = `query QuestionNote($titleSlug: String!) { question(titleSlug: $titleSlug) { questionId article solution { id url content contentTypeId canSeeDetail rating { id count average } } } }`
)

// Client holds the authenticated session. Cookies set during login are
// retained in the jar for all subsequent calls; there is no other state.
type Client struct {
	http *http.Client
	base *url.URL
}

// NewClient creates a client for the given site base URL.
func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	return &Client{
		http: &http.Client{Jar: jar, Timeout: timeout},
		base: base,
	}, nil
}

// Login performs the two-step form login: fetch the login page to
// obtain the anti-forgery token cookie, then post the credentials
// together with that token.
func (c *Client) Login(ctx context.Context, username, password string) error {
	loginURL := c.base.JoinPath(loginPath).String()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, loginURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create login page request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch login page: %w", err)
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	token := c.csrfToken()
	if token == "" {
		return fmt.Errorf("no %s cookie after fetching login page", csrfCookie)
	}

	payload, err := json.Marshal(map[string]string{
		"login":               username,
		"password":            password,
		"csrfmiddlewaretoken": token,
	})
	if err != nil {
		return fmt.Errorf("failed to encode login payload: %w", err)
	}

	req, err = http.NewRequestWithContext(ctx, http.MethodPost, loginURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Referer", loginURL)
	req.Header.Set("X-CSRFToken", token)

	resp, err = c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to post login: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return &AuthError{Status: resp.StatusCode}
	}
	return nil
}

// FetchCatalog retrieves the full problem catalog as a raw document.
func (c *Client) FetchCatalog(ctx context.Context) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base.JoinPath(catalogPath).String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create catalog request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch catalog: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &CatalogError{Status: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog response: %w", err)
	}
	return body, nil
}

// FetchQuestion retrieves the question document (metadata, content,
// tags, code templates, stats blob) for a slug.
func (c *Client) FetchQuestion(ctx context.Context, slug string) (json.RawMessage, error) {
	return c.graphql(ctx, "questionData", questionQuery, slug)
}

// FetchSolution retrieves the solution document (article content and
// rating) for a slug.
func (c *Client) FetchSolution(ctx context.Context, slug string) (json.RawMessage, error) {
	return c.graphql(ctx, "QuestionNote", solutionQuery, slug)
}

// graphql posts one of the fixed query documents and unwraps the
// data.question object from the response envelope.
func (c *Client) graphql(ctx context.Context, operation, query, slug string) (json.RawMessage, error) {
	payload, err := json.Marshal(struct {
		OperationName string            `json:"operationName"`
		Variables     map[string]string `json:"variables"`
		Query         string            `json:"query"`
	}{
		OperationName: operation,
		Variables:     map[string]string{"titleSlug": slug},
		Query:         query,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode query for %q: %w", slug, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base.JoinPath(graphqlPath).String(), bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create query request for %q: %w", slug, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token := c.csrfToken(); token != "" {
		req.Header.Set("X-CSRFToken", token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %q: %w", slug, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{Slug: slug, Status: resp.StatusCode}
	}

	var envelope struct {
		Data struct {
			Question json.RawMessage `json:"question"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("failed to decode response for %q: %w", slug, err)
	}
	return envelope.Data.Question, nil
}

// csrfToken returns the anti-forgery token cookie for the site, or ""
// when the session has none yet.
func (c *Client) csrfToken() string {
	for _, cookie := range c.http.Jar.Cookies(c.base) {
		if cookie.Name == csrfCookie {
			return cookie.Value
		}
	}
	return ""
}
