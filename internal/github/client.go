package github

//go:generate go run go.uber.org/mock/mockgen -destination client_mock.gen.go -package github . Fetcher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Mode selects what FetchBranchState reads from the API.
type Mode string

const (
	// ModeBranches lists every branch with its head commit.
	ModeBranches Mode = "branches"
	// ModeCommit reads the latest commit of a single branch.
	ModeCommit Mode = "commit"
)

// Fetcher returns the current head commit of each tracked branch (used by poller).
type Fetcher interface {
	FetchBranchState(ctx context.Context) ([]Branch, error)
}

// Client implements Fetcher against the GitHub REST API with plain net/http.
// BaseURL is the repository endpoint, e.g. https://api.github.com/repos/owner/repo.
type Client struct {
	httpClient *http.Client
	token      string
	BaseURL    string
	Mode       Mode
	Branch     string // commit mode only; empty means the default branch
	log        *slog.Logger
}

// NewClient returns a GitHub API client in branches mode. token is optional.
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		token:      token,
		BaseURL:    strings.TrimSuffix(baseURL, "/"),
		Mode:       ModeBranches,
		log:        slog.Default(),
	}
}

// FetchBranchState returns every branch in branches mode, or a single entry
// holding the latest commit of Branch in commit mode.
func (c *Client) FetchBranchState(ctx context.Context) ([]Branch, error) {
	if c.Mode == ModeCommit {
		sha, err := c.FetchLatestCommit(ctx)
		if err != nil {
			return nil, err
		}
		return []Branch{{Name: c.Branch, SHA: sha}}, nil
	}
	return c.FetchBranches(ctx)
}

// FetchBranches lists branches with their head commit. Only the first page is read.
func (c *Client) FetchBranches(ctx context.Context) ([]Branch, error) {
	u := c.BaseURL + "/branches"
	var raw []BranchResponse
	if err := c.getJSON(ctx, u, &raw); err != nil {
		return nil, err
	}
	out := make([]Branch, 0, len(raw))
	for i, b := range raw {
		if b.Name == "" || b.Commit.SHA == "" {
			return nil, &ParseError{URL: u, Err: fmt.Errorf("branch %d: missing name or commit sha", i)}
		}
		out = append(out, Branch{Name: b.Name, SHA: b.Commit.SHA})
	}
	c.log.Debug("branches fetched", "count", len(out))
	return out, nil
}

// FetchLatestCommit returns the sha of the first entry of the commit list.
func (c *Client) FetchLatestCommit(ctx context.Context) (string, error) {
	u := c.commitsURL()
	var raw []CommitResponse
	if err := c.getJSON(ctx, u, &raw); err != nil {
		return "", err
	}
	if len(raw) == 0 {
		return "", &ParseError{URL: u, Err: errors.New("empty commit list")}
	}
	if raw[0].SHA == "" {
		return "", &ParseError{URL: u, Err: errors.New("latest commit has no sha")}
	}
	c.log.Debug("latest commit fetched", "branch", c.Branch, "sha", raw[0].SHA)
	return raw[0].SHA, nil
}

func (c *Client) commitsURL() string {
	u := c.BaseURL + "/commits"
	if c.Branch == "" {
		return u
	}
	q := url.Values{}
	q.Set("sha", c.Branch)
	q.Set("per_page", "1")
	return u + "?" + q.Encode()
}

func (c *Client) getJSON(ctx context.Context, u string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return &RequestError{URL: u, Err: err}
	}
	c.setAuth(req)
	req.Header.Set("Accept", "application/vnd.github+json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &RequestError{URL: u, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return &RequestError{URL: u, StatusCode: resp.StatusCode, Err: errors.New(resp.Status)}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &RequestError{URL: u, Err: err}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &ParseError{URL: u, Err: err}
	}
	return nil
}

func (c *Client) setAuth(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}
