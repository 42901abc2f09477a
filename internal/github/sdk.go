package github

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

	gogithub "github.com/google/go-github/v68/github"
	"golang.org/x/oauth2"
)

// SDKClient implements Fetcher with go-github. It honours the same modes as Client.
type SDKClient struct {
	client *gogithub.Client
	owner  string
	repo   string
	Mode   Mode
	Branch string
	log    *slog.Logger
}

// NewSDKClient returns a go-github backed fetcher for owner/repo.
// apiRoot overrides the API host (GitHub Enterprise, tests); token is optional.
func NewSDKClient(owner, repo, token, apiRoot string, timeout time.Duration) (*SDKClient, error) {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	httpClient := &http.Client{Timeout: timeout}
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, httpClient)
		httpClient = oauth2.NewClient(ctx, ts)
		httpClient.Timeout = timeout
	}
	client := gogithub.NewClient(httpClient)
	if apiRoot != "" {
		root, err := url.Parse(strings.TrimSuffix(apiRoot, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("parse api root: %w", err)
		}
		client.BaseURL = root
	}
	return &SDKClient{
		client: client,
		owner:  owner,
		repo:   repo,
		Mode:   ModeBranches,
		log:    slog.Default(),
	}, nil
}

// FetchBranchState implements Fetcher.
func (s *SDKClient) FetchBranchState(ctx context.Context) ([]Branch, error) {
	if s.Mode == ModeCommit {
		return s.fetchLatestCommit(ctx)
	}
	return s.fetchBranches(ctx)
}

func (s *SDKClient) fetchBranches(ctx context.Context) ([]Branch, error) {
	u := s.endpoint("branches")
	branches, _, err := s.client.Repositories.ListBranches(ctx, s.owner, s.repo, &gogithub.BranchListOptions{
		ListOptions: gogithub.ListOptions{PerPage: 100},
	})
	if err != nil {
		return nil, sdkError(u, err)
	}
	out := make([]Branch, 0, len(branches))
	for i, b := range branches {
		if b.GetName() == "" || b.GetCommit().GetSHA() == "" {
			return nil, &ParseError{URL: u, Err: fmt.Errorf("branch %d: missing name or commit sha", i)}
		}
		out = append(out, Branch{Name: b.GetName(), SHA: b.GetCommit().GetSHA()})
	}
	s.log.Debug("branches fetched", "count", len(out))
	return out, nil
}

func (s *SDKClient) fetchLatestCommit(ctx context.Context) ([]Branch, error) {
	u := s.endpoint("commits")
	commits, _, err := s.client.Repositories.ListCommits(ctx, s.owner, s.repo, &gogithub.CommitsListOptions{
		SHA:         s.Branch,
		ListOptions: gogithub.ListOptions{PerPage: 1},
	})
	if err != nil {
		return nil, sdkError(u, err)
	}
	if len(commits) == 0 {
		return nil, &ParseError{URL: u, Err: errors.New("empty commit list")}
	}
	sha := commits[0].GetSHA()
	if sha == "" {
		return nil, &ParseError{URL: u, Err: errors.New("latest commit has no sha")}
	}
	s.log.Debug("latest commit fetched", "branch", s.Branch, "sha", sha)
	return []Branch{{Name: s.Branch, SHA: sha}}, nil
}

func (s *SDKClient) endpoint(suffix string) string {
	return fmt.Sprintf("%srepos/%s/%s/%s", s.client.BaseURL, s.owner, s.repo, suffix)
}

// sdkError maps go-github errors onto RequestError and ParseError.
func sdkError(u string, err error) error {
	var respErr *gogithub.ErrorResponse
	if errors.As(err, &respErr) && respErr.Response != nil {
		return &RequestError{URL: u, StatusCode: respErr.Response.StatusCode, Err: err}
	}
	var rateErr *gogithub.RateLimitError
	if errors.As(err, &rateErr) && rateErr.Response != nil {
		return &RequestError{URL: u, StatusCode: rateErr.Response.StatusCode, Err: err}
	}
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) || errors.Is(err, io.ErrUnexpectedEOF) {
		return &ParseError{URL: u, Err: err}
	}
	return &RequestError{URL: u, Err: err}
}
