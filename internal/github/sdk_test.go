package github

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newSDKTestClient(t *testing.T, h http.HandlerFunc) *SDKClient {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := NewSDKClient("o", "r", "tok", srv.URL, time.Second)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestSDKClient_FetchBranches(t *testing.T) {
	c := newSDKTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/o/r/branches" {
			t.Errorf("path want /repos/o/r/branches got %s", r.URL.Path)
		}
		if h := r.Header.Get("Authorization"); h != "Bearer tok" {
			t.Errorf("Authorization want Bearer tok got %q", h)
		}
		_, _ = w.Write([]byte(`[{"name":"main","commit":{"sha":"aaa"}},{"name":"dev","commit":{"sha":"bbb"}}]`))
	})

	got, err := c.FetchBranchState(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0] != (Branch{Name: "main", SHA: "aaa"}) || got[1] != (Branch{Name: "dev", SHA: "bbb"}) {
		t.Errorf("branches got %+v", got)
	}
}

func TestSDKClient_FetchLatestCommit(t *testing.T) {
	c := newSDKTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/o/r/commits" {
			t.Errorf("path want /repos/o/r/commits got %s", r.URL.Path)
		}
		if r.URL.Query().Get("sha") != "main" {
			t.Errorf("sha query want main got %s", r.URL.Query().Get("sha"))
		}
		_, _ = w.Write([]byte(`[{"sha":"head"}]`))
	})
	c.Mode = ModeCommit
	c.Branch = "main"

	got, err := c.FetchBranchState(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].SHA != "head" || got[0].Name != "main" {
		t.Errorf("want [main head] got %+v", got)
	}
}

func TestSDKClient_ErrorMapping(t *testing.T) {
	t.Run("status", func(t *testing.T) {
		c := newSDKTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"message":"boom"}`))
		})
		_, err := c.FetchBranchState(context.Background())
		var reqErr *RequestError
		if !errors.As(err, &reqErr) {
			t.Fatalf("want RequestError got %T %v", err, err)
		}
		if reqErr.StatusCode != http.StatusInternalServerError {
			t.Errorf("StatusCode want 500 got %d", reqErr.StatusCode)
		}
	})
	t.Run("malformed body", func(t *testing.T) {
		c := newSDKTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"message":"not a list"}`))
		})
		_, err := c.FetchBranchState(context.Background())
		var parseErr *ParseError
		if !errors.As(err, &parseErr) {
			t.Fatalf("want ParseError got %T %v", err, err)
		}
	})
	t.Run("empty commits", func(t *testing.T) {
		c := newSDKTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`[]`))
		})
		c.Mode = ModeCommit
		_, err := c.FetchBranchState(context.Background())
		var parseErr *ParseError
		if !errors.As(err, &parseErr) {
			t.Fatalf("want ParseError got %T %v", err, err)
		}
	})
}
