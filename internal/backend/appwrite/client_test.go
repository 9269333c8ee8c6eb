package appwrite_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"todolist/internal/backend/appwrite"
	"todolist/internal/store"
)

const docsPath = "/v1/databases/db1/collections/tasks/documents"

func newClient(t *testing.T, handler http.HandlerFunc) *appwrite.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := appwrite.New(appwrite.Options{
		Endpoint:  srv.URL + "/v1/",
		ProjectID: "proj",
		APIKey:    "secret",
		Timeout:   time.Second,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return c
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	io.WriteString(w, body)
}

func TestNew_InvalidEndpoint(t *testing.T) {
	for _, endpoint := range []string{"", "cloud.appwrite.io", "ftp://x", "https://"} {
		if _, err := appwrite.New(appwrite.Options{Endpoint: endpoint}); err == nil {
			t.Errorf("expected error for endpoint %q", endpoint)
		}
	}
}

func TestList(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != docsPath {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("X-Appwrite-Project"); got != "proj" {
			t.Errorf("expected project header %q, got %q", "proj", got)
		}
		if got := r.Header.Get("X-Appwrite-Key"); got != "secret" {
			t.Errorf("expected key header %q, got %q", "secret", got)
		}
		writeJSON(w, http.StatusOK, `{"total":2,"documents":[
			{"$id":"a","$collectionId":"tasks","$databaseId":"db1","text":"Buy milk","completed":false},
			{"$id":"b","$collectionId":"tasks","$databaseId":"db1","text":"Walk dog","completed":true}]}`)
	})

	docs, err := c.List(context.Background(), "db1", "tasks")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []store.Document{
		{ID: "a", Text: "Buy milk"},
		{ID: "b", Text: "Walk dog", Completed: true},
	}
	if diff := cmp.Diff(want, docs); diff != "" {
		t.Errorf("unexpected documents (-want +got):\n%s", diff)
	}
}

func TestList_Empty(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"total":0,"documents":[]}`)
	})

	docs, err := c.List(context.Background(), "db1", "tasks")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if docs == nil || len(docs) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", docs)
	}
}

func TestCreate(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != docsPath {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
			t.Errorf("expected JSON content type, got %q", ct)
		}

		var body struct {
			DocumentID string         `json:"documentId"`
			Data       map[string]any `json:"data"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if body.DocumentID != store.UniqueID {
			t.Errorf("expected documentId %q, got %q", store.UniqueID, body.DocumentID)
		}
		if body.Data["text"] != "Buy milk" || body.Data["completed"] != false {
			t.Errorf("unexpected data %v", body.Data)
		}

		writeJSON(w, http.StatusCreated, `{"$id":"gen-1","text":"Buy milk","completed":false}`)
	})

	doc, err := c.Create(context.Background(), "db1", "tasks", "", store.Fields{Text: "Buy milk"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.ID != "gen-1" || doc.Text != "Buy milk" {
		t.Errorf("unexpected document %+v", doc)
	}
}

func TestUpdate(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch || r.URL.Path != docsPath+"/a" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body struct {
			Data map[string]any `json:"data"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if diff := cmp.Diff(map[string]any{"completed": true}, body.Data); diff != "" {
			t.Errorf("unexpected patch data (-want +got):\n%s", diff)
		}
		writeJSON(w, http.StatusOK, `{"$id":"a","text":"Buy milk","completed":true}`)
	})

	doc, err := c.Update(context.Background(), "db1", "tasks", "a", store.Patch{Completed: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !doc.Completed {
		t.Errorf("expected completed document, got %+v", doc)
	}
}

func TestDelete(t *testing.T) {
	called := false
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
		if r.Method != http.MethodDelete || r.URL.Path != docsPath+"/a" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusNoContent)
	})

	if err := c.Delete(context.Background(), "db1", "tasks", "a"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called {
		t.Error("expected server to be called")
	}
}

func TestError_NotFound(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound,
			`{"message":"Document with the requested ID could not be found.","code":404,"type":"document_not_found","version":"1.6.0"}`)
	})

	err := c.Delete(context.Background(), "db1", "tasks", "missing")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	var apiErr *appwrite.Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *appwrite.Error, got %T", err)
	}
	if apiErr.Code != http.StatusNotFound {
		t.Errorf("expected code 404, got %d", apiErr.Code)
	}
	if !strings.Contains(err.Error(), "could not be found") {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestError_ServerFailure(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadGateway, `{"message":"bad gateway","code":502,"type":"general_unknown"}`)
	})

	_, err := c.List(context.Background(), "db1", "tasks")
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.Is(err, store.ErrNotFound) {
		t.Error("502 must not match ErrNotFound")
	}
}

func TestTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
		writeJSON(w, http.StatusOK, `{"total":0,"documents":[]}`)
	}))
	t.Cleanup(srv.Close)
	// Cleanups run in reverse, so the handler is released before Close waits on it.
	t.Cleanup(func() { close(release) })

	c, err := appwrite.New(appwrite.Options{Endpoint: srv.URL + "/v1", Timeout: 20 * time.Millisecond})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	start := time.Now()
	_, err = c.List(context.Background(), "db1", "tasks")
	if !errors.Is(err, context.DeadlineExceeded) || !strings.Contains(err.Error(), "timed out") {
		t.Errorf("expected timeout error, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("list returned after %v, expected the 20ms bound to apply", elapsed)
	}
}
