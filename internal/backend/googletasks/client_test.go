package googletasks_test

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

	"google.golang.org/api/option"

	"todolist/internal/backend/googletasks"
	"todolist/internal/store"
)

func newClient(t *testing.T, handler http.HandlerFunc) *googletasks.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := googletasks.NewWithHTTPClient(context.Background(), srv.Client(),
		option.WithEndpoint(srv.URL+"/"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return c
}

func TestList_DefaultListAndStatus(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/lists/@default/tasks") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("showCompleted") != "true" {
			t.Errorf("expected completed tasks to be requested, query %s", r.URL.RawQuery)
		}
		io.WriteString(w, `{"items":[
			{"id":"t1","title":"Buy milk","status":"needsAction"},
			{"id":"t2","title":"Walk dog","status":"completed"}]}`)
	})

	docs, err := c.List(context.Background(), "ignored", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(docs))
	}
	if docs[0].ID != "t1" || docs[0].Completed {
		t.Errorf("unexpected first document %+v", docs[0])
	}
	if docs[1].Text != "Walk dog" || !docs[1].Completed {
		t.Errorf("unexpected second document %+v", docs[1])
	}
}

func TestCreate(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || !strings.HasSuffix(r.URL.Path, "/lists/L1/tasks") {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		if body["title"] != "Buy milk" || body["status"] != "needsAction" {
			t.Errorf("unexpected body %v", body)
		}
		io.WriteString(w, `{"id":"new","title":"Buy milk","status":"needsAction"}`)
	})

	doc, err := c.Create(context.Background(), "", "L1", store.UniqueID, store.Fields{Text: "Buy milk"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.ID != "new" {
		t.Errorf("expected id %q, got %q", "new", doc.ID)
	}
}

func TestCreate_CallerID(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("server must not be called")
	})

	if _, err := c.Create(context.Background(), "", "L1", "mine", store.Fields{Text: "x"}); err == nil {
		t.Error("expected error for caller-chosen id")
	}
}

func TestUpdate_Uncomplete(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch || !strings.HasSuffix(r.URL.Path, "/lists/L1/tasks/t2") {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		if body["status"] != "needsAction" {
			t.Errorf("expected needsAction, got %v", body["status"])
		}
		if v, ok := body["completed"]; !ok || v != nil {
			t.Errorf("expected completed to be cleared, body %v", body)
		}
		io.WriteString(w, `{"id":"t2","title":"Walk dog","status":"needsAction"}`)
	})

	doc, err := c.Update(context.Background(), "", "L1", "t2", store.Patch{Completed: false})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Completed {
		t.Errorf("expected incomplete document, got %+v", doc)
	}
}

func TestDelete_NotFound(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `{"error":{"code":404,"message":"Not Found"}}`)
	})

	err := c.Delete(context.Background(), "", "L1", "gone")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestList_Unauthorized(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"error":{"code":401,"message":"Invalid Credentials"}}`)
	})

	_, err := c.List(context.Background(), "", "")
	if !errors.Is(err, googletasks.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
}

func TestTimeout(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
			return
		case <-time.After(100 * time.Millisecond):
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"items":[]}`)
	})

	c.SetTimeout(20 * time.Millisecond)
	_, err := c.List(context.Background(), "", "")
	if !errors.Is(err, context.DeadlineExceeded) || !strings.Contains(err.Error(), "timed out") {
		t.Errorf("expected timeout error, got %v", err)
	}

	// Zero removes the bound; the same slow call now completes.
	c.SetTimeout(0)
	docs, err := c.List(context.Background(), "", "")
	if err != nil {
		t.Fatalf("unexpected error with no timeout: %v", err)
	}
	if len(docs) != 0 {
		t.Errorf("expected no documents, got %v", docs)
	}
}
