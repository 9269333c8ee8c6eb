package commands

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
)

func testFlow() *oauthFlow {
	gin.SetMode(gin.TestMode)
	return newOAuthFlow(&oauth2.Config{
		ClientID:    "client",
		Endpoint:    oauth2.Endpoint{AuthURL: "https://accounts.example.com/auth", TokenURL: "https://accounts.example.com/token"},
		RedirectURL: "http://localhost:8085/callback",
	})
}

func callback(t *testing.T, flow *oauthFlow, query url.Values) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, callbackPath+"?"+query.Encode(), nil)
	flow.router().ServeHTTP(w, req)
	return w
}

func TestOAuthFlow_AuthURL(t *testing.T) {
	flow := testFlow()

	u, err := url.Parse(flow.authURL())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	q := u.Query()
	if q.Get("state") != flow.state {
		t.Errorf("expected state %q, got %q", flow.state, q.Get("state"))
	}
	if q.Get("code_challenge_method") != "S256" || q.Get("code_challenge") == "" {
		t.Errorf("expected a PKCE challenge, got %s", u.RawQuery)
	}
	if q.Get("access_type") != "offline" {
		t.Errorf("expected offline access, got %q", q.Get("access_type"))
	}
}

func TestOAuthFlow_CallbackDeliversCode(t *testing.T) {
	flow := testFlow()

	w := callback(t, flow, url.Values{"state": {flow.state}, "code": {"abc"}})

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	if !strings.Contains(w.Body.String(), "Authentication successful") {
		t.Errorf("unexpected body %q", w.Body.String())
	}
	code, err := flow.wait(context.Background(), time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if code != "abc" {
		t.Errorf("expected %q, got %q", "abc", code)
	}
}

func TestOAuthFlow_CallbackRejects(t *testing.T) {
	tests := []struct {
		name  string
		query func(f *oauthFlow) url.Values
		err   string
	}{
		{"state mismatch", func(f *oauthFlow) url.Values { return url.Values{"state": {"forged"}, "code": {"abc"}} }, "oauth state mismatch"},
		{"missing code", func(f *oauthFlow) url.Values { return url.Values{"state": {f.state}} }, "no code in callback"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flow := testFlow()

			w := callback(t, flow, tt.query(flow))

			if w.Code != http.StatusBadRequest {
				t.Errorf("expected status %d, got %d", http.StatusBadRequest, w.Code)
			}
			_, err := flow.wait(context.Background(), time.Second)
			if err == nil || err.Error() != tt.err {
				t.Errorf("expected error %q, got %v", tt.err, err)
			}
		})
	}
}

func TestOAuthFlow_WaitCancelled(t *testing.T) {
	flow := testFlow()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := flow.wait(ctx, time.Minute); err != errLoginCancelled {
		t.Errorf("expected %v, got %v", errLoginCancelled, err)
	}
}
