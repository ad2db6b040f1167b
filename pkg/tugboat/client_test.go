package tugboat_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-tugboat/pkg/tugboat"
)

func TestClient_CreatePreview(t *testing.T) {
	var got tugboat.CreatePreviewRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/previews" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer secret" {
			t.Errorf("unexpected authorization header %q", auth)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("unexpected content type %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte(`{"id":"p1","name":"feature preview","ref":"feature","repo":"r1","state":"building","url":"https://p1.tugboat.qa","createdAt":"2026-01-02T03:04:05Z"}`))
	}))
	defer server.Close()

	client := newClient(t, server.URL)
	preview, err := client.CreatePreview(context.Background(), tugboat.CreatePreviewRequest{
		Repo: "r1", Ref: "feature", Name: "feature preview", Type: tugboat.RefBranch,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	wantReq := tugboat.CreatePreviewRequest{Repo: "r1", Ref: "feature", Name: "feature preview", Type: tugboat.RefBranch}
	if diff := cmp.Diff(wantReq, got); diff != "" {
		t.Fatalf("request mismatch (-want +got):\n%s", diff)
	}
	want := tugboat.Preview{
		ID:        "p1",
		Name:      "feature preview",
		Ref:       "feature",
		Repo:      "r1",
		State:     "building",
		URL:       "https://p1.tugboat.qa",
		CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	if diff := cmp.Diff(want, preview); diff != "" {
		t.Fatalf("preview mismatch (-want +got):\n%s", diff)
	}
}

func TestClient_ListGetDelete(t *testing.T) {
	var deleted string
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/r1/previews", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":"p1","ref":"main","anchor":true},{"id":"p2","ref":"feature"}]`))
	})
	mux.HandleFunc("GET /previews/p2", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"p2","ref":"feature"}`))
	})
	mux.HandleFunc("DELETE /previews/p2", func(w http.ResponseWriter, r *http.Request) {
		deleted = "p2"
		w.WriteHeader(http.StatusNoContent)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := newClient(t, server.URL)
	ctx := context.Background()

	previews, err := client.ListPreviews(ctx, "r1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(previews) != 2 || !previews[0].Anchor || previews[1].ID != "p2" {
		t.Fatalf("unexpected previews %#v", previews)
	}

	preview, err := client.GetPreview(ctx, "p2")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if preview.Ref != "feature" {
		t.Fatalf("unexpected preview %#v", preview)
	}

	if err := client.DeletePreview(ctx, "p2"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if deleted != "p2" {
		t.Fatalf("delete not sent")
	}
}

func TestClient_APIErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/previews/missing":
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"code":404,"message":"Preview not found"}`))
		default:
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte("upstream down"))
		}
	}))
	defer server.Close()

	client := newClient(t, server.URL)

	_, err := client.GetPreview(context.Background(), "missing")
	var apiErr *tugboat.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if diff := cmp.Diff(&tugboat.APIError{StatusCode: 404, Code: 404, Message: "Preview not found"}, apiErr); diff != "" {
		t.Fatalf("api error mismatch (-want +got):\n%s", diff)
	}
	if !tugboat.IsNotFound(err) {
		t.Fatalf("expected IsNotFound")
	}

	err = client.DeletePreview(context.Background(), "other")
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusBadGateway || apiErr.Message != "upstream down" {
		t.Fatalf("expected plain-text APIError, got %#v", err)
	}
	if tugboat.IsNotFound(err) {
		t.Fatalf("502 must not be reported as not found")
	}
}

func TestNewClient_Validation(t *testing.T) {
	if _, err := tugboat.NewClient(); err == nil {
		t.Fatalf("expected missing token error")
	}
	if _, err := tugboat.NewClient(tugboat.WithToken("x"), tugboat.WithBaseURL("ftp://example.com")); err == nil {
		t.Fatalf("expected scheme error")
	}
	client, err := tugboat.NewClient(tugboat.WithToken("x"))
	if err != nil || client == nil {
		t.Fatalf("expected default client, got %v", err)
	}
}

func TestClient_RequiresArguments(t *testing.T) {
	client := newClient(t, "http://127.0.0.1:1")
	ctx := context.Background()
	if _, err := client.CreatePreview(ctx, tugboat.CreatePreviewRequest{Repo: "r1"}); err == nil {
		t.Fatalf("expected missing ref error")
	}
	if _, err := client.ListPreviews(ctx, " "); err == nil {
		t.Fatalf("expected missing repo error")
	}
	if err := client.DeletePreview(ctx, ""); err == nil {
		t.Fatalf("expected missing id error")
	}
}

func TestRefTypeValid(t *testing.T) {
	for _, valid := range []tugboat.RefType{tugboat.RefBranch, tugboat.RefTag, tugboat.RefPullRequest} {
		if !valid.Valid() {
			t.Fatalf("%q should be valid", valid)
		}
	}
	if tugboat.RefType("commit").Valid() {
		t.Fatalf("commit should be invalid")
	}
}

func newClient(t *testing.T, baseURL string) *tugboat.Client {
	t.Helper()
	client, err := tugboat.NewClient(
		tugboat.WithBaseURL(baseURL),
		tugboat.WithToken("secret"),
		tugboat.WithTimeout(5*time.Second),
	)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}
