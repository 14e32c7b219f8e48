package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

type recordedRequest struct {
	Method string
	Path   string
	Body   string
	Auth   string
}

type testServer struct {
	server   *httptest.Server
	requests []recordedRequest
}

func newTestServer(t *testing.T, responses map[string]string) *testServer {
	t.Helper()
	ts := &testServer{}

	ts.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body bytes.Buffer
		body.ReadFrom(r.Body)

		ts.requests = append(ts.requests, recordedRequest{
			Method: r.Method,
			Path:   r.URL.RequestURI(),
			Body:   body.String(),
			Auth:   r.Header.Get("Authorization"),
		})

		key := r.Method + " " + r.URL.Path
		if resp, ok := responses[key]; ok {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(resp))
			return
		}

		w.WriteHeader(404)
		w.Write([]byte(`{"error":{"message":"not found","type":"not_found_error"}}`))
	}))

	t.Cleanup(ts.server.Close)
	return ts
}

func (ts *testServer) client() *apiClient {
	return &apiClient{
		baseURL:    ts.server.URL,
		token:      "test-token",
		httpClient: ts.server.Client(),
	}
}

var ctx = context.Background()

func TestUtterancePost(t *testing.T) {
	ts := newTestServer(t, map[string]string{
		"POST /utterances": `{"intent":"task","announced":"कार्य जोड़ा गया: दूध लेना"}`,
	})

	client := ts.client()

	resp, err := client.post(ctx, "/utterances", map[string]string{"text": "दूध लेना है"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var result struct {
		Intent    string `json:"intent"`
		Announced string `json:"announced"`
	}
	if err := decodeJSON(resp, &result); err != nil {
		t.Fatalf("decode error: %v", err)
	}

	if result.Intent != "task" {
		t.Errorf("intent = %q, want task", result.Intent)
	}
	if result.Announced == "" {
		t.Error("expected announced phrase")
	}

	if len(ts.requests) != 1 {
		t.Fatalf("expected 1 request, got %d", len(ts.requests))
	}
	r := ts.requests[0]
	if r.Method != "POST" || r.Path != "/utterances" {
		t.Errorf("request = %s %s, want POST /utterances", r.Method, r.Path)
	}
	if r.Auth != "Bearer test-token" {
		t.Errorf("auth = %q, want Bearer test-token", r.Auth)
	}

	var body map[string]string
	if err := json.Unmarshal([]byte(r.Body), &body); err != nil {
		t.Fatalf("body parse error: %v", err)
	}
	if body["text"] != "दूध लेना है" {
		t.Errorf("body.text = %q", body["text"])
	}
}

func TestCompleteTaskPatch(t *testing.T) {
	ts := newTestServer(t, map[string]string{
		"PATCH /tasks/abc123": `{"id":"abc123","text":"दवाई लेना","completed":true}`,
	})

	client := ts.client()

	resp, err := client.patch(ctx, "/tasks/abc123", map[string]bool{"completed": true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var task struct {
		Completed bool `json:"completed"`
	}
	if err := decodeJSON(resp, &task); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if !task.Completed {
		t.Error("task should be completed")
	}

	var body map[string]bool
	if err := json.Unmarshal([]byte(ts.requests[0].Body), &body); err != nil {
		t.Fatalf("body parse error: %v", err)
	}
	if !body["completed"] {
		t.Error("body.completed should be true")
	}
}

func TestItemSearchQueryEncoding(t *testing.T) {
	ts := newTestServer(t, map[string]string{
		"GET /items/search": `{"id":"i1","name":"चार्जर","location":"अलमारी"}`,
	})

	client := ts.client()

	resp, err := client.get(ctx, "/items/search?q=%E0%A4%9A%E0%A4%BE%E0%A4%B0%E0%A5%8D%E0%A4%9C%E0%A4%B0")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var item struct {
		Name     string `json:"name"`
		Location string `json:"location"`
	}
	if err := decodeJSON(resp, &item); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if item.Location != "अलमारी" {
		t.Errorf("location = %q, want अलमारी", item.Location)
	}

	if got := ts.requests[0].Path; got != "/items/search?q=%E0%A4%9A%E0%A4%BE%E0%A4%B0%E0%A5%8D%E0%A4%9C%E0%A4%B0" {
		t.Errorf("path = %q", got)
	}
}

func TestDecodeJSONErrorStatus(t *testing.T) {
	ts := newTestServer(t, nil)

	client := ts.client()

	resp, err := client.get(ctx, "/tasks/missing")
	if err != nil {
		t.Fatalf("unexpected transport error: %v", err)
	}

	var v any
	if err := decodeJSON(resp, &v); err == nil {
		t.Fatal("expected error for 404 response")
	}
}
