package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNotify(t *testing.T) {
	var got payload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decoding body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	NewWebhook(srv.URL).Notify(context.Background(), "कार्य रिमाइंडर", "दवाई लेना")
	if got.Title != "कार्य रिमाइंडर" || got.Body != "दवाई लेना" {
		t.Errorf("payload = %+v", got)
	}
}

func TestNotify_DisabledAndUnreachable(t *testing.T) {
	// Both must be silent no-ops.
	NewWebhook("").Notify(context.Background(), "t", "b")
	NewWebhook("http://127.0.0.1:1/nope").Notify(context.Background(), "t", "b")
}
