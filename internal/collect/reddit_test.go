package collect

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestCollectRedditParsesListing(t *testing.T) {
	created := float64(time.Now().Unix())
	listing := fmt.Sprintf(`{"data":{"children":[
		{"data":{"title":"Self post","permalink":"/r/test/1","selftext":"some body","is_self":true,"created_utc":%.0f}},
		{"data":{"title":"Empty self","permalink":"/r/test/2","selftext":"","is_self":true,"created_utc":%.0f}},
		{"data":{"title":"Link post","permalink":"/r/test/3","url":"https://target.example","selftext":"","is_self":false,"created_utc":%.0f}}
	]}}`, created, created, created)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, listing)
	}))
	defer server.Close()

	collector := NewCollector(nil, Options{Timeout: 5 * time.Second, RetryDelay: time.Millisecond})
	collector.client = server.Client()

	got, err := collector.decodeRedditListing(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("decode listing: %v", err)
	}
	items := collector.redditCandidates(got, "test")

	if len(items) != 2 {
		t.Fatalf("expected 2 candidates (empty self post skipped), got %d", len(items))
	}
	if items[0].URL != "https://reddit.com/r/test/1" {
		t.Errorf("permalink not canonicalized: %s", items[0].URL)
	}
	if items[1].Body != "Link: https://target.example" {
		t.Errorf("link post body wrong: %q", items[1].Body)
	}
}
