package translate

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"healthpulse/logger"
)

func TestTranslateSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/translate" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		if got := r.PostForm.Get("target_lang"); got != "ID" {
			t.Errorf("target_lang = %q; want ID", got)
		}
		w.Write([]byte(`{"translations":[{"detected_source_language":"EN","text":"Gula darah"}]}`))
	}))
	defer srv.Close()

	c := NewDeepLClient(srv.URL, "key", time.Millisecond, 5*time.Second, logger.NewNop())
	got := c.Translate(context.Background(), "Blood sugar", "en", "id")
	if got != "Gula darah" {
		t.Fatalf("Translate = %q; want %q", got, "Gula darah")
	}
}

func TestTranslateFailureFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewDeepLClient(srv.URL, "bad-key", time.Millisecond, 5*time.Second, logger.NewNop())
	original := "Blood sugar"
	if got := c.Translate(context.Background(), original, "en", "id"); got != original {
		t.Fatalf("Translate after 403 = %q; want original back", got)
	}
}

func TestTranslateEmptyInputSkipsCall(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	c := NewDeepLClient(srv.URL, "key", time.Millisecond, 5*time.Second, logger.NewNop())
	if got := c.Translate(context.Background(), "   ", "en", "id"); got != "   " {
		t.Fatalf("blank input changed: %q", got)
	}
	if called {
		t.Fatal("blank input should not hit the API")
	}
}

func TestTranslateThrottleSpacing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"translations":[{"text":"ok"}]}`))
	}))
	defer srv.Close()

	interval := 50 * time.Millisecond
	c := NewDeepLClient(srv.URL, "key", interval, 5*time.Second, logger.NewNop())

	start := time.Now()
	c.Translate(context.Background(), "one", "en", "id")
	c.Translate(context.Background(), "two", "en", "id")
	if elapsed := time.Since(start); elapsed < interval {
		t.Fatalf("second call not throttled: %v elapsed", elapsed)
	}
}

func TestNoopPassesThrough(t *testing.T) {
	if got := (Noop{}).Translate(context.Background(), "unchanged", "en", "id"); got != "unchanged" {
		t.Fatalf("Noop changed text: %q", got)
	}
}
