package funcs

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestWikiSummary(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); ua != "iris/1.0" {
			t.Errorf("User-Agent = %q", ua)
		}
		fmt.Fprint(w, `{"title":"Go (programming language)","extract":"Go is a statically typed language."}`)
	}))
	defer srv.Close()

	svc := &wikiService{http: http.DefaultClient, baseURL: srv.URL + "/"}
	res, err := svc.summary("Go (programming language)")
	if err != nil {
		t.Fatal(err)
	}
	if res["summary"] != "Go is a statically typed language." {
		t.Errorf("summary = %v", res["summary"])
	}
}

func TestWikiSummaryNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer srv.Close()

	svc := &wikiService{http: http.DefaultClient, baseURL: srv.URL + "/"}
	if _, err := svc.summary("Nonexistent topic"); err == nil {
		t.Error("404 should surface as an error")
	}
}
