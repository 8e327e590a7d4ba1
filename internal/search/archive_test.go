package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNewArchiveClientRequiresBaseURL(t *testing.T) {
	if _, err := NewArchiveClient("  "); err == nil {
		t.Fatal("expected error when base url missing")
	}
}

func TestSearchFieldsCoverFilterInputs(t *testing.T) {
	// The content filter reads these fields; omitting one from the fl[]
	// list silently disables the filter that depends on it.
	needed := []string{"identifier", "title", "description", "mediatype", "licenseurl", "collection", "subject", "creator"}
	have := make(map[string]struct{}, len(searchFields))
	for _, field := range searchFields {
		have[field] = struct{}{}
	}
	for _, field := range needed {
		if _, ok := have[field]; !ok {
			t.Fatalf("search field list is missing %q", field)
		}
	}
}

func TestArchiveSearchSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		if got := query.Get("output"); got != "json" {
			t.Fatalf("expected output=json, got %q", got)
		}
		fields := query["fl[]"]
		if len(fields) != len(searchFields) {
			t.Fatalf("expected %d fl[] params, got %v", len(searchFields), fields)
		}
		if got := query.Get("q"); got != "moon landing AND mediatype:(movies OR image)" {
			t.Fatalf("unexpected q parameter: %q", got)
		}
		if got := query.Get("rows"); got != "25" {
			t.Fatalf("unexpected rows: %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"response":{"numFound":2,"docs":[
			{"identifier":"apollo11","title":"Apollo 11","description":["Moon landing","1969"],"mediatype":"movies","licenseurl":"https://creativecommons.org/publicdomain/mark/1.0/","collection":["nasa"],"subject":"space; moon","creator":"NASA","downloads":120000,"date":"1969-07-20"},
			{"identifier":"blank","title":"","mediatype":"movies"}
		]}}`))
	}))
	t.Cleanup(server.Close)

	client, err := NewArchiveClient(server.URL, WithDownloadBaseURL("https://archive.example/download"))
	if err != nil {
		t.Fatalf("NewArchiveClient: %v", err)
	}

	candidates, err := client.Search(context.Background(), Request{
		Query:      "moon landing",
		MediaTypes: []string{"movies", "image"},
		PageSize:   25,
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(candidates))
	}

	first := candidates[0]
	if first.Identifier != "apollo11" || first.Title != "Apollo 11" {
		t.Fatalf("unexpected candidate: %#v", first)
	}
	if first.Description != "Moon landing 1969" {
		t.Fatalf("expected array description joined, got %q", first.Description)
	}
	if len(first.Creator) != 1 || first.Creator[0] != "NASA" {
		t.Fatalf("expected scalar creator promoted to list, got %v", first.Creator)
	}
	if first.Locator != "https://archive.example/download/apollo11" {
		t.Fatalf("unexpected locator: %q", first.Locator)
	}
	if first.Downloads != 120000 {
		t.Fatalf("unexpected downloads: %d", first.Downloads)
	}
}

func TestArchiveSearchSkipsDocsWithoutIdentifier(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"response":{"numFound":1,"docs":[{"title":"orphan"}]}}`))
	}))
	t.Cleanup(server.Close)

	client, err := NewArchiveClient(server.URL)
	if err != nil {
		t.Fatalf("NewArchiveClient: %v", err)
	}
	candidates, err := client.Search(context.Background(), Request{Query: "anything"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(candidates) != 0 {
		t.Fatalf("expected orphan doc skipped, got %v", candidates)
	}
}

func TestArchiveSearchHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(server.Close)

	client, err := NewArchiveClient(server.URL)
	if err != nil {
		t.Fatalf("NewArchiveClient: %v", err)
	}
	if _, err := client.Search(context.Background(), Request{Query: "fail"}); err == nil {
		t.Fatal("expected error on non-200 status")
	}
}

func TestArchiveSearchEmptyQuery(t *testing.T) {
	client, err := NewArchiveClient("https://archive.org/advancedsearch.php")
	if err != nil {
		t.Fatalf("NewArchiveClient: %v", err)
	}
	if _, err := client.Search(context.Background(), Request{Query: "   "}); err == nil {
		t.Fatal("expected error for empty query")
	}
}

func TestBuildQueryWithoutMediaTypes(t *testing.T) {
	if got := buildQuery("moon", nil); got != "moon" {
		t.Fatalf("unexpected query: %q", got)
	}
}
