package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/KI7MT/ki7mt-solar-cycle/internal/source"
)

func TestSelectSources(t *testing.T) {
	if got := selectSources("all"); len(got) != len(sources) {
		t.Errorf("selectSources(all) = %d sources, want %d", len(got), len(sources))
	}
	if got := selectSources("noaa_f107"); len(got) != 1 || got[0].Field != "f10.7" {
		t.Errorf("selectSources(noaa_f107) = %+v", got)
	}
	if got := selectSources("bogus"); got != nil {
		t.Errorf("selectSources(bogus) = %+v, want nil", got)
	}
}

func TestDownload_SharedDocument(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`[{"time-tag":"2020-01","ssn":6.2,"f10.7":72.1}]`))
	}))
	defer srv.Close()

	dir := t.TempDir()
	f := source.NewFetcher(5 * time.Second)
	cache := make(map[string][]byte)

	for _, src := range []DataSource{
		{Name: "ssn", URL: srv.URL, Filename: "ssn.txt", Field: "ssn"},
		{Name: "flux", URL: srv.URL, Filename: "flux.txt", Field: "f10.7"},
	} {
		if _, err := download(context.Background(), f, cache, src, filepath.Join(dir, src.Filename)); err != nil {
			t.Fatalf("download %s: %v", src.Name, err)
		}
	}

	if calls != 1 {
		t.Errorf("server calls = %d, want 1", calls)
	}

	data, err := os.ReadFile(filepath.Join(dir, "flux.txt"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(data), "2020 01 72.1\n") {
		t.Errorf("flux.txt = %q, want converted row", data)
	}
}
