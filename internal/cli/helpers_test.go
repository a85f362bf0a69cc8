package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rshade/catalogview/internal/api"
	"github.com/rshade/catalogview/internal/config"
)

// setupCLITest isolates config, token and cache under a temp home and
// resets global state afterwards.
func setupCLITest(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv(config.EnvHome, home)
	t.Setenv(config.EnvLogLevel, "error")
	t.Setenv(config.EnvToken, "")
	t.Setenv(config.EnvAPIURL, "")

	prevTerminal := stdoutIsTerminal
	stdoutIsTerminal = func() bool { return false }

	config.ResetGlobalConfigForTest()
	t.Cleanup(func() {
		config.ResetGlobalConfigForTest()
		stdoutIsTerminal = prevTerminal
	})
	return home
}

// executeCmd runs the root command with args and returns stdout and stderr.
func executeCmd(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	config.ResetGlobalConfigForTest()

	var stdout, stderr bytes.Buffer
	root := NewRootCmd("test")
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func strPtr(s string) *string { return &s }

// newCatalogServer serves a small catalog:
//
//	P1 Widgets
//	  P1-1 Mini widget
//	    (no children)
//	  P1-2 Mega widget
//	P2 Gadgets (children fail with 500 "boom")
func newCatalogServer(t *testing.T) *httptest.Server {
	t.Helper()

	products := map[string][]api.Product{
		"null": {
			{ProductID: "P1", Name: "Widgets", AvailableFrom: "2024-03-01"},
			{ProductID: "P2", Name: "Gadgets", AvailableFrom: "2024-04-15T10:00:00Z"},
		},
		"P1": {
			{ProductID: "P1-1", ParentProductID: strPtr("P1"), Name: "Mini widget"},
			{ProductID: "P1-2", ParentProductID: strPtr("P1"), Name: "Mega widget"},
			// Superset noise the client filters out.
			{ProductID: "X-9", ParentProductID: strPtr("P9"), Name: "Stray"},
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/products", func(w http.ResponseWriter, r *http.Request) {
		parent := r.URL.Query().Get("parentProductId")
		if parent == "P2" {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		writeTestJSON(w, products[parent])
	})
	mux.HandleFunc("/products/P1", func(w http.ResponseWriter, _ *http.Request) {
		writeTestJSON(w, api.ProductDetail{
			ProductID:   "P1",
			Name:        "Widgets",
			Price:       12.5,
			Currency:    "USD",
			LastUpdated: "2024-05-20",
			Overview:    "Sturdy widgets for every desk.",
			Categories:  []string{"tools", "office"},
		})
	})
	mux.HandleFunc("/products/missing", func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	})
	mux.HandleFunc("/reviews", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("productId") != "P1" {
			writeTestJSON(w, []api.Review{})
			return
		}
		writeTestJSON(w, []api.Review{
			{
				ProductID:     "P1",
				ReviewID:      "R1",
				ReviewInfo:    api.ReviewAuthor{Name: "Ada", Email: "ada@example.com", Date: "2024-06-01"},
				ReviewContent: "Works as advertised.",
			},
			{
				ProductID:     "P1",
				ReviewID:      "R2",
				ReviewInfo:    api.ReviewAuthor{Name: "Lin", Email: "lin@example.com", Date: "2024-06-03"},
				ReviewContent: "Solid build.",
			},
		})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func writeTestJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
