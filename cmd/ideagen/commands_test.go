package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/thinkscotty/ideagen/internal/gemini"
	"github.com/thinkscotty/ideagen/internal/ideas"
	"github.com/thinkscotty/ideagen/internal/models"
)

const fakeIdeas = "```json\n" + `[
  {"title": "Ramen Hacks", "type": "video", "description": "Five upgrades."},
  {"title": "Pantry Audit", "type": "blog", "description": "What to toss."}
]` + "\n```"

// newFakeGemini serves the model catalog and a fixed generateContent reply.
func newFakeGemini(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == "GET" && r.URL.Path == "/models":
			io.WriteString(w, `{"models":[{"name":"models/gemini-1.0-pro","displayName":"Gemini 1.0 Pro"},{"name":"models/gemini-1.5-flash","displayName":"Gemini 1.5 Flash"}]}`)
		case r.Method == "POST" && strings.HasSuffix(r.URL.Path, ":generateContent"):
			resp := gemini.GenerateResponse{Candidates: []gemini.Candidate{{
				Content: gemini.Content{Parts: []gemini.Part{{Text: fakeIdeas}}},
			}}}
			json.NewEncoder(w).Encode(resp)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func writeConfig(t *testing.T, baseURL string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := "logging:\n  level: error\ngemini:\n  api_key: test-key\n  base_url: " + baseURL + "\n  discovery_seconds: 5\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	}()
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(out, "ideagen dev") {
		t.Errorf("output = %q", out)
	}
}

func TestGenerateCommand_MissingFlags(t *testing.T) {
	cfgPath := writeConfig(t, "http://127.0.0.1:1")
	_, err := execute(t, "--config", cfgPath, "generate", "--niche", "Cooking")
	if err == nil {
		t.Fatal("expected error for missing --audience")
	}
	if !strings.Contains(err.Error(), "required") {
		t.Errorf("error = %q, want it to mention 'required'", err.Error())
	}
}

func TestGenerateCommand_Text(t *testing.T) {
	srv := newFakeGemini(t)
	cfgPath := writeConfig(t, srv.URL)

	out, err := execute(t, "--config", cfgPath, "generate",
		"--niche", "Cooking", "--audience", "students", "--json=false", "--count", "0")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(out, "Generated Ideas\nDate: ") {
		t.Errorf("output header = %q", out)
	}
	for _, want := range []string{"1. Ramen Hacks\nType: video   Niche: Cooking", "2. Pantry Audit"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestGenerateCommand_JSON(t *testing.T) {
	srv := newFakeGemini(t)
	cfgPath := writeConfig(t, srv.URL)

	out, err := execute(t, "--config", cfgPath, "generate",
		"--niche", "Cooking", "--audience", "students", "--json=true", "--count", "0")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var batch ideas.Batch
	if err := json.Unmarshal([]byte(out), &batch); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if batch.Model != "gemini-1.5-flash" {
		t.Errorf("model = %q, want the discovered gemini-1.5-flash", batch.Model)
	}
	if len(batch.Ideas) != 2 || batch.Ideas[1].TargetAudience != "students" {
		t.Errorf("ideas = %+v", batch.Ideas)
	}
}

func TestGenerateCommand_ProviderDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()
	cfgPath := writeConfig(t, srv.URL)

	_, err := execute(t, "--config", cfgPath, "generate",
		"--niche", "Cooking", "--audience", "students", "--json=false", "--count", "0")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "(transport)") {
		t.Errorf("error = %q, want transport kind", err.Error())
	}
}

func TestPrintBatch(t *testing.T) {
	batch := ideas.Batch{Model: "m", Ideas: []models.Idea{
		{Title: "Ramen Hacks", Type: models.TypeVideo, Niche: "Cooking", Description: "Five upgrades."},
	}}
	var buf bytes.Buffer
	if err := printBatch(&buf, batch, false, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)); err != nil {
		t.Fatal(err)
	}
	want := "Generated Ideas\nDate: 3/1/2024\n\n\n1. Ramen Hacks\nType: video   Niche: Cooking\nFive upgrades.\n\n"
	if buf.String() != want {
		t.Errorf("output = %q\nwant %q", buf.String(), want)
	}
}

func TestPrintModels(t *testing.T) {
	list := []gemini.Model{
		{Name: "models/gemini-1.0-pro", DisplayName: "Gemini 1.0 Pro"},
		{Name: "models/gemini-1.5-flash", DisplayName: "Gemini 1.5 Flash"},
	}
	var buf bytes.Buffer
	if err := printModels(&buf, list, "gemini-1.5-flash"); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("lines = %q", lines)
	}
	if strings.HasPrefix(lines[1], "*") {
		t.Errorf("unselected model marked: %q", lines[1])
	}
	if !strings.HasPrefix(lines[2], "*") || !strings.Contains(lines[2], "gemini-1.5-flash") {
		t.Errorf("selected line = %q", lines[2])
	}
}
