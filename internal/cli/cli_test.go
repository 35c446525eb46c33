package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cinematch/cinematch/internal/catalog"
	"github.com/cinematch/cinematch/internal/config"
)

const (
	testMovies = "../../testdata/dataset/movies.csv"
	testMatrix = "../../testdata/dataset/similarity.csv"
)

// runCLI executes a fresh command tree with args and returns its stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func isolateEnv(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("TMDB_API_KEY", "")
	t.Setenv("CINEMATCH_LOG_LEVEL", "")
}

func importTestdata(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	out, err := runCLI(t, "import", "--root", root, "--log-level", "error",
		"--movies", testMovies, "--matrix", testMatrix)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if !strings.Contains(out, "Imported 5 movies") {
		t.Errorf("unexpected import output: %q", out)
	}
	return root
}

func TestImport_PackagesDataset(t *testing.T) {
	isolateEnv(t)
	root := importTestdata(t)

	if _, err := os.Stat(config.ProjectDBPath(root)); err != nil {
		t.Fatalf("database not created: %v", err)
	}
	pcfg, err := config.LoadProject(root)
	if err != nil {
		t.Fatalf("LoadProject: %v", err)
	}
	if pcfg.Dataset.Name != "movies" || pcfg.Dataset.Movies != testMovies {
		t.Errorf("project config: got %+v", pcfg.Dataset)
	}

	info, ds, err := loadDataset(root)
	if err != nil {
		t.Fatalf("loadDataset: %v", err)
	}
	if info.MovieCount != 5 || ds.Len() != 5 {
		t.Errorf("expected 5 movies, got info %d, dataset %d", info.MovieCount, ds.Len())
	}
}

func TestImport_MissingFile(t *testing.T) {
	isolateEnv(t)
	_, err := runCLI(t, "import", "--root", t.TempDir(), "--log-level", "error",
		"--movies", "nope.csv", "--matrix", testMatrix)
	if !errors.Is(err, catalog.ErrDatasetUnavailable) {
		t.Errorf("expected ErrDatasetUnavailable, got %v", err)
	}
}

func TestRecommend_JSON(t *testing.T) {
	isolateEnv(t)
	root := importTestdata(t)

	out, err := runCLI(t, "recommend", "--root", root, "--log-level", "error",
		"--format", "json", "--count", "2", "Avatar")
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}

	var parsed struct {
		Title           string `json:"title"`
		Recommendations []struct {
			Title    string `json:"title"`
			Degraded bool   `json:"degraded"`
		} `json:"recommendations"`
	}
	if err := json.Unmarshal([]byte(out), &parsed); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, out)
	}
	if parsed.Title != "Avatar" {
		t.Errorf("resolved title: got %q", parsed.Title)
	}
	if len(parsed.Recommendations) != 2 {
		t.Fatalf("expected 2 recommendations, got %d", len(parsed.Recommendations))
	}
	if parsed.Recommendations[0].Title != "Inception" || parsed.Recommendations[1].Title != "Interstellar" {
		t.Errorf("unexpected ranking: %+v", parsed.Recommendations)
	}
	if !parsed.Recommendations[0].Degraded {
		t.Error("without an API key metadata should be placeholders")
	}
}

func TestRecommend_FuzzyAndExact(t *testing.T) {
	isolateEnv(t)
	root := importTestdata(t)

	out, err := runCLI(t, "recommend", "--root", root, "--log-level", "error",
		"--count", "1", "Titanik")
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	if !strings.Contains(out, `closest match to "Titanik"`) {
		t.Errorf("expected fuzzy note, got %q", out)
	}

	_, err = runCLI(t, "recommend", "--root", root, "--log-level", "error",
		"--exact", "Titanik")
	if err == nil || !strings.Contains(err.Error(), "no movie matches") {
		t.Errorf("expected not-found error, got %v", err)
	}
}

func TestRecommend_ExactDoesNotLeak(t *testing.T) {
	isolateEnv(t)
	root := importTestdata(t)

	if _, err := runCLI(t, "recommend", "--root", root, "--log-level", "error",
		"--exact", "Titanik"); err == nil {
		t.Fatal("expected --exact to reject a misspelled title")
	}

	out, err := runCLI(t, "recommend", "--root", root, "--log-level", "error", "Titanik")
	if err != nil {
		t.Fatalf("plain recommend after --exact: %v", err)
	}
	if !strings.Contains(out, `closest match to "Titanik"`) {
		t.Errorf("expected fuzzy note, got %q", out)
	}
}

func TestRecommend_UnknownFormat(t *testing.T) {
	isolateEnv(t)
	_, err := runCLI(t, "recommend", "--root", t.TempDir(), "--format", "yaml", "Avatar")
	if err == nil || !strings.Contains(err.Error(), "unknown format") {
		t.Errorf("expected unknown format error, got %v", err)
	}
}

func TestImport_MalformedProjectConfig(t *testing.T) {
	isolateEnv(t)
	root := t.TempDir()
	dir := config.ProjectConfigDirPath(root)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte("[dataset\nname="), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := runCLI(t, "import", "--root", root, "--log-level", "error",
		"--movies", testMovies, "--matrix", testMatrix)
	if err == nil || !strings.Contains(err.Error(), "config: load project") {
		t.Fatalf("expected project config error, got %v", err)
	}
	if _, err := os.Stat(config.ProjectDBPath(root)); !os.IsNotExist(err) {
		t.Errorf("database should not be created, stat: %v", err)
	}
}

func TestConfigInit(t *testing.T) {
	isolateEnv(t)

	out, err := runCLI(t, "config", "init", "--log-level", "error")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	path := filepath.Join(os.Getenv("HOME"), ".config", "cinematch", "config.toml")
	if !strings.Contains(out, path) {
		t.Errorf("expected path in output, got %q", out)
	}
	cfg, err := config.LoadGlobal()
	if err != nil {
		t.Fatalf("LoadGlobal: %v", err)
	}
	if cfg.Recommend.TopK != 5 || !cfg.Recommend.FuzzyFallback {
		t.Errorf("unexpected recommend settings: %+v", cfg.Recommend)
	}

	if _, err := runCLI(t, "config", "init", "--log-level", "error"); err == nil {
		t.Error("second init without --force should fail")
	}
	if _, err := runCLI(t, "config", "init", "--log-level", "error", "--force"); err != nil {
		t.Errorf("init --force: %v", err)
	}

	out, err = runCLI(t, "config", "path")
	if err != nil {
		t.Fatalf("config path: %v", err)
	}
	if strings.TrimSpace(out) != path {
		t.Errorf("config path: got %q, want %q", out, path)
	}
}

func TestTitles_Sorted(t *testing.T) {
	isolateEnv(t)
	root := importTestdata(t)

	out, err := runCLI(t, "titles", "--root", root, "--log-level", "error", "--limit", "0")
	if err != nil {
		t.Fatalf("titles: %v", err)
	}
	got := strings.Split(strings.TrimSpace(out), "\n")
	want := []string{"Avatar", "Inception", "Interstellar", "The Dark Knight", "Titanic"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestSearch(t *testing.T) {
	isolateEnv(t)
	root := importTestdata(t)

	out, err := runCLI(t, "search", "--root", root, "--log-level", "error", "--limit", "1", "interstelar")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if !strings.Contains(out, "Interstellar") || strings.Count(out, "\n") != 1 {
		t.Errorf("unexpected search output: %q", out)
	}
}

func TestStatus(t *testing.T) {
	isolateEnv(t)
	root := importTestdata(t)

	out, err := runCLI(t, "status", "--root", root, "--log-level", "error")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	for _, want := range []string{"Dataset:  movies", "Movies:   5", "TMDB:     offline"} {
		if !strings.Contains(out, want) {
			t.Errorf("status missing %q:\n%s", want, out)
		}
	}
}

func TestStatus_NoDataset(t *testing.T) {
	isolateEnv(t)
	_, err := runCLI(t, "status", "--root", t.TempDir(), "--log-level", "error")
	if !errors.Is(err, catalog.ErrDatasetUnavailable) {
		t.Errorf("expected ErrDatasetUnavailable, got %v", err)
	}
}

func TestFindRootFrom(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, config.DirName), 0o755); err != nil {
		t.Fatal(err)
	}
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	got, err := findRootFrom(nested)
	if err != nil {
		t.Fatalf("findRootFrom: %v", err)
	}
	if got != root {
		t.Errorf("got %q, want %q", got, root)
	}
}

func TestFindRootFrom_Missing(t *testing.T) {
	if _, err := findRootFrom(t.TempDir()); !errors.Is(err, catalog.ErrDatasetUnavailable) {
		t.Errorf("expected ErrDatasetUnavailable, got %v", err)
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{5 * 1024 * 1024, "5.0 MB"},
	}
	for _, tt := range tests {
		if got := formatBytes(tt.in); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
