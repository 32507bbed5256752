package report

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/prdoc/prdoc/internal/config"
	"github.com/prdoc/prdoc/internal/gitrepo"
)

func testLogger() *log.Logger {
	return log.New(io.Discard)
}

// scenarioGit builds a fake repository with one change of each interesting
// shape: a new python file, a modified file, a deletion, a pure rename, a
// binary image, a lockfile, and a deny-listed path.
func scenarioGit() *gitrepo.Git {
	pyContent := strings.Join([]string{
		"import sys", "", "def main():", "    print('one')", "    print('two')",
		"    print('three')", "    print('four')", "", "if __name__ == '__main__':", "    main()",
	}, "\n") + "\n"

	modDiff := "diff --git a/app/server.go b/app/server.go\n" +
		"--- a/app/server.go\n" +
		"+++ b/app/server.go\n" +
		"@@ -1,4 +1,4 @@\n" +
		" package app\n" +
		"-const port = 80\n" +
		"+const port = 8080\n" +
		" // serve\n"

	renameDiff := "diff --git a/docs/a.txt b/docs/b.txt\n" +
		"similarity index 100%\n" +
		"rename from docs/a.txt\n" +
		"rename to docs/b.txt\n"

	return fakeGit(map[string]string{
		"rev-parse --verify HEAD^{commit}": "curid\n",
		"rev-parse --verify main^{commit}": "mainid\n",
		"rev-parse --abbrev-ref HEAD":      "feature/demo\n",
		"merge-base main curid":            "baseid\n",
		"rev-parse --short baseid":         "baseid12\n",
		"rev-parse --short curid":          "curid345\n",

		"diff --name-status baseid curid": "A\tfoo.py\n" +
			"M\tapp/server.go\n" +
			"D\told/legacy.txt\n" +
			"R100\tdocs/a.txt\tdocs/b.txt\n" +
			"A\tassets/logo.png\n" +
			"A\tweb/package-lock.json\n" +
			"M\tweb/node_modules/left-pad/index.js\n",

		"diff --numstat baseid curid -- foo.py":                  "10\t0\tfoo.py\n",
		"show curid:foo.py":                                      pyContent,
		"diff --numstat baseid curid -- app/server.go":           "1\t1\tapp/server.go\n",
		"show curid:app/server.go":                               "package app\nconst port = 8080\n// serve\n",
		"diff --unified=3 baseid curid -- app/server.go":         modDiff,
		"diff --unified=3 baseid curid -- docs/a.txt docs/b.txt": renameDiff,

		"diff --shortstat baseid curid": " 6 files changed, 14 insertions(+), 3 deletions(-)\n",
	})
}

func scenarioConfig() config.Config {
	cfg := config.Default()
	cfg.ExcludePatterns = []string{"node_modules"}
	cfg.Workers = 2
	return cfg
}

func runScenario(t *testing.T) *Report {
	t.Helper()
	e := New(scenarioGit(), scenarioConfig(), testLogger())
	r, err := e.Run(context.Background(), gitrepo.ResolveOptions{Base: "main"})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	return r
}

func TestEngine_ResolvesMetadata(t *testing.T) {
	r := runScenario(t)
	if r.BaseRef != "main" || r.BaseShort != "baseid12" {
		t.Errorf("base = %q (%q), want main (baseid12)", r.BaseRef, r.BaseShort)
	}
	if r.Branch != "feature/demo" || r.CurrentShort != "curid345" {
		t.Errorf("current = %q (%q)", r.Branch, r.CurrentShort)
	}
	if r.GeneratedAt.IsZero() {
		t.Error("GeneratedAt not set")
	}
}

func TestEngine_CountsMatchFilteredSubsets(t *testing.T) {
	r := runScenario(t)
	// node_modules is deny-listed, so the second Modified entry drops out
	// before counting.
	want := Counts{Added: 3, Modified: 1, Deleted: 1, Renamed: 1}
	if r.Counts != want {
		t.Errorf("Counts = %+v, want %+v", r.Counts, want)
	}
	if got := len(r.ByKind(gitrepo.Added)); got != r.Counts.Added {
		t.Errorf("ByKind(Added) = %d entries, counts say %d", got, r.Counts.Added)
	}
}

func TestEngine_ExcludedPathsAbsent(t *testing.T) {
	r := runScenario(t)
	for _, d := range r.Files {
		if strings.Contains(d.Change.Path, "node_modules") {
			t.Errorf("deny-listed path %q present in report", d.Change.Path)
		}
	}
}

func TestEngine_FilesSortedByPath(t *testing.T) {
	r := runScenario(t)
	for i := 1; i < len(r.Files); i++ {
		if r.Files[i-1].Change.Path > r.Files[i].Change.Path {
			t.Fatalf("Files not sorted: %q before %q",
				r.Files[i-1].Change.Path, r.Files[i].Change.Path)
		}
	}
}

func TestEngine_NewFileFullContent(t *testing.T) {
	r := runScenario(t)
	var foo *FileDetail
	for i := range r.Files {
		if r.Files[i].Change.Path == "foo.py" {
			foo = &r.Files[i]
		}
	}
	if foo == nil {
		t.Fatal("foo.py missing from report")
	}
	if foo.Reason != ReasonRenderable {
		t.Fatalf("foo.py reason = %v, want renderable", foo.Reason)
	}
	if len(foo.Blocks) != 1 || foo.Blocks[0].Kind != BlockCode {
		t.Fatalf("foo.py blocks = %+v, want one code block", foo.Blocks)
	}
	b := foo.Blocks[0]
	if b.Lang != "python" {
		t.Errorf("lang = %q, want python", b.Lang)
	}
	if strings.Contains(b.Text, "+import sys") || strings.HasPrefix(b.Text, "@@") {
		t.Error("new-file content must not carry diff markers")
	}
	if !strings.Contains(b.Text, "def main():") {
		t.Error("full content missing")
	}
}

func TestEngine_ModifiedFileCompactedDiff(t *testing.T) {
	r := runScenario(t)
	mods := r.ByKind(gitrepo.Modified)
	if len(mods) != 1 {
		t.Fatalf("got %d modified entries, want 1", len(mods))
	}
	b := mods[0].Blocks[0]
	if b.Kind != BlockCode || b.Lang != "diff" {
		t.Fatalf("modified block = %+v, want diff code block", b)
	}
	if !strings.Contains(b.Text, "+const port = 8080") || !strings.Contains(b.Text, "-const port = 80") {
		t.Error("diff body missing changed lines")
	}
}

func TestEngine_LockfileGeneratedPlaceholder(t *testing.T) {
	r := runScenario(t)
	var lock *FileDetail
	for i := range r.Files {
		if strings.HasSuffix(r.Files[i].Change.Path, "package-lock.json") {
			lock = &r.Files[i]
		}
	}
	if lock == nil {
		t.Fatal("package-lock.json missing from report")
	}
	if lock.Reason != ReasonGenerated {
		t.Errorf("reason = %v, want generated", lock.Reason)
	}
	if len(lock.Blocks) != 1 || lock.Blocks[0].Kind != BlockPlaceholder ||
		!strings.Contains(lock.Blocks[0].Text, "Auto-generated") {
		t.Errorf("blocks = %+v, want auto-generated placeholder", lock.Blocks)
	}
}

func TestEngine_PureRenameHasNoDiffBlock(t *testing.T) {
	r := runScenario(t)
	renames := r.ByKind(gitrepo.Renamed)
	if len(renames) != 1 {
		t.Fatalf("got %d renames, want 1", len(renames))
	}
	d := renames[0]
	if !d.RenamedOnly {
		t.Error("full-similarity rename must be flagged RenamedOnly")
	}
	if len(d.Blocks) != 0 {
		t.Errorf("rename-only entry must carry no blocks, got %+v", d.Blocks)
	}
	if d.Change.OldPath != "docs/a.txt" || d.Change.Path != "docs/b.txt" {
		t.Errorf("rename paths = %q -> %q", d.Change.OldPath, d.Change.Path)
	}
}

func TestEngine_BinaryTrailer(t *testing.T) {
	r := runScenario(t)
	if len(r.BinarySkipped) != 1 || r.BinarySkipped[0] != "assets/logo.png" {
		t.Errorf("BinarySkipped = %v, want [assets/logo.png]", r.BinarySkipped)
	}
}

func TestEngine_Stats(t *testing.T) {
	r := runScenario(t)
	want := gitrepo.DiffStats{FilesChanged: 6, Insertions: 14, Deletions: 3}
	if r.Stats != want {
		t.Errorf("Stats = %+v, want %+v", r.Stats, want)
	}
}

func TestEngine_DeletedFilePlaceholder(t *testing.T) {
	r := runScenario(t)
	dels := r.ByKind(gitrepo.Deleted)
	if len(dels) != 1 {
		t.Fatalf("got %d deletions, want 1", len(dels))
	}
	if len(dels[0].Blocks) != 1 || dels[0].Blocks[0].Kind != BlockPlaceholder {
		t.Errorf("deleted entry blocks = %+v, want one placeholder", dels[0].Blocks)
	}
}

func TestEngine_InvalidBaseAborts(t *testing.T) {
	git := fakeGit(map[string]string{
		"rev-parse --verify HEAD^{commit}": "curid\n",
		"rev-parse --abbrev-ref HEAD":      "feature\n",
	})
	e := New(git, config.Default(), testLogger())
	_, err := e.Run(context.Background(), gitrepo.ResolveOptions{BaseCommit: "ghost"})
	if !errors.Is(err, gitrepo.ErrInvalidRef) {
		t.Errorf("error = %v, want ErrInvalidRef", err)
	}
}

func TestEngine_FetchFailureDegradesToPlaceholder(t *testing.T) {
	// Content retrieval fails for the one changed file; the run must still
	// complete with a placeholder rather than aborting.
	git := fakeGit(map[string]string{
		"rev-parse --verify HEAD^{commit}":        "curid\n",
		"rev-parse --verify base^{commit}":        "baseid\n",
		"rev-parse --abbrev-ref HEAD":             "feature\n",
		"rev-parse --short baseid":                "baseid12\n",
		"rev-parse --short curid":                 "curid345\n",
		"diff --name-status baseid curid":         "A\tghost.py\n",
		"diff --numstat baseid curid -- ghost.py": "1\t0\tghost.py\n",
		"diff --shortstat baseid curid":           " 1 file changed, 1 insertion(+)\n",
	})
	e := New(git, config.Default(), testLogger())
	r, err := e.Run(context.Background(), gitrepo.ResolveOptions{BaseCommit: "base"})
	if err != nil {
		t.Fatalf("per-file fetch failure must not abort the run: %v", err)
	}
	if len(r.Files) != 1 {
		t.Fatalf("got %d files, want 1", len(r.Files))
	}
	b := r.Files[0].Blocks
	if len(b) != 1 || b[0].Kind != BlockPlaceholder || !strings.Contains(b[0].Text, "Could not read") {
		t.Errorf("blocks = %+v, want content-unavailable placeholder", b)
	}
}

func TestEngine_StatsParseFailureDegradesToZeros(t *testing.T) {
	git := fakeGit(map[string]string{
		"rev-parse --verify HEAD^{commit}": "curid\n",
		"rev-parse --verify base^{commit}": "baseid\n",
		"rev-parse --abbrev-ref HEAD":      "feature\n",
		"rev-parse --short baseid":         "baseid12\n",
		"rev-parse --short curid":          "curid345\n",
		"diff --name-status baseid curid":  "",
		"diff --shortstat baseid curid":    "garbage output\n",
	})
	e := New(git, config.Default(), testLogger())
	r, err := e.Run(context.Background(), gitrepo.ResolveOptions{BaseCommit: "base"})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if r.Stats != (gitrepo.DiffStats{}) {
		t.Errorf("Stats = %+v, want zeros on parse failure", r.Stats)
	}
}
