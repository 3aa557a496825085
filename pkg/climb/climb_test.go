package climb

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestParseHelp_NeverFails(t *testing.T) {
	ph := ParseHelp("")
	if len(ph.Telemetry.Warnings) == 0 {
		t.Error("expected a telemetry warning for empty help text")
	}
}

func TestParseRecords_FallsBackToSingleRecord(t *testing.T) {
	recs := ParseRecords("just some plain text\n")
	if len(recs.Rows) != 1 {
		t.Fatalf("len(Rows) = %d, want 1", len(recs.Rows))
	}
	if recs.Rows[0]["Output"] == "" {
		t.Error("expected fallback record to carry the raw text")
	}
}

func TestRun_ReturnsResultWithoutError(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires /bin/sh")
	}
	if _, err := os.Stat("/bin/echo"); err != nil {
		t.Skip("requires /bin/echo")
	}
	res, err := Run(context.Background(), "/bin/echo", []string{"hello"}, RunOptions{TimeoutMs: 2000})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.ExitCode == nil || *res.ExitCode != 0 {
		t.Errorf("ExitCode = %v, want 0", res.ExitCode)
	}
}

func TestDiscover_RespectsForceRefresh(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires /bin/sh")
	}
	binDir := t.TempDir()
	script := "#!/bin/sh\ncat <<'EOF'\nUSAGE\n  tool [opts]\nOPTIONS\n  --help  show help and some extra filler words to clear the threshold\nEOF\n"
	path := filepath.Join(binDir, "clitool")
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}

	results, err := Discover(context.Background(), DiscoverOptions{
		PathEnv:      binDir,
		ForceRefresh: true,
	})
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	found := false
	for _, r := range results {
		if r.Name == "clitool" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected clitool in results, got %+v", results)
	}
}

func TestEngine_IntrospectAndResolveArgv(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires /bin/sh")
	}
	binDir := t.TempDir()
	script := "#!/bin/sh\ncat <<'EOF'\nCommands:\n  clone      Clone a repository\n  push       Update remote\nEOF\n"
	path := filepath.Join(binDir, "gitlike")
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}

	oldPath := os.Getenv("PATH")
	defer os.Setenv("PATH", oldPath)
	os.Setenv("PATH", binDir+string(os.PathListSeparator)+oldPath)

	e := New(EngineOptions{})
	root, err := e.Introspect(context.Background(), "gitlike")
	if err != nil {
		t.Fatalf("Introspect() error = %v", err)
	}
	if len(root.Children) != 2 {
		t.Fatalf("len(Children) = %d, want 2", len(root.Children))
	}

	argv := e.ResolveArgv("gitlike", []string{"clone"}, nil, []string{"repo-url"})
	want := []string{"gitlike", "clone", "repo-url"}
	if len(argv) != len(want) {
		t.Fatalf("ResolveArgv() = %v, want %v", argv, want)
	}
	for i := range want {
		if argv[i] != want[i] {
			t.Errorf("argv[%d] = %q, want %q", i, argv[i], want[i])
		}
	}
}
