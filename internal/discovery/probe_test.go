package discovery

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func writeProbeScript(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires /bin/sh")
	}
	if _, err := os.Stat("/bin/sh"); err != nil {
		t.Skip("requires /bin/sh")
	}
	dir := t.TempDir()
	path := filepath.Join(dir, "tool")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return path
}

func TestProbeStopsAtFirstSubstantiveFlag(t *testing.T) {
	// Only --help (the first flag tried) should ever be reached; the script
	// logs every flag it receives, so the log proves -h and -? were never
	// invoked.
	path := writeProbeScript(t, `
printf '%s\n' "$1" >> "$(dirname "$0")/calls"
case "$1" in
  --help) echo "this is a long enough help message to count as substantive"; exit 0 ;;
  *) exit 9 ;;
esac
`)
	res := probe(context.Background(), path)
	if !res.hasHelp {
		t.Fatal("expected probe to find help via the first flag")
	}
	calls, err := os.ReadFile(filepath.Join(filepath.Dir(path), "calls"))
	if err != nil {
		t.Fatalf("read call log: %v", err)
	}
	if string(calls) != "--help\n" {
		t.Errorf("flags tried = %q, want only --help", calls)
	}
}

func TestProbeFallsThroughFlagsInOrder(t *testing.T) {
	path := writeProbeScript(t, `
case "$1" in
  --help) exit 1 ;;
  -h) exit 1 ;;
  -\?) echo "finally some real output that is long enough to count"; exit 0 ;;
  *) exit 1 ;;
esac
`)
	res := probe(context.Background(), path)
	if !res.hasHelp {
		t.Error("expected probe to fall through to the last flag and find help")
	}
}

func TestProbeNoHelpWhenAllFlagsFail(t *testing.T) {
	path := writeProbeScript(t, "exit 1\n")
	res := probe(context.Background(), path)
	if res.hasHelp {
		t.Error("expected no help when every flag fails")
	}
}

func TestProbeTreatsShortOutputAsNoHelp(t *testing.T) {
	path := writeProbeScript(t, "echo hi\n")
	res := probe(context.Background(), path)
	if res.hasHelp {
		t.Error("expected short output to not count as substantive help")
	}
}
