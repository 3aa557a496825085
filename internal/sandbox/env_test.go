package sandbox

import (
	"strings"
	"testing"
)

func toMap(env []string) map[string]string {
	m := make(map[string]string, len(env))
	for _, kv := range env {
		k, v, _ := strings.Cut(kv, "=")
		m[k] = v
	}
	return m
}

func TestBuildEnvForcesPrescribedValues(t *testing.T) {
	ambient := []string{
		"PAGER=less",
		"DISPLAY=:0",
		"EDITOR=vim",
		"TERM=xterm-256color",
		"HOME=/home/tester",
	}
	got := toMap(BuildEnv(ambient))

	want := map[string]string{
		"PAGER":   "cat",
		"DISPLAY": "",
		"EDITOR":  noop,
		"TERM":    "dumb",
		"COLUMNS": "80",
		"LINES":   "24",
		"NO_COLOR": "1",
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("env[%s] = %q, want %q", k, got[k], v)
		}
	}
	if got["HOME"] != "/home/tester" {
		t.Errorf("unrelated ambient var HOME was not preserved: %q", got["HOME"])
	}
}

func TestBuildEnvSetsPrescribedValuesEvenWhenAbsent(t *testing.T) {
	got := toMap(BuildEnv(nil))
	for _, p := range pairs {
		if v, ok := got[p.key]; !ok || v != p.value {
			t.Errorf("env[%s] = %q (present=%v), want %q", p.key, v, ok, p.value)
		}
	}
}

func TestBuildEnvIncludesSentinel(t *testing.T) {
	got := toMap(BuildEnv(nil))
	if got["CLIMB_DISCOVERY"] != "1" {
		t.Errorf("sentinel CLIMB_DISCOVERY = %q, want 1", got["CLIMB_DISCOVERY"])
	}
}

func TestBuildEnvDeterministic(t *testing.T) {
	ambient := []string{"FOO=bar", "PAGER=less"}
	a := BuildEnv(ambient)
	b := BuildEnv(ambient)
	if len(a) != len(b) {
		t.Fatalf("length mismatch: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("entry %d differs: %q vs %q", i, a[i], b[i])
		}
	}
}
