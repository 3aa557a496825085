// Package sandbox builds the restricted environment handed to every child
// process the engine spawns. It neutralizes the classes of hostile behaviour
// that would otherwise make universal CLI introspection dangerous: pagers,
// GUI launches, editor/browser/sudo prompts, and non-deterministic terminal
// state.
package sandbox

import "strings"

// Sentinel is set on every sandboxed child so it can detect the context.
const Sentinel = "CLIMB_DISCOVERY=1"

// noop is a program guaranteed to exist and exit 0 without side effects.
const noop = "true"

// pairs are the env vars this package forces, in a fixed order so BuildEnv
// is deterministic regardless of map iteration.
var pairs = []struct {
	key, value string
}{
	// Interactive pagers.
	{"PAGER", "cat"},
	{"MANPAGER", "cat"},
	{"GIT_PAGER", "cat"},
	{"SYSTEMD_PAGER", "cat"},
	{"AWS_PAGER", ""},
	{"LESS", "-FRX"},

	// GUI launches.
	{"DISPLAY", ""},
	{"WAYLAND_DISPLAY", ""},
	{"DBUS_SESSION_BUS_ADDRESS", ""},
	{"XDG_RUNTIME_DIR", ""},
	{"XDG_CURRENT_DESKTOP", ""},
	{"QT_QPA_PLATFORM", "offscreen"},
	{"SDL_AUDIODRIVER", "dummy"},
	{"NO_AT_BRIDGE", "1"},

	// Editor/browser/sudo prompts.
	{"VISUAL", noop},
	{"EDITOR", noop},
	{"GIT_EDITOR", noop},
	{"BROWSER", noop},
	{"SUDO_ASKPASS", "false"},

	// Determinism.
	{"TERM", "dumb"},
	{"COLUMNS", "80"},
	{"LINES", "24"},
	{"NO_COLOR", "1"},
	{"CI", "1"},
	{"ANSIBLE_NOCOLOR", "1"},
}

// forced is the set of keys BuildEnv always overrides, used to strip any
// ambient value before re-applying the sandboxed one.
var forced = func() map[string]bool {
	m := make(map[string]bool, len(pairs)+1)
	for _, p := range pairs {
		m[p.key] = true
	}
	m["CLIMB_DISCOVERY"] = true
	return m
}()

// BuildEnv takes the ambient process environment (as returned by os.Environ)
// and produces the environment to hand to every child spawned by the runner.
// Every variable in the forced set is set to its prescribed value regardless
// of whether it existed in ambient; everything else passes through unchanged.
func BuildEnv(ambient []string) []string {
	out := make([]string, 0, len(ambient)+len(pairs)+1)
	for _, kv := range ambient {
		key, _, ok := strings.Cut(kv, "=")
		if !ok || forced[key] {
			continue
		}
		out = append(out, kv)
	}
	for _, p := range pairs {
		out = append(out, p.key+"="+p.value)
	}
	out = append(out, Sentinel)
	return out
}
