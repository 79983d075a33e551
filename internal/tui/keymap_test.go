package tui

import (
	"testing"

	"charm.land/bubbles/v2/key"
)

// TestParseBindingKeys verifies key parsing behavior for configured overrides.
func TestParseBindingKeys(t *testing.T) {
	t.Run("space aliases", func(t *testing.T) {
		keys, help := parseBindingKeys("space", ".")
		if len(keys) != 2 || keys[0] != " " || keys[1] != "space" {
			t.Fatalf("unexpected parsed space keys %#v", keys)
		}
		if help != "space" {
			t.Fatalf("unexpected space help text %q", help)
		}
	})

	t.Run("uppercase rune includes shift alias", func(t *testing.T) {
		keys, help := parseBindingKeys("Z", "z")
		if len(keys) != 2 || keys[0] != "Z" || keys[1] != "shift+z" {
			t.Fatalf("unexpected uppercase parsed keys %#v", keys)
		}
		if help != "Z" {
			t.Fatalf("unexpected uppercase help text %q", help)
		}
	})

	t.Run("multi rune lowercases key matcher", func(t *testing.T) {
		keys, help := parseBindingKeys("Ctrl+R", "r")
		if len(keys) != 1 || keys[0] != "ctrl+r" {
			t.Fatalf("unexpected multi-rune parsed keys %#v", keys)
		}
		if help != "Ctrl+R" {
			t.Fatalf("unexpected multi-rune help text %q", help)
		}
	})

	t.Run("blank uses fallback", func(t *testing.T) {
		keys, help := parseBindingKeys("", "x")
		if len(keys) != 1 || keys[0] != "x" {
			t.Fatalf("unexpected fallback parsed keys %#v", keys)
		}
		if help != "x" {
			t.Fatalf("unexpected fallback help text %q", help)
		}
	})
}

// TestConfigureBinding verifies binding override application behavior.
func TestConfigureBinding(t *testing.T) {
	b := key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "old"))
	configureBinding(&b, "v", "a", "activity log")
	keys := b.Keys()
	if len(keys) != 1 || keys[0] != "v" {
		t.Fatalf("unexpected configured keys %#v", keys)
	}
	if b.Help().Key != "v" || b.Help().Desc != "activity log" {
		t.Fatalf("unexpected configured help %#v", b.Help())
	}
}

// TestKeyMapApplyConfig verifies dynamic key map override behavior.
func TestKeyMapApplyConfig(t *testing.T) {
	k := newKeyMap()
	k.applyConfig(KeyConfig{
		AddTask:     "+",
		DeleteTask:  "x",
		ActivityLog: "v",
		Theme:       "M",
	})

	assertKeys := func(name string, binding key.Binding, expected ...string) {
		t.Helper()
		got := binding.Keys()
		if len(got) != len(expected) {
			t.Fatalf("%s key count mismatch got=%#v expected=%#v", name, got, expected)
		}
		for i := range expected {
			if got[i] != expected[i] {
				t.Fatalf("%s key mismatch got=%#v expected=%#v", name, got, expected)
			}
		}
	}

	assertKeys("add task", k.addTask, "+")
	assertKeys("delete task", k.deleteTask, "x")
	assertKeys("activity log", k.activityLog, "v")
	assertKeys("theme", k.theme, "M", "shift+m")
	assertKeys("copy text", k.copyText, "y")
	assertKeys("language", k.language, "L", "shift+l")
}

// TestKeyMapDefaultsIncludeShiftAliases verifies uppercase defaults also match shifted keys.
func TestKeyMapDefaultsIncludeShiftAliases(t *testing.T) {
	k := newKeyMap()
	if got := k.statusFilter.Keys(); len(got) != 1 || got[0] != "f" {
		t.Fatalf("unexpected status filter keys %#v", got)
	}
	gotClear := k.clearFilter.Keys()
	if len(gotClear) != 2 || gotClear[0] != "F" || gotClear[1] != "shift+f" {
		t.Fatalf("unexpected clear filter keys %#v", gotClear)
	}
}

// TestKeyMapHelpGroups verifies every binding is reachable from the full help.
func TestKeyMapHelpGroups(t *testing.T) {
	k := newKeyMap()
	total := 0
	for _, group := range k.FullHelp() {
		total += len(group)
	}
	if total != 22 {
		t.Fatalf("expected 22 bindings in full help, got %d", total)
	}
	if len(k.ShortHelp()) == 0 {
		t.Fatal("expected short help bindings")
	}
}
