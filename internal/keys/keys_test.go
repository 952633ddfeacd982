package keys

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func TestDefaultKeyMap_NoDuplicateListKeys(t *testing.T) {
	k := DefaultKeyMap()
	seen := map[string]string{}
	for _, group := range k.FullHelp() {
		for _, b := range group {
			if b.Help().Key == k.MarkRead.Help().Key {
				continue
			}
			for _, name := range b.Keys() {
				if prev, ok := seen[name]; ok {
					t.Errorf("key %q bound to both %q and %q", name, prev, b.Help().Desc)
				}
				seen[name] = b.Help().Desc
			}
		}
	}
}

func TestDefaultKeyMap_ToggleMatchesSpace(t *testing.T) {
	k := DefaultKeyMap()
	assert.True(t, key.Matches(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}}, k.Toggle))
	assert.True(t, key.Matches(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, k.Toggle))
}
