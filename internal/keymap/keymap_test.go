package keymap

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAll_EveryBindingIsComplete(t *testing.T) {
	for _, b := range All {
		assert.NotEmpty(t, b.Action, "binding %q has no action", b.Description)
		assert.NotEmpty(t, b.Keys, "binding %q has no keys", b.Action)
		assert.NotEmpty(t, b.Description, "binding %q has no description", b.Action)
		assert.True(t, slices.Contains(Contexts, b.Context),
			"binding %q has unknown context %q", b.Action, b.Context)
	}
}

func TestAll_NoKeyBoundTwice(t *testing.T) {
	seen := make(map[string]Action)
	for _, b := range All {
		for _, k := range b.Keys {
			if prev, ok := seen[k]; ok {
				t.Errorf("key %q bound to both %q and %q", k, prev, b.Action)
			}
			seen[k] = b.Action
		}
	}
}

func TestByContext(t *testing.T) {
	total := 0
	for _, ctx := range Contexts {
		got := ByContext(ctx)
		assert.NotEmpty(t, got, "context %q", ctx)
		for _, b := range got {
			assert.Equal(t, ctx, b.Context)
		}
		total += len(got)
	}
	assert.Equal(t, len(All), total)
	assert.Empty(t, ByContext("nonexistent"))
}
