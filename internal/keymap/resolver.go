package keymap

import "github.com/samber/lo"

// Resolver maps key strings to actions and back.
type Resolver struct {
	actions map[string]Action
	keys    map[Action][]string
}

// NewResolver indexes bindings. A key bound twice resolves to its last binding.
func NewResolver(bindings []Binding) *Resolver {
	r := &Resolver{
		actions: make(map[string]Action, len(bindings)*2),
		keys:    make(map[Action][]string, len(bindings)),
	}
	for _, b := range bindings {
		for _, k := range b.Keys {
			r.actions[k] = b.Action
		}
		r.keys[b.Action] = lo.Uniq(append(r.keys[b.Action], b.Keys...))
	}
	return r
}

// Default returns a resolver over All.
func Default() *Resolver {
	return NewResolver(All)
}

// Resolve reports the action bound to key.
func (r *Resolver) Resolve(key string) (Action, bool) {
	a, ok := r.actions[key]
	return a, ok
}

// KeysFor lists the keys bound to action, in binding order.
func (r *Resolver) KeysFor(action Action) []string {
	return r.keys[action]
}
