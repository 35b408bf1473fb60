package simhost

import "sync"

type (
	entries struct {
		mu    sync.RWMutex
		byKey map[string]*Item
	}
	// Registry maps keys to items both ways.
	Registry struct {
		entries
	}
	// LegacyRegistry only maps keys to items.
	LegacyRegistry struct {
		entries
	}
)

func (e *entries) add(item *Item) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.byKey == nil {
		e.byKey = make(map[string]*Item)
	}
	e.byKey[item.Key.String()] = item
}

func (e *entries) get(k *MinecraftKey) *Item {
	if k == nil {
		return nil
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.byKey[k.String()]
}

func (r *Registry) Get(k *MinecraftKey) *Item { return r.get(k) }

// GetKey returns the key of a registered item.
func (r *Registry) GetKey(v any) *MinecraftKey {
	item, ok := v.(*Item)
	if !ok || item == nil {
		return nil
	}
	if r.get(item.Key) != item {
		return nil
	}
	return item.Key
}

func (r *LegacyRegistry) Get(k *MinecraftKey) *Item { return r.get(k) }
