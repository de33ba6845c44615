package frontmatter

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Metadata is an insertion-ordered set of scalar key/value pairs. A nil
// *Metadata behaves as empty.
type Metadata struct {
	pairs *orderedmap.OrderedMap[string, any]
}

// NewMetadata returns empty metadata.
func NewMetadata() *Metadata {
	return &Metadata{pairs: orderedmap.New[string, any]()}
}

// Set adds or replaces key. Replacing keeps the original position.
func (m *Metadata) Set(key string, value any) {
	if m.pairs == nil {
		m.pairs = orderedmap.New[string, any]()
	}
	m.pairs.Set(key, value)
}

func (m *Metadata) Get(key string) (any, bool) {
	if m == nil || m.pairs == nil {
		return nil, false
	}
	return m.pairs.Get(key)
}

// String returns the value for key when it is a string.
func (m *Metadata) String(key string) string {
	v, ok := m.Get(key)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

func (m *Metadata) Len() int {
	if m == nil || m.pairs == nil {
		return 0
	}
	return m.pairs.Len()
}

// Keys returns the keys in insertion order.
func (m *Metadata) Keys() []string {
	keys := make([]string, 0, m.Len())
	m.Each(func(key string, _ any) {
		keys = append(keys, key)
	})
	return keys
}

// Each calls fn for every pair in insertion order.
func (m *Metadata) Each(fn func(key string, value any)) {
	if m == nil || m.pairs == nil {
		return
	}
	for pair := m.pairs.Oldest(); pair != nil; pair = pair.Next() {
		fn(pair.Key, pair.Value)
	}
}
