package dataset

// Attrs is an ordered string-keyed attribute mapping. Iteration order is
// insertion order, so derived rows keep the column order of their source.
type Attrs struct {
	keys []string
	vals map[string]any
}

// NewAttrs returns an empty attribute mapping.
func NewAttrs() *Attrs {
	return &Attrs{vals: make(map[string]any)}
}

// Set stores a value under key, appending the key on first insertion.
func (a *Attrs) Set(key string, value any) {
	if _, ok := a.vals[key]; !ok {
		a.keys = append(a.keys, key)
	}
	a.vals[key] = value
}

// Get returns the value stored under key.
func (a *Attrs) Get(key string) (any, bool) {
	v, ok := a.vals[key]
	return v, ok
}

// Has reports whether key is present.
func (a *Attrs) Has(key string) bool {
	_, ok := a.vals[key]
	return ok
}

// Keys returns the keys in insertion order.
func (a *Attrs) Keys() []string {
	out := make([]string, len(a.keys))
	copy(out, a.keys)
	return out
}

// Len returns the number of stored attributes.
func (a *Attrs) Len() int {
	return len(a.keys)
}

// Clone returns an independent copy preserving key order.
func (a *Attrs) Clone() *Attrs {
	out := NewAttrs()
	for _, k := range a.keys {
		out.Set(k, a.vals[k])
	}
	return out
}

// Merge copies the other mapping's entries into a in the other's key
// order. The rename map is applied before merging: an entry under an old
// key is stored under its renamed key. Existing values are overwritten.
func (a *Attrs) Merge(other *Attrs, rename map[string]string) {
	if other == nil {
		return
	}
	for _, k := range other.keys {
		name := k
		if renamed, ok := rename[k]; ok {
			name = renamed
		}
		a.Set(name, other.vals[k])
	}
}
