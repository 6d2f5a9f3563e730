package jobsettings

// RecursiveMerge deep-merges src into dst.
//
// Nested maps are merged key by key, so sibling keys already in dst are kept.
// Any other value in src replaces the value in dst, and a nested map in src
// replaces a non-map value in dst.
func RecursiveMerge(dst, src *InsensitiveMap) {
	for _, key := range src.Keys() {
		value, _ := src.Get(key)

		nested, ok := value.(*InsensitiveMap)
		if !ok {
			dst.Set(key, value)
			continue
		}

		existing := dst.SetDefault(key, NewInsensitiveMap())
		if target, ok := existing.(*InsensitiveMap); ok {
			RecursiveMerge(target, nested)
		} else {
			dst.Set(key, nested.Clone())
		}
	}
}
