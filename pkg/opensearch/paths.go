package opensearch

import "strings"

// splitPath turns "index.blocks.read_only" into its segments.
func splitPath(path string) []string {
	return strings.Split(path, ".")
}

// asObject accepts both plain maps and IndexConfiguration blocks.
func asObject(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case IndexConfiguration:
		return m, true
	}
	return nil, false
}

func valueByPath(m map[string]any, path []string) (any, bool) {
	if len(path) == 0 {
		return nil, false
	}
	var current any = m
	for _, key := range path {
		node, ok := asObject(current)
		if !ok {
			return nil, false
		}
		current, ok = node[key]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// setValueByPath creates intermediate objects as needed and overwrites
// non-object values found on the way.
func setValueByPath(m map[string]any, path []string, value any) map[string]any {
	if m == nil {
		m = map[string]any{}
	}
	if len(path) == 0 {
		return m
	}
	node := m
	for _, key := range path[:len(path)-1] {
		next, ok := asObject(node[key])
		if !ok {
			next = map[string]any{}
			node[key] = next
		}
		node = next
	}
	node[path[len(path)-1]] = value
	return m
}

// mergeRecursive merges override into a copy of base. Nested objects are merged,
// any other value in override replaces the one in base.
func mergeRecursive(base, override map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(override))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range override {
		if ov, ok := asObject(v); ok {
			if bv, ok := asObject(out[k]); ok {
				out[k] = mergeRecursive(bv, ov)
				continue
			}
		}
		out[k] = v
	}
	return out
}
