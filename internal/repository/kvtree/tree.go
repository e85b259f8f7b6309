package kvtree

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Entry is one stored document of a flat backend
type Entry struct {
	Path  string
	Value []byte
}

// Assemble rebuilds the JSON value at base from the stored entries at or below
// it. A document stored exactly at base is the starting point; descendants are
// laid over it at their relative positions. found is false when no entry
// lies within base.
func Assemble(base string, entries []Entry) ([]byte, bool, error) {
	var exact []byte
	var children []Entry
	for _, e := range entries {
		switch {
		case e.Path == base:
			exact = e.Value
		case IsAncestor(base, e.Path):
			children = append(children, e)
		}
	}

	if len(children) == 0 {
		if exact == nil {
			return nil, false, nil
		}
		return exact, true, nil
	}

	root := map[string]any{}
	if exact != nil {
		var decoded any
		if err := json.Unmarshal(exact, &decoded); err != nil {
			return nil, false, fmt.Errorf("decode %s: %w", base, err)
		}
		if obj, ok := decoded.(map[string]any); ok {
			root = obj
		}
	}

	// shallower entries first so deeper ones overlay them
	sort.SliceStable(children, func(i, j int) bool {
		return strings.Count(children[i].Path, "/") < strings.Count(children[j].Path, "/")
	})

	for _, e := range children {
		var decoded any
		if err := json.Unmarshal(e.Value, &decoded); err != nil {
			return nil, false, fmt.Errorf("decode %s: %w", e.Path, err)
		}
		rel := strings.Split(strings.TrimPrefix(e.Path, base+"/"), "/")
		node := root
		for _, seg := range rel[:len(rel)-1] {
			next, ok := node[seg].(map[string]any)
			if !ok {
				next = map[string]any{}
				node[seg] = next
			}
			node = next
		}
		node[rel[len(rel)-1]] = decoded
	}

	out, err := json.Marshal(root)
	if err != nil {
		return nil, false, err
	}
	return out, true, nil
}
