package hierarchy

import "encoding/json"

// A Tree maps tree positions to their point counts, as read from one node
// count document. A negative count is the sentinel for positions whose
// data continues in an externally linked subtree rather than the current
// output unit.
type Tree map[Key]int64

// ParseTree decodes a node count document, a JSON object keyed by position
// key tokens.
func ParseTree(data []byte) (Tree, error) {
	var doc map[string]int64
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	t := make(Tree, len(doc))
	for token, count := range doc {
		k, err := ParseKey(token)
		if err != nil {
			return nil, err
		}
		t[k] = count
	}
	return t, nil
}

// EncodeTree renders the document form of t.
func EncodeTree(t Tree) ([]byte, error) {
	doc := make(map[string]int64, len(t))
	for k, count := range t {
		doc[k.String()] = count
	}
	return json.Marshal(doc)
}

// Count returns the point count recorded for a position. Probing a
// position with no entry is a normal branch of traversal, not a fault, so
// absence is reported through ok rather than an error.
func (t Tree) Count(k Key) (int64, bool) {
	count, ok := t[k]
	return count, ok
}

// IsSubtreeRoot reports whether the position's data continues in an
// external subtree.
func (t Tree) IsSubtreeRoot(k Key) bool {
	count, ok := t[k]
	return ok && count < 0
}

// Walk traverses t from root, calling visit for every internal position.
// Positions flagged as subtree roots are collected and returned without
// being descended; the caller starts a new walk per subtree against that
// subtree's own document. Positions absent from t end their branch
// silently.
func Walk(dimensions uint64, root Key, t Tree, visit func(Key, int64) error) ([]Key, error) {
	var subtrees []Key

	var walk func(k Key) error
	walk = func(k Key) error {
		count, ok := t.Count(k)
		if !ok {
			return nil
		}
		if count < 0 && k != root {
			subtrees = append(subtrees, k)
			return nil
		}
		if err := visit(k, count); err != nil {
			return err
		}
		factor := uint64(1) << dimensions
		for dir := uint64(0); dir < factor; dir++ {
			if err := walk(k.Step(dimensions, dir)); err != nil {
				return err
			}
		}
		return nil
	}

	if err := walk(root); err != nil {
		return nil, err
	}
	return subtrees, nil
}
