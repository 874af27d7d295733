// Package docnode provides a null-safe, read-only view over dynamic JSON
// trees decoded into map[string]any/[]any/string/float64/bool/nil (the shape
// encoding/json produces for arbitrary documents).
//
// Vendor payloads in this system are deeply nested and inconsistently
// populated: the same path may be absent, null, or a different type entirely
// depending on the host. Node lets normalizers walk those trees by path
// without a chain of type assertions and nil checks at every step.
package docnode

import "strconv"

// Node wraps an arbitrary decoded JSON value. The zero Node is a valid,
// absent node: every accessor on it returns the zero value / false / an
// absent Node, never panics.
type Node struct {
	v any
}

// Of wraps a raw decoded value (as produced by encoding/json.Unmarshal into
// `any`) in a Node.
func Of(v any) Node {
	return Node{v: v}
}

// Raw returns the underlying decoded value.
func (n Node) Raw() any {
	return n.v
}

// IsAbsent reports whether the node wraps nothing (nil interface) or JSON null.
func (n Node) IsAbsent() bool {
	return n.v == nil
}

// Get descends into an object field. Missing field, or n not being an
// object, both yield an absent Node.
func (n Node) Get(key string) Node {
	m, ok := n.v.(map[string]any)
	if !ok {
		return Node{}
	}
	val, ok := m[key]
	if !ok {
		return Node{}
	}
	return Node{v: val}
}

// Path descends through a sequence of object fields in order.
func (n Node) Path(keys ...string) Node {
	cur := n
	for _, k := range keys {
		cur = cur.Get(k)
	}
	return cur
}

// Index accesses an array element. Out-of-range or non-array yields absent.
func (n Node) Index(i int) Node {
	a, ok := n.v.([]any)
	if !ok || i < 0 || i >= len(a) {
		return Node{}
	}
	return Node{v: a[i]}
}

// List returns the node's array elements, or nil if the node is not an array.
func (n Node) List() []Node {
	a, ok := n.v.([]any)
	if !ok {
		return nil
	}
	out := make([]Node, len(a))
	for i, v := range a {
		out[i] = Node{v: v}
	}
	return out
}

// Keys returns the object's field names, or nil if the node is not an object.
func (n Node) Keys() []string {
	m, ok := n.v.(map[string]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

// String returns the node as a string and whether it actually was one.
func (n Node) String() (string, bool) {
	s, ok := n.v.(string)
	return s, ok
}

// StringOr returns the node's string value, or def if absent/not a string.
func (n Node) StringOr(def string) string {
	if s, ok := n.String(); ok {
		return s
	}
	return def
}

// StringPtr returns a pointer to the node's string value, or nil if
// absent/empty/not a string. Used for UnifiedHost's nullable scalar fields.
func (n Node) StringPtr() *string {
	s, ok := n.String()
	if !ok || s == "" {
		return nil
	}
	return &s
}

// Float returns the node as a float64 and whether it actually was numeric.
func (n Node) Float() (float64, bool) {
	switch v := n.v.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	}
	return 0, false
}

// IntPtr returns a pointer to the node's integer value, or nil if
// absent/not numeric. Also accepts numeric strings (vendor payloads are
// inconsistent about quoting ids).
func (n Node) IntPtr() *int {
	if f, ok := n.Float(); ok {
		i := int(f)
		return &i
	}
	if s, ok := n.String(); ok {
		if i, err := strconv.Atoi(s); err == nil {
			return &i
		}
	}
	return nil
}

// Bool returns the node as a bool and whether it actually was one.
func (n Node) Bool() (bool, bool) {
	b, ok := n.v.(bool)
	return b, ok
}

// BoolPtr returns a pointer to the node's bool value, or nil if absent/not a bool.
func (n Node) BoolPtr() *bool {
	b, ok := n.Bool()
	if !ok {
		return nil
	}
	return &b
}

// IDString renders the node as a string id regardless of whether the vendor
// sent it as a JSON number or a JSON string (Qualys sends numeric ids;
// CrowdStrike/Tenable send string ids).
func (n Node) IDString() string {
	if s, ok := n.String(); ok {
		return s
	}
	if f, ok := n.Float(); ok {
		if f == float64(int64(f)) {
			return strconv.FormatInt(int64(f), 10)
		}
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return ""
}

// IsEmptyObject reports whether n is an object with zero fields, or absent.
// Used by normalizers to implement "empty raw input yields none".
func (n Node) IsEmptyObject() bool {
	if n.IsAbsent() {
		return true
	}
	m, ok := n.v.(map[string]any)
	if !ok {
		return false
	}
	return len(m) == 0
}
