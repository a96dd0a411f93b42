package attr

import (
	"strconv"
	"strings"
)

// Segment is one step of an attribute path: either a map key or a list index.
type Segment struct {
	Key     string
	Index   int
	IsIndex bool
}

// KeySegment returns a map-key path segment.
func KeySegment(key string) Segment {
	return Segment{Key: key}
}

// IndexSegment returns a list-index path segment.
func IndexSegment(i int) Segment {
	return Segment{Index: i, IsIndex: true}
}

// ResolveSegments walks segs through v. Any miss along the way (absent
// intermediate node, key lookup on a non-map, index into a non-list,
// out-of-range index) yields absent, never an error.
func ResolveSegments(v Value, segs []Segment) Value {
	cur := v
	for _, s := range segs {
		if s.IsIndex {
			cur = cur.Index(s.Index)
		} else {
			cur = cur.Field(s.Key)
		}
		if cur.IsAbsent() {
			return Absent()
		}
	}
	return cur
}

// Resolve looks up a dotted path such as "tags.purpose" or
// "permissions[0].actions" in v. An unparsable path resolves to absent, same
// as a missing attribute: rule predicates routinely probe paths that may not
// exist, and resolution must never fault.
func Resolve(v Value, path string) Value {
	segs, ok := ParsePath(path)
	if !ok {
		return Absent()
	}
	return ResolveSegments(v, segs)
}

// ParsePath splits a dotted path with optional [n] index suffixes into
// segments. It reports false for malformed paths (empty segments, unclosed
// or non-numeric brackets).
func ParsePath(path string) ([]Segment, bool) {
	if path == "" {
		return nil, false
	}
	var segs []Segment
	for _, part := range strings.Split(path, ".") {
		key := part
		var idxs []int
		for {
			open := strings.IndexByte(key, '[')
			if open < 0 {
				break
			}
			rest := key[open:]
			key = key[:open]
			for rest != "" {
				if rest[0] != '[' {
					return nil, false
				}
				closeIdx := strings.IndexByte(rest, ']')
				if closeIdx < 0 {
					return nil, false
				}
				n, err := strconv.Atoi(rest[1:closeIdx])
				if err != nil || n < 0 {
					return nil, false
				}
				idxs = append(idxs, n)
				rest = rest[closeIdx+1:]
			}
			break
		}
		if key == "" && len(idxs) == 0 {
			return nil, false
		}
		if key != "" {
			segs = append(segs, KeySegment(key))
		}
		for _, n := range idxs {
			segs = append(segs, IndexSegment(n))
		}
	}
	if len(segs) == 0 {
		return nil, false
	}
	return segs, true
}
