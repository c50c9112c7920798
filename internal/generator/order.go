package generator

import (
	"slices"
	"strings"

	"github.com/blang/semver/v4"
)

// orderVersions sorts semantic versions newest first, followed by any other
// ids in lexical order. When preferred is non-empty it is moved to the front.
func orderVersions(ids []string, preferred string) []string {
	type entry struct {
		id  string
		ver semver.Version
		ok  bool
	}
	entries := make([]entry, 0, len(ids))
	for _, id := range ids {
		v, err := semver.ParseTolerant(id)
		entries = append(entries, entry{id: id, ver: v, ok: err == nil})
	}
	slices.SortStableFunc(entries, func(a, b entry) int {
		switch {
		case a.ok && b.ok:
			if c := b.ver.Compare(a.ver); c != 0 {
				return c
			}
			return strings.Compare(a.id, b.id)
		case a.ok:
			return -1
		case b.ok:
			return 1
		default:
			return strings.Compare(a.id, b.id)
		}
	})

	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.id)
	}
	if preferred != "" {
		if i := slices.Index(out, preferred); i > 0 {
			out = slices.Insert(slices.Delete(out, i, i+1), 0, preferred)
		}
	}
	return out
}
