package calltree

import (
	"github.com/flamescale/flamescale/pkg/frame"
)

// A PathCollapser rewrites a single root-to-leaf path before it is merged
// into the displayed tree. Implementations must be pure: no shared state, no
// mutation of the input slice.
type PathCollapser interface {
	CollapsePath(entries []PathEntry) []PathEntry
}

// IdentityCollapser leaves every path untouched.
func IdentityCollapser() PathCollapser {
	return identityCollapser{}
}

type identityCollapser struct{}

func (identityCollapser) CollapsePath(entries []PathEntry) []PathEntry {
	return entries
}

// SystemFrameCollapser compresses repetitive non-application stack segments.
// The first frame of a path is always kept as-is. From the second frame on,
// every maximal run of two or more consecutive system frames is replaced by
// the run's last frame, which records the earlier frames of the run, in
// original order, in its Collapsed list. The surviving step carries the
// run's full weight, so aggregate totals are preserved.
type SystemFrameCollapser struct{}

var _ PathCollapser = SystemFrameCollapser{}

func (SystemFrameCollapser) CollapsePath(entries []PathEntry) []PathEntry {
	if len(entries) < 3 {
		return entries
	}

	out := make([]PathEntry, 0, len(entries))
	out = append(out, entries[0])

	for i := 1; i < len(entries); {
		if entries[i].Frame.IsApplication {
			out = append(out, entries[i])
			i++
			continue
		}

		j := i
		for j < len(entries) && !entries[j].Frame.IsApplication {
			j++
		}
		if run := entries[i:j]; len(run) == 1 {
			out = append(out, run[0])
		} else {
			collapsed := make([]*frame.Frame, 0, len(run)-1)
			for _, e := range run[:len(run)-1] {
				collapsed = append(collapsed, e.Frame)
			}
			out = append(out, PathEntry{
				Frame:     run[len(run)-1].Frame,
				Collapsed: collapsed,
			})
		}
		i = j
	}
	return out
}

// Collapse applies a path collapser to every weighted path of the tree and
// re-merges the result. The returned tree is a lossy display view; weights
// survive intact since surviving steps aggregate their run's contribution.
func Collapse(t *Tree, c PathCollapser) *Tree {
	if c == nil {
		return t
	}
	if _, ok := c.(identityCollapser); ok {
		return t
	}
	paths := Paths(t)
	for i := range paths {
		paths[i].Entries = c.CollapsePath(paths[i].Entries)
	}
	return MergePaths(paths)
}
