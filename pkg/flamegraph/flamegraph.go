// Package flamegraph derives immutable, deterministically laid out views
// over built profiles. A Flamegraph is fully determined by its profile, the
// caller-supplied profile index and the options; rebuilding from the same
// inputs is idempotent.
package flamegraph

import (
	"github.com/flamescale/flamescale/pkg/calltree"
	"github.com/flamescale/flamescale/pkg/geom"
	"github.com/flamescale/flamescale/pkg/profile"
)

const (
	// config-space width of a view whose profile carries no duration
	defaultEmptyWidth = 1_000_000
	// config-space width of the canonical Empty() instance; independent of
	// defaultEmptyWidth, not derived from it
	canonicalEmptyWidth = 1_000
)

// Options select a view over a profile. The zero value requests an
// un-inverted left-heavy view with no collapsing.
type Options struct {
	Inverted  bool
	Sort      SortMethod
	Collapser calltree.PathCollapser
}

// Flamegraph is an immutable, flattened and positioned view over a profile.
// Safe to share across concurrent readers.
type Flamegraph struct {
	prof         *profile.Profile
	profileIndex int

	inverted    bool
	sort        SortMethod
	frames      []*calltree.Node
	root        *calltree.Node
	depth       int
	configSpace geom.Rect
	formatter   DurationFormatter
}

// New builds a view over prof. profileIndex is an opaque ordinal supplied by
// the caller, kept for round-tripping. Collapsing runs first, then
// inversion, then layout; an invalid sort/view pairing fails with
// *InvalidSortError and no partial result.
func New(prof *profile.Profile, profileIndex int, opts Options) (*Flamegraph, error) {
	sm := opts.Sort
	if sm == UnknownSort {
		sm = SortLeftHeavy
	}
	if err := validateSort(prof.ViewType(), sm); err != nil {
		return nil, err
	}

	tree := calltree.Collapse(prof.Tree(), opts.Collapser)
	if opts.Inverted {
		tree = calltree.Invert(tree)
	}
	if tree == prof.Tree() {
		// nothing rebuilt the tree yet; layout mutates, so detach from
		// the shared profile
		tree = tree.Clone()
	}

	frames, depth := layoutTree(tree, sm)

	width := prof.Duration()
	if width == 0 {
		width = defaultEmptyWidth
	}

	return &Flamegraph{
		prof:         prof,
		profileIndex: profileIndex,
		inverted:     opts.Inverted,
		sort:         sm,
		frames:       frames,
		root:         tree.Root,
		depth:        depth,
		configSpace:  geom.NewRect(0, 0, width, float64(depth)),
		formatter:    NewDurationFormatter(prof.Unit()),
	}, nil
}

// From derives a new view from an existing one with different options. It
// behaves exactly like constructing fresh from the underlying profile; in
// particular a sort-only change never moves the config space.
func From(fg *Flamegraph, opts Options) (*Flamegraph, error) {
	return New(fg.prof, fg.profileIndex, opts)
}

// Empty returns the canonical empty view: no frames, depth 0, un-inverted,
// default ordering, with its own fixed config-space width.
func Empty() *Flamegraph {
	prof := profile.Empty()
	tree := prof.Tree().Clone()
	return &Flamegraph{
		prof:        prof,
		sort:        SortLeftHeavy,
		root:        tree.Root,
		configSpace: geom.NewRect(0, 0, canonicalEmptyWidth, 0),
		formatter:   NewDurationFormatter(prof.Unit()),
	}
}

// Frames is the flattened, post-layout node sequence, ready for rendering.
// Callers must treat it as read-only.
func (fg *Flamegraph) Frames() []*calltree.Node { return fg.frames }

// Root is the synthetic root of the laid-out tree, for tree-shaped UIs.
func (fg *Flamegraph) Root() *calltree.Node { return fg.root }

func (fg *Flamegraph) Profile() *profile.Profile { return fg.prof }

func (fg *Flamegraph) ProfileIndex() int { return fg.profileIndex }

func (fg *Flamegraph) Inverted() bool { return fg.inverted }

func (fg *Flamegraph) Sort() SortMethod { return fg.sort }

func (fg *Flamegraph) Depth() int { return fg.depth }

func (fg *Flamegraph) ConfigSpace() geom.Rect { return fg.configSpace }

func (fg *Flamegraph) Formatter() DurationFormatter { return fg.formatter }
