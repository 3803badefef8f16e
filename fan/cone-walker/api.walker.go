package walker

import (
	"sort"

	"github.com/dgraph-io/badger/v3"
	"github.com/emirpasic/gods/trees/redblacktree"
	"github.com/emirpasic/gods/utils"
	"github.com/plan-systems/klog"

	"github.com/2x3systems/gfan/gfan"
	"github.com/2x3systems/gfan/libgfan"
	"github.com/2x3systems/gfan/libgfan/catalog"
	"github.com/2x3systems/gfan/libgfan/poly"
)

// EnumCones is the primary entry point for Gröbner fan enumeration.
//
// Cones are sent on the returned stream's Outlet as they close, starting with the root.
// Once the Outlet is closed, the stream's Err() reports why the walk stopped early, if it did.
func EnumCones(I *poly.Ideal, opts gfan.EnumOpts) (*gfan.ConeStream, error) {
	ss, err := startSearch(I, opts, false)
	if err != nil {
		return nil, err
	}
	return ss.stream, nil
}

// Enumerate walks the whole fan of I and returns its cones.
//
// If opts.Spill is set, closed cones are not held in memory: the returned Fan reads them back from
// the spill catalog, which stays open until Fan.Close.
func Enumerate(I *poly.Ideal, opts gfan.EnumOpts) (*Fan, error) {
	ss, err := startSearch(I, opts, true)
	if err != nil {
		return nil, err
	}

	fan := &Fan{
		Ring:      ss.space.Ring,
		Lineality: ss.space.Lineality,
	}
	if !opts.Spill {
		fan.cones = redblacktree.NewWith(utils.IntComparator)
	}
	for C := range ss.stream.Outlet {
		if fan.cones != nil {
			cone := C.(*libgfan.Cone)
			fan.cones.Put(cone.ID(), cone)
		}
	}
	if err = ss.stream.Err(); err != nil {
		return nil, err
	}
	fan.closed = ss.spill
	return fan, nil
}

// Fan is the set of maximal cones of a Gröbner fan, indexed by cone id.
type Fan struct {
	Ring      *poly.Ring
	Lineality []gfan.Vector

	cones  *redblacktree.Tree // cone id => *libgfan.Cone, nil if cones live in the catalog
	closed *catalog.Catalog   // closed cones of a spilled enumeration
}

// Close releases the fan's cone catalog, if any.
func (fan *Fan) Close() error {
	if fan.closed == nil {
		return nil
	}
	err := fan.closed.Close()
	fan.closed = nil
	return err
}

func (fan *Fan) NumCones() int {
	if fan.cones != nil {
		return fan.cones.Size()
	}
	if fan.closed != nil {
		return fan.closed.NumClosed()
	}
	return 0
}

// ForEachCone calls onCone with every cone in id order, stopping at the first error.
func (fan *Fan) ForEachCone(onCone func(C *libgfan.Cone) error) error {
	if fan.cones == nil {
		if fan.closed == nil {
			return gfan.ErrStoreClosed
		}
		return fan.closed.ForEachClosed(onCone)
	}
	for it := fan.cones.Iterator(); it.Next(); {
		if err := onCone(it.Value().(*libgfan.Cone)); err != nil {
			return err
		}
	}
	return nil
}

// Cones returns every cone in id order.
func (fan *Fan) Cones() []*libgfan.Cone {
	cones := make([]*libgfan.Cone, 0, fan.NumCones())
	err := fan.ForEachCone(func(C *libgfan.Cone) error {
		cones = append(cones, C)
		return nil
	})
	if err != nil {
		klog.Errorf("reading fan cones: %v", err)
	}
	return cones
}

// Cone returns the cone with the given id, or nil.
func (fan *Fan) Cone(id int) *libgfan.Cone {
	if fan.cones != nil {
		if val, found := fan.cones.Get(id); found {
			return val.(*libgfan.Cone)
		}
		return nil
	}
	if fan.closed == nil {
		return nil
	}
	C, err := fan.closed.GetClosed(id)
	if err != nil {
		if err != badger.ErrKeyNotFound {
			klog.Errorf("reading cone %d: %v", id, err)
		}
		return nil
	}
	return C
}

// BasisKeys returns the canonical key of each cone's marked reduced basis, sorted.
// Two runs found the same fan iff their keys match.
func (fan *Fan) BasisKeys() []string {
	keys := make([]string, 0, fan.NumCones())
	for _, C := range fan.Cones() {
		keys = append(keys, C.Basis().Key())
	}
	sort.Strings(keys)
	return keys
}

// Edges returns the (parent, child) pairs of the search tree.
func (fan *Fan) Edges() [][2]int {
	var edges [][2]int
	for _, C := range fan.Cones() {
		if !C.IsRoot() {
			edges = append(edges, [2]int{C.PredID(), C.ID()})
		}
	}
	return edges
}
