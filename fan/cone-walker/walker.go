package walker

import (
	"sync/atomic"
	"time"

	"github.com/emirpasic/gods/queues/priorityqueue"
	"github.com/emirpasic/gods/utils"
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/2x3systems/gfan/gfan"
	"github.com/2x3systems/gfan/libgfan"
	"github.com/2x3systems/gfan/libgfan/catalog"
	"github.com/2x3systems/gfan/libgfan/poly"
)

// SearchState is the state of one reverse search over a Gröbner fan.
type SearchState struct {
	space      *libgfan.Space
	opts       gfan.EnumOpts
	stream     *gfan.ConeStream
	nextID     atomic.Int64
	numVisited int64
	pending    *priorityqueue.Queue // cones waiting to be explored
	spill      *catalog.Catalog     // nil unless opts.Spill is set
	emitted    *catalog.KeySet      // nil unless opts.VerifyUnique is set
	progress   rate.Sometimes
}

// startSearch validates opts, computes the root cone, and starts the walk.
// If keepClosed is set and the walk completes, the spill catalog is left open for the caller.
func startSearch(I *poly.Ideal, opts gfan.EnumOpts, keepClosed bool) (*SearchState, error) {
	if opts.MaxSearchList < 0 {
		return nil, errors.Wrapf(gfan.ErrBadParam, "MaxSearchList %d", opts.MaxSearchList)
	}
	if opts.Workers < 0 {
		return nil, errors.Wrapf(gfan.ErrBadParam, "Workers %d", opts.Workers)
	}

	space, err := libgfan.NewSpace(I, opts)
	if err != nil {
		return nil, err
	}

	root, err := space.NewSeedCone(I)
	if err != nil {
		klog.Errorf("seed cone: %v", err)
		return nil, err
	}
	klog.V(1).Infof("seed basis has %d elements, lineality dim %d, heuristic %v", root.Basis().Len(), len(space.Lineality), opts.Heuristic)

	ss := newSearchState(space, opts)
	if opts.Spill {
		ss.spill, err = catalog.Open(catalog.Opts{
			DbPathName:  opts.SpillPathName,
			Compression: opts.Compression,
			TempDir:     true,
		})
		if err != nil {
			ss.close(false)
			return nil, err
		}
		if !ss.spill.IsEmpty() {
			err = errors.Wrapf(gfan.ErrBadParam, "spill catalog %q holds %d pending and %d closed cones from another enumeration",
				ss.spill.Dir(), ss.spill.NumPending(), ss.spill.NumClosed())
			ss.close(false)
			return nil, err
		}
		klog.V(1).Infof("spilling to %s", ss.spill.Dir())
	}

	if err = ss.enqueue(root); err != nil {
		ss.close(false)
		return nil, err
	}

	go func() {
		err := ss.walk()
		if err != nil {
			klog.Errorf("fan walk stopped after %d cones: %v", ss.numVisited, err)
		}
		if closeErr := ss.close(keepClosed && err == nil); err == nil {
			err = closeErr
		}
		ss.stream.CloseWithError(err)
	}()

	return ss, nil
}

func newSearchState(space *libgfan.Space, opts gfan.EnumOpts) *SearchState {
	ss := &SearchState{
		space:  space,
		opts:   opts,
		stream: gfan.NewConeStream(1),
		progress: rate.Sometimes{
			Interval: 2 * time.Second,
		},
	}
	ss.pending = priorityqueue.NewWith(func(a, b interface{}) int {
		return utils.Int64Comparator(ss.priority(a.(*libgfan.Cone)), ss.priority(b.(*libgfan.Cone)))
	})
	ss.nextID.Store(1)

	if opts.VerifyUnique {
		ss.emitted = &catalog.KeySet{}
	}
	return ss
}

// priority orders the work list: lower values are explored first.
func (ss *SearchState) priority(C *libgfan.Cone) int64 {
	if ss.opts.Heuristic == gfan.Heuristic_DepthFirst {
		return -int64(C.ID())
	}
	return int64(C.ID())
}

// close releases the search's stores, leaving the spill catalog open if keepSpill is set.
func (ss *SearchState) close(keepSpill bool) error {
	if ss.emitted != nil {
		ss.emitted.Close()
	}
	if ss.spill == nil || keepSpill {
		return nil
	}
	err := ss.spill.Close()
	ss.spill = nil
	return err
}

func (ss *SearchState) walk() error {
	for {
		C, err := ss.next()
		if err != nil || C == nil {
			return err
		}

		children, err := ss.explore(C)
		if err != nil {
			return err
		}

		if ss.emitted != nil {
			added, err := ss.emitted.TryAdd([]byte(C.Basis().Key()))
			if err != nil {
				return err
			}
			if !added {
				return errors.Wrapf(gfan.ErrDuplicateCone, "cone %d (from %d)", C.ID(), C.PredID())
			}
		}

		C.SetStatus(libgfan.ConeStatus_Closed)
		C.ReleaseFlips()
		ss.numVisited++
		if ss.spill != nil {
			if err = ss.spill.PutClosed(C); err != nil {
				return err
			}
		}
		klog.V(2).Infof("cone %d (from %d) closed with %d facets, %d children", C.ID(), C.PredID(), C.NumFacets(), len(children))
		ss.progress.Do(func() {
			klog.V(1).Infof("%d cones visited, %d pending", ss.numVisited, ss.numPending())
		})

		ss.stream.Outlet <- C

		for _, N := range children {
			if err = ss.enqueue(N); err != nil {
				return err
			}
		}
	}
}

func (ss *SearchState) numPending() int {
	n := ss.pending.Size()
	if ss.spill != nil {
		n += ss.spill.NumPending()
	}
	return n
}

// next pops the highest priority pending cone, reloading spilled cones once memory runs dry.
// Returns nil when the search is complete.
func (ss *SearchState) next() (*libgfan.Cone, error) {
	if ss.pending.Empty() && ss.spill != nil && ss.spill.NumPending() > 0 {
		batch := ss.opts.MaxSearchList / 2
		if batch < 1 {
			batch = 1
		}
		cones, err := ss.spill.PopPending(batch)
		if err != nil {
			return nil, err
		}
		klog.V(1).Infof("reloaded %d spilled cones, %d remain on disk", len(cones), ss.spill.NumPending())
		for _, C := range cones {
			C.SetStatus(libgfan.ConeStatus_FacetsComputed)
			ss.pending.Enqueue(C)
		}
	}

	val, ok := ss.pending.Dequeue()
	if !ok {
		return nil, nil
	}
	return val.(*libgfan.Cone), nil
}

// enqueue adds C to the work list, spilling the lower priority half once the list exceeds MaxSearchList.
func (ss *SearchState) enqueue(C *libgfan.Cone) error {
	ss.pending.Enqueue(C)

	limit := ss.opts.MaxSearchList
	if limit <= 0 || ss.pending.Size() <= limit {
		return nil
	}
	if ss.spill == nil {
		return errors.Wrapf(gfan.ErrResourceExhausted, "%d pending cones exceeds limit of %d", ss.pending.Size(), limit)
	}

	sorted := make([]*libgfan.Cone, 0, ss.pending.Size())
	for !ss.pending.Empty() {
		val, _ := ss.pending.Dequeue()
		sorted = append(sorted, val.(*libgfan.Cone))
	}
	keep := len(sorted) / 2
	for _, Ci := range sorted[:keep] {
		ss.pending.Enqueue(Ci)
	}
	spilled := sorted[keep:]
	for _, Ci := range spilled {
		Ci.SetStatus(libgfan.ConeStatus_Spilled)
	}
	klog.Warningf("work list exceeded %d cones: spilling %d", limit, len(spilled))
	return ss.spill.PutPending(spilled, ss.priority)
}

// explore flips C across each facet it owns in the search tree and returns the neighbours whose
// canonical parent is C, with ids assigned in facet order.
func (ss *SearchState) explore(C *libgfan.Cone) ([]*libgfan.Cone, error) {
	C.SetStatus(libgfan.ConeStatus_Exploring)

	facets := C.ExploreFacets()
	found := make([]*libgfan.Cone, len(facets))

	tryFacet := func(i int) error {
		fi := facets[i]
		N, err := ss.space.NewConeFromFlip(C, fi)
		if err != nil {
			return err
		}
		if N.IsChildOf(C, fi) {
			found[i] = N
		}
		return nil
	}

	if ss.opts.Workers > 1 && len(facets) > 1 {
		var group errgroup.Group
		group.SetLimit(ss.opts.Workers)
		for i := range facets {
			i := i
			group.Go(func() error {
				return tryFacet(i)
			})
		}
		if err := group.Wait(); err != nil {
			return nil, err
		}
	} else {
		for i := range facets {
			if err := tryFacet(i); err != nil {
				return nil, err
			}
		}
	}

	var children []*libgfan.Cone
	for _, N := range found {
		if N != nil {
			N.SetID(int(ss.nextID.Add(1) - 1))
			children = append(children, N)
		}
	}
	return children, nil
}
