package catalog

import (
	"encoding/binary"
	"os"
	"runtime"
	"sync"

	"github.com/dgraph-io/badger/v3"
	"github.com/gogo/protobuf/proto"
	"github.com/pkg/errors"

	"github.com/2x3systems/gfan/gfan"
	"github.com/2x3systems/gfan/libgfan"
)

/***

Cone catalog database format:

	gCatalogStateKey => version, numPending, numClosed (varints)

	kPendingPrefix, priority (uint64 BE, sign bit flipped), coneID (uint64 BE)
		=> cone record
	...

	kClosedPrefix, coneID (uint64 BE)
		=> cone record
	...

Pending keys sort by priority so PopPending returns cones in work list order.
Cone records are written by libgfan.(*Cone).MarshalOut.

***/

var (
	gCatalogStateKey = []byte{0x00, 0x00, 0x01}
)

const (
	kPendingPrefix = byte(0x01)
	kClosedPrefix  = byte(0x02)

	kCatalogVers = 1
)

// Opts specifies how a cone catalog is opened.
type Opts struct {
	DbPathName  string           // omit for an in-memory catalog (or a temp dir if TempDir is set)
	Compression gfan.Compression // cone record compression
	ReadOnly    bool
	TempDir     bool // if set and DbPathName is omitted, the catalog lives on disk in a temp dir removed by Close
}

// Catalog is a badger-backed store of pending and closed cones.
type Catalog struct {
	opts       Opts
	mu         sync.Mutex
	db         *badger.DB
	numPending int
	numClosed  int
	stateDirty bool
	tempDir    string
}

// Open opens (or creates) a cone catalog.
func Open(opts Opts) (*Catalog, error) {
	cat := &Catalog{
		opts: opts,
	}

	dbOpts := badger.DefaultOptions(opts.DbPathName)
	dbOpts.ReadOnly = opts.ReadOnly
	dbOpts.DetectConflicts = false
	dbOpts.Logger = nil
	dbOpts.MetricsEnabled = false

	// Badger for windows currently does not support read-only mode
	if runtime.GOOS == "windows" {
		dbOpts.ReadOnly = false
	}

	if len(opts.DbPathName) == 0 {
		if opts.ReadOnly {
			return nil, errors.Wrap(gfan.ErrBadParam, "DbPathName must be specified for a read-only catalog")
		}
		if opts.TempDir {
			dir, err := os.MkdirTemp("", "gfan-catalog-")
			if err != nil {
				return nil, err
			}
			cat.tempDir = dir
			dbOpts = dbOpts.WithDir(dir).WithValueDir(dir)
		} else {
			dbOpts.InMemory = true
		}
	}

	var err error
	cat.db, err = badger.Open(dbOpts)
	if err != nil {
		cat.removeTempDir()
		return nil, err
	}

	err = cat.loadState()
	if err == badger.ErrKeyNotFound {
		err = nil
		cat.stateDirty = true
	}
	if err != nil {
		cat.Close()
		return nil, err
	}

	return cat, nil
}

func (cat *Catalog) loadState() error {
	return cat.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(gCatalogStateKey)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			buf := proto.NewBuffer(val)
			vers, err := buf.DecodeVarint()
			if err != nil {
				return errors.Wrap(gfan.ErrBadCheckpoint, err.Error())
			}
			if vers != kCatalogVers {
				return errors.Wrapf(gfan.ErrBadCheckpoint, "catalog version %d is incompatible", vers)
			}
			numPending, err := buf.DecodeVarint()
			if err != nil {
				return errors.Wrap(gfan.ErrBadCheckpoint, err.Error())
			}
			numClosed, err := buf.DecodeVarint()
			if err != nil {
				return errors.Wrap(gfan.ErrBadCheckpoint, err.Error())
			}
			cat.numPending = int(numPending)
			cat.numClosed = int(numClosed)
			return nil
		})
	})
}

func (cat *Catalog) flushState() error {
	if !cat.stateDirty || cat.opts.ReadOnly {
		return nil
	}
	buf := proto.NewBuffer(make([]byte, 0, 16))
	buf.EncodeVarint(kCatalogVers)
	buf.EncodeVarint(uint64(cat.numPending))
	buf.EncodeVarint(uint64(cat.numClosed))

	err := cat.db.Update(func(txn *badger.Txn) error {
		return txn.Set(gCatalogStateKey, buf.Bytes())
	})
	if err == nil {
		cat.stateDirty = false
	}
	return err
}

// Close flushes the catalog state and closes the db.
func (cat *Catalog) Close() error {
	cat.mu.Lock()
	defer cat.mu.Unlock()

	if cat.db == nil {
		return nil
	}
	err := cat.flushState()
	if closeErr := cat.db.Close(); err == nil {
		err = closeErr
	}
	cat.db = nil
	cat.removeTempDir()
	return err
}

func (cat *Catalog) removeTempDir() {
	if cat.tempDir != "" {
		os.RemoveAll(cat.tempDir)
		cat.tempDir = ""
	}
}

// Dir returns the directory holding the catalog, or "" if it is in memory.
func (cat *Catalog) Dir() string {
	if cat.tempDir != "" {
		return cat.tempDir
	}
	return cat.opts.DbPathName
}

// IsEmpty returns true if the catalog holds no pending or closed cones.
func (cat *Catalog) IsEmpty() bool {
	cat.mu.Lock()
	defer cat.mu.Unlock()
	return cat.numPending == 0 && cat.numClosed == 0
}

func (cat *Catalog) NumPending() int {
	cat.mu.Lock()
	defer cat.mu.Unlock()
	return cat.numPending
}

func (cat *Catalog) NumClosed() int {
	cat.mu.Lock()
	defer cat.mu.Unlock()
	return cat.numClosed
}

func formPendingKey(key []byte, priority int64, coneID int) []byte {
	key = append(key, kPendingPrefix)
	key = binary.BigEndian.AppendUint64(key, uint64(priority)^(1<<63))
	key = binary.BigEndian.AppendUint64(key, uint64(coneID))
	return key
}

func formClosedKey(key []byte, coneID int) []byte {
	key = append(key, kClosedPrefix)
	key = binary.BigEndian.AppendUint64(key, uint64(coneID))
	return key
}

// PutPending writes cones awaiting exploration; cones with a smaller priority are popped first.
func (cat *Catalog) PutPending(cones []*libgfan.Cone, priority func(C *libgfan.Cone) int64) error {
	cat.mu.Lock()
	defer cat.mu.Unlock()

	if cat.db == nil {
		return gfan.ErrStoreClosed
	}

	wb := cat.db.NewWriteBatch()
	defer wb.Cancel()

	var val []byte
	for _, C := range cones {
		var err error
		val, err = C.MarshalOut(val[:0], cat.opts.Compression)
		if err != nil {
			return err
		}
		key := formPendingKey(nil, priority(C), C.ID())
		if err = wb.Set(key, append([]byte(nil), val...)); err != nil {
			return err
		}
	}
	if err := wb.Flush(); err != nil {
		return err
	}
	cat.numPending += len(cones)
	cat.stateDirty = true
	return nil
}

// PopPending removes and returns up to maxCount pending cones in priority order.
func (cat *Catalog) PopPending(maxCount int) ([]*libgfan.Cone, error) {
	cat.mu.Lock()
	defer cat.mu.Unlock()

	if cat.db == nil {
		return nil, gfan.ErrStoreClosed
	}

	var cones []*libgfan.Cone
	err := cat.db.Update(func(txn *badger.Txn) error {
		keys, err := cat.scanPending(txn, maxCount, &cones)
		if err != nil {
			return err
		}
		for _, key := range keys {
			if err := txn.Delete(key); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	cat.numPending -= len(cones)
	cat.stateDirty = true
	return cones, nil
}

// scanPending reads up to maxCount pending cones and returns their keys.
// The iterator is closed before the caller deletes the keys.
func (cat *Catalog) scanPending(txn *badger.Txn, maxCount int, cones *[]*libgfan.Cone) ([][]byte, error) {
	it := txn.NewIterator(badger.IteratorOptions{
		PrefetchValues: true,
		PrefetchSize:   100,
		Prefix:         []byte{kPendingPrefix},
	})
	defer it.Close()

	var keys [][]byte
	for it.Rewind(); it.Valid() && len(keys) < maxCount; it.Next() {
		item := it.Item()
		err := item.Value(func(val []byte) error {
			C, err := libgfan.UnmarshalCone(val)
			if err == nil {
				*cones = append(*cones, C)
			}
			return err
		})
		if err != nil {
			return nil, err
		}
		keys = append(keys, item.KeyCopy(nil))
	}
	return keys, nil
}

// PutClosed checkpoints a fully explored cone.
func (cat *Catalog) PutClosed(C *libgfan.Cone) error {
	cat.mu.Lock()
	defer cat.mu.Unlock()

	if cat.db == nil {
		return gfan.ErrStoreClosed
	}

	val, err := C.MarshalOut(nil, cat.opts.Compression)
	if err != nil {
		return err
	}
	key := formClosedKey(nil, C.ID())

	isNew := false
	err = cat.db.Update(func(txn *badger.Txn) error {
		_, getErr := txn.Get(key)
		isNew = getErr == badger.ErrKeyNotFound
		return txn.Set(key, val)
	})
	if err != nil {
		return err
	}
	if isNew {
		cat.numClosed++
		cat.stateDirty = true
	}
	return nil
}

// GetClosed reads back a closed cone, returning badger.ErrKeyNotFound if absent.
func (cat *Catalog) GetClosed(coneID int) (*libgfan.Cone, error) {
	cat.mu.Lock()
	defer cat.mu.Unlock()

	if cat.db == nil {
		return nil, gfan.ErrStoreClosed
	}

	var C *libgfan.Cone
	err := cat.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(formClosedKey(nil, coneID))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			C, err = libgfan.UnmarshalCone(val)
			return err
		})
	})
	return C, err
}

// ForEachClosed calls onCone with every closed cone in id order, stopping at the first error.
func (cat *Catalog) ForEachClosed(onCone func(C *libgfan.Cone) error) error {
	cat.mu.Lock()
	defer cat.mu.Unlock()

	if cat.db == nil {
		return gfan.ErrStoreClosed
	}

	return cat.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.IteratorOptions{
			PrefetchValues: true,
			PrefetchSize:   100,
			Prefix:         []byte{kClosedPrefix},
		})
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var C *libgfan.Cone
			err := it.Item().Value(func(val []byte) error {
				var err error
				C, err = libgfan.UnmarshalCone(val)
				return err
			})
			if err == nil {
				err = onCone(C)
			}
			if err != nil {
				return err
			}
		}
		return nil
	})
}
