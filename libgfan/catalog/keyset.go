package catalog

import "github.com/dgraph-io/badger/v3"

// KeySet is a set of byte keys backed by an in-memory badger db.
//
// After one or more calls to TryAdd(), call Close() for cleanup.
type KeySet struct {
	db  *badger.DB
	num int
}

func (set *KeySet) autoOpen() error {
	if set.db != nil {
		return nil
	}
	dbOpts := badger.DefaultOptions("").WithInMemory(true)
	dbOpts.Logger = nil
	dbOpts.MetricsEnabled = false

	var err error
	set.db, err = badger.Open(dbOpts)
	return err
}

// TryAdd adds key if it is not already present, returning true if it was added.
func (set *KeySet) TryAdd(key []byte) (bool, error) {
	if err := set.autoOpen(); err != nil {
		return false, err
	}

	added := false
	err := set.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		if err == badger.ErrKeyNotFound {
			added = true
			return txn.Set(key, nil)
		}
		return err
	})
	if added && err == nil {
		set.num++
	}
	return added && err == nil, err
}

func (set *KeySet) Len() int {
	return set.num
}

// Close removes all previously added keys.
func (set *KeySet) Close() {
	if set.db != nil {
		set.db.Close()
		set.db = nil
	}
	set.num = 0
}
