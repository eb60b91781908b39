package clustersched

import (
	"fmt"

	"github.com/hashicorp/go-memdb"
	"github.com/pkg/errors"

	"github.com/armadaproject/clustersched/internal/clustersched/schedtypes"
)

const (
	vmCacheTable    = "vmcache"
	vmCacheKeyIndex = "id"
)

// vmCacheEntry is one memoized (machine, guestOS) -> VM mapping.
type vmCacheEntry struct {
	// Key is the compound (Machine, Os) identity, used as memdb's unique index.
	Key     string
	Machine uint32
	Os      uint8
	VM      uint32
}

func vmCacheKey(m schedtypes.MachineHandle, os schedtypes.GuestOs) string {
	return fmt.Sprintf("%d:%d", uint32(m), uint8(os))
}

func vmCacheSchema() *memdb.DBSchema {
	return &memdb.DBSchema{
		Tables: map[string]*memdb.TableSchema{
			vmCacheTable: {
				Name: vmCacheTable,
				Indexes: map[string]*memdb.IndexSchema{
					vmCacheKeyIndex: {
						Name:    vmCacheKeyIndex,
						Unique:  true,
						Indexer: &memdb.StringFieldIndex{Field: "Key"},
					},
				},
			},
		},
	}
}

// VMCache lazily creates and memoizes one VM per (machine, guest-OS) pair
// (C2). It is backed by a hashicorp/go-memdb table keyed on the compound
// pair, the same indexed-table shape the teacher's jobdb.go uses for its
// job table, giving "at most one VM per pair" for free via memdb's unique
// index rather than a hand-rolled map-with-mutex.
type VMCache struct {
	db *memdb.MemDB
}

// NewVMCache constructs an empty VM cache.
func NewVMCache() (*VMCache, error) {
	db, err := memdb.NewMemDB(vmCacheSchema())
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return &VMCache{db: db}, nil
}

// Ensure returns the memoized VM for (m, os), creating and attaching one on
// first use. The first task requiring the pair pays the creation cost;
// subsequent tasks do not (invariant 1, 5 of the data model). created
// reports whether this call was the one that materialized the VM, so
// callers can attribute creation-time costs (e.g. metrics) exactly once.
func (c *VMCache) Ensure(host schedtypes.Host, m schedtypes.MachineHandle, os schedtypes.GuestOs) (vm schedtypes.VMHandle, created bool, err error) {
	key := vmCacheKey(m, os)

	txn := c.db.Txn(false)
	raw, err := txn.First(vmCacheTable, vmCacheKeyIndex, key)
	txn.Abort()
	if err != nil {
		return 0, false, errors.WithStack(err)
	}
	if raw != nil {
		return schedtypes.VMHandle(raw.(*vmCacheEntry).VM), false, nil
	}

	arch := host.MachineCPUType(m)
	vm = host.VMCreate(os, arch)
	host.VMAttach(vm, m)

	wtxn := c.db.Txn(true)
	defer wtxn.Abort()
	if err := wtxn.Insert(vmCacheTable, &vmCacheEntry{
		Key:     key,
		Machine: uint32(m),
		Os:      uint8(os),
		VM:      uint32(vm),
	}); err != nil {
		return 0, false, errors.WithStack(err)
	}
	wtxn.Commit()

	return vm, true, nil
}

// All returns every VM ever materialized, for the shutdown sweep (C7).
func (c *VMCache) All() ([]schedtypes.VMHandle, error) {
	txn := c.db.Txn(false)
	defer txn.Abort()
	it, err := txn.Get(vmCacheTable, vmCacheKeyIndex)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	var vms []schedtypes.VMHandle
	for obj := it.Next(); obj != nil; obj = it.Next() {
		vms = append(vms, schedtypes.VMHandle(obj.(*vmCacheEntry).VM))
	}
	return vms, nil
}
