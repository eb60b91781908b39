package clustersched

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/armadaproject/clustersched/internal/clustersched/schedtypes"
)

func TestVMCache_CreatesOncePerMachineOsPair(t *testing.T) {
	h := newFakeHost()
	h.addMachine(0, schedtypes.X86, schedtypes.MachineInfo{})

	cache, err := NewVMCache()
	require.NoError(t, err)

	vm1, created1, err := cache.Ensure(h, 0, schedtypes.LINUX)
	require.NoError(t, err)
	vm2, created2, err := cache.Ensure(h, 0, schedtypes.LINUX)
	require.NoError(t, err)

	assert.Equal(t, vm1, vm2)
	assert.True(t, created1, "first Ensure call materializes the VM")
	assert.False(t, created2, "second Ensure call hits the cache")
	assert.Len(t, h.createdVMs, 1, "VM should be created exactly once (P4)")
	assert.Equal(t, schedtypes.X86, h.createdVMs[0].Arch, "VM created with host's CpuArch (P5)")
}

func TestVMCache_DistinctEntriesPerOs(t *testing.T) {
	h := newFakeHost()
	h.addMachine(0, schedtypes.X86, schedtypes.MachineInfo{})

	cache, err := NewVMCache()
	require.NoError(t, err)

	linuxVM, _, err := cache.Ensure(h, 0, schedtypes.LINUX)
	require.NoError(t, err)
	winVM, _, err := cache.Ensure(h, 0, schedtypes.WIN)
	require.NoError(t, err)

	assert.NotEqual(t, linuxVM, winVM)
	assert.Len(t, h.createdVMs, 2)
}

func TestVMCache_AllReturnsEveryMaterializedVM(t *testing.T) {
	h := newFakeHost()
	h.addMachine(0, schedtypes.X86, schedtypes.MachineInfo{})
	h.addMachine(1, schedtypes.ARM, schedtypes.MachineInfo{})

	cache, err := NewVMCache()
	require.NoError(t, err)

	_, _, err = cache.Ensure(h, 0, schedtypes.LINUX)
	require.NoError(t, err)
	_, _, err = cache.Ensure(h, 1, schedtypes.WIN)
	require.NoError(t, err)

	all, err := cache.All()
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
