package schedtypes

// GPUOk reports whether a machine satisfies a task's GPU requirement. GPU
// and CpuArch are hard constraints; this predicate is never relaxed.
func GPUOk(info MachineInfo, req TaskRequirements) bool {
	return !req.GPURequired || info.GPUs > 0
}

// MemOk reports whether a machine's nominal memory capacity meets a task's
// requirement. This checks nominal capacity, not current free memory:
// overcommit is tolerated and reported later via MemoryWarning.
func MemOk(info MachineInfo, req TaskRequirements) bool {
	return req.RequiredMemoryMB <= info.MemorySizeMB
}
