package reputation

// Score accumulates a host's completion history. Both fields only ever grow.
type Score struct {
	CompletedJobs      uint64
	TotalUptimeSeconds uint64
}
