package hermes

const (
	SubjectAllocationWildcard = "allocator.allocation.>"

	StreamName   = "ALLOCATOR_EVENTS"
	StreamMaxAge = "168h" // 7 days
)

func SubjectAllocationComputed(allocationID string) string {
	return "allocator.allocation." + allocationID + ".computed"
}
