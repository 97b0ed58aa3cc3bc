package engine

// NextID returns max(ids, 0) + 1. IDs of deleted siblings are never reused
// while a higher ID survives, and gaps are allowed.
func NextID(ids []int) int {
	highest := 0
	for _, id := range ids {
		if id > highest {
			highest = id
		}
	}
	return highest + 1
}
