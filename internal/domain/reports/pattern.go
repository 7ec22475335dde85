package reports

// PatternCounts maps each normalized aggressor name to its report count.
func PatternCounts(list []*Report) map[string]int {
	counts := make(map[string]int, len(list))
	for _, r := range list {
		if !r.IsActive {
			continue
		}
		counts[NormalizeName(r.AggressorName)]++
	}
	return counts
}

// PatternsDetected is the number of names reported more than once.
func PatternsDetected(counts map[string]int) int {
	n := 0
	for _, c := range counts {
		if c > 1 {
			n++
		}
	}
	return n
}
