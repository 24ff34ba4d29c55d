// Package helpers holds small computations shared by CLI commands.
package helpers

import "sort"

// CalculateSuccessRate returns successes as a percentage of total, zero when
// nothing was recorded.
func CalculateSuccessRate(successful, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(successful) / float64(total) * 100
}

// NameCount pairs a name with its occurrence count.
type NameCount struct {
	Name  string
	Count int
}

// TopCounts sorts a frequency map descending by count (names break ties) and
// caps the result at n entries.
func TopCounts(freq map[string]int, n int) []NameCount {
	counts := make([]NameCount, 0, len(freq))
	for name, count := range freq {
		counts = append(counts, NameCount{Name: name, Count: count})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Name < counts[j].Name
	})
	if n > 0 && len(counts) > n {
		counts = counts[:n]
	}
	return counts
}
