package similarity

// Distance computes the Levenshtein distance between two strings: the minimum
// number of single-rune insertions, deletions or substitutions turning a into b.
func Distance(a, b string) int {
	runesA := []rune(a)
	runesB := []rune(b)

	if len(runesA) == 0 {
		return len(runesB)
	}
	if len(runesB) == 0 {
		return len(runesA)
	}

	// Two rows of the distance matrix are enough.
	prev := make([]int, len(runesB)+1)
	curr := make([]int, len(runesB)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(runesA); i++ {
		curr[0] = i
		for j := 1; j <= len(runesB); j++ {
			cost := 1
			if runesA[i-1] == runesB[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[len(runesB)]
}
