package combination

// Choose lists k-item subsets of items, keeping the order of items.
//
// Subsets are listed in lexicographic order of positions in items.
//
// # Example:
//
//	Choose([]string{"a", "b", "c", "d"}, 2)
//
// generates
//
//	[][]string{
//		{"a", "b"}, {"a", "c"}, {"a", "d"},
//		{"b", "c"}, {"b", "d"},
//		{"c", "d"},
//	}
//
// When k is not in [1, len(items)], it returns empty.
func Choose[T any](items []T, k int) [][]T {
	ret := [][]T{}
	n := len(items)
	if k <= 0 || n < k {
		return ret
	}

	indices := make([]int, k)
	for i := range indices {
		indices[i] = i
	}
	for {
		subset := make([]T, k)
		for i, idx := range indices {
			subset[i] = items[idx]
		}
		ret = append(ret, subset)

		// rightmost position which can be advanced
		i := k - 1
		for 0 <= i && indices[i] == n-k+i {
			i -= 1
		}
		if i < 0 {
			return ret
		}
		indices[i] += 1
		for j := i + 1; j < k; j++ {
			indices[j] = indices[j-1] + 1
		}
	}
}

// Subsets lists subsets of items with min or more items, smaller first.
//
// Subsets of the same size are in the order of Choose.
func Subsets[T any](items []T, min int) [][]T {
	ret := [][]T{}
	for k := max(min, 1); k <= len(items); k++ {
		ret = append(ret, Choose(items, k)...)
	}
	return ret
}
