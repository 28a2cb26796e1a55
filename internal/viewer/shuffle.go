package viewer

import "math/rand/v2"

// ShuffleOrder returns a permutation of [0..n) whose first element is
// always anchor, so shuffle traversal originates at the item the user
// opened. The remaining positions are Fisher-Yates shuffled.
func ShuffleOrder(n int, anchor int) []int {
	if n <= 0 {
		return nil
	}
	if anchor < 0 || anchor >= n {
		anchor = 0
	}

	order := make([]int, 0, n)
	order = append(order, anchor)
	for i := 0; i < n; i++ {
		if i != anchor {
			order = append(order, i)
		}
	}
	for i := n - 1; i > 1; i-- {
		j := 1 + rand.IntN(i)
		order[i], order[j] = order[j], order[i]
	}
	return order
}
