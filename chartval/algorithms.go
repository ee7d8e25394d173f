// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package chartval

import "sort"

// LowerBound returns the first position in s for which less(s[i], value) is false.
// s needs to be sorted according to less.
func LowerBound[E, V any](s []E, value V, less func(E, V) bool) int {
	return sort.Search(len(s), func(i int) bool {
		return !less(s[i], value)
	})
}

// UpperBound returns the first position in s for which less(value, s[i]) is true.
func UpperBound[E, V any](s []E, value V, less func(V, E) bool) int {
	return sort.Search(len(s), func(i int) bool {
		return less(value, s[i])
	})
}
