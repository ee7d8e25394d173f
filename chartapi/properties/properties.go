// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package properties

import (
	"log"
	"strconv"
)

// SetPositiveValue keeps the current value if value is not a positive integer.
func SetPositiveValue(n *int, value string) bool {
	valInt, err := strconv.Atoi(value)
	if err != nil || valInt <= 0 {
		log.Printf("Invalid value %q was ignored.", value)
		return false
	}
	*n = valInt
	return true
}
