// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package mock

import (
	"bufio"
	"log"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

// NewLogger returns a logger whose output can be read line by line.
func NewLogger(t *testing.T) (*log.Logger, *bufio.Scanner) {
	r, w, err := os.Pipe()
	if err != nil {
		assert.Fail(t, "failed to create logger mock: %v", err)
	}
	t.Cleanup(func() { r.Close() })
	t.Cleanup(func() { w.Close() })
	return log.New(w, "", 0), bufio.NewScanner(r)
}

// CaptureStandardLogger redirects the output of the standard logger until the test ends.
func CaptureStandardLogger(t *testing.T) *bufio.Scanner {
	logger, scanner := NewLogger(t)
	flags := log.Flags()
	log.SetOutput(logger.Writer())
	log.SetFlags(0)
	t.Cleanup(func() {
		log.SetOutput(os.Stderr)
		log.SetFlags(flags)
	})
	return scanner
}
