// SPDX-License-Identifier: MPL-2.0

// Package sysinfo probes host facts consumed by bootstrap configuration
// defaults.
package sysinfo

import (
	"fmt"
	"runtime"
	"strconv"
	"strings"

	"sciforge-cli/internal/prompt"
)

// MaxBuildThreads returns the number of hardware threads available to the
// process, used as the default parallelism for source builds.
func MaxBuildThreads() int {
	return runtime.NumCPU()
}

// ThreadCount returns a prompt converter accepting an integer in [1, max].
func ThreadCount(max int) prompt.Converter {
	return func(raw string) (any, error) {
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("%q is not a number", raw)
		}
		if n < 1 || n > max {
			return nil, fmt.Errorf("thread count must be between 1 and %d", max)
		}
		return n, nil
	}
}
