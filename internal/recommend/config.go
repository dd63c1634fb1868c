// Campus - Course Catalog, Recommendations and Study Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campus

package recommend

import (
	"errors"
	"fmt"
)

// ZeroDivisorPolicy decides what happens when the similarity row of the
// target user sums to zero, which makes the global normalization undefined.
type ZeroDivisorPolicy string

const (
	// ZeroDivisorSkip returns no recommendations.
	ZeroDivisorSkip ZeroDivisorPolicy = "skip"

	// ZeroDivisorZero scores every candidate 0 and keeps column order.
	ZeroDivisorZero ZeroDivisorPolicy = "zero"
)

// Config holds engine settings.
type Config struct {
	// Limit is the maximum number of courses returned. Default: 2.
	Limit int `json:"limit"`

	// ZeroDivisor is the policy for a zero similarity sum. Default: skip.
	ZeroDivisor ZeroDivisorPolicy `json:"zero_divisor"`

	// MaxMatrixCells bounds users*courses; 0 means unbounded.
	MaxMatrixCells int `json:"max_matrix_cells"`
}

// DefaultConfig returns the production defaults.
func DefaultConfig() *Config {
	return &Config{
		Limit:          2,
		ZeroDivisor:    ZeroDivisorSkip,
		MaxMatrixCells: 25_000_000,
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Limit < 1 {
		return fmt.Errorf("limit must be at least 1, got %d", c.Limit)
	}
	switch c.ZeroDivisor {
	case ZeroDivisorSkip, ZeroDivisorZero:
	default:
		return fmt.Errorf("unknown zero divisor policy %q", c.ZeroDivisor)
	}
	if c.MaxMatrixCells < 0 {
		return errors.New("max_matrix_cells must not be negative")
	}
	return nil
}
