// Campus - Course Catalog, Recommendations and Study Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campus

package recommend

import "testing"

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"defaults", *DefaultConfig(), false},
		{"zero policy", Config{Limit: 5, ZeroDivisor: ZeroDivisorZero}, false},
		{"unbounded", Config{Limit: 1, ZeroDivisor: ZeroDivisorSkip, MaxMatrixCells: 0}, false},
		{"zero limit", Config{Limit: 0, ZeroDivisor: ZeroDivisorSkip}, true},
		{"empty policy", Config{Limit: 2}, true},
		{"negative cap", Config{Limit: 2, ZeroDivisor: ZeroDivisorSkip, MaxMatrixCells: -1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
