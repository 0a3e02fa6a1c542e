// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"testing"
)

func TestExitCode_Validate(t *testing.T) {
	t.Parallel()

	for _, code := range []ExitCode{ExitSuccess, ExitFailure, ExitUsage, ExitInterrupted, 3, 255} {
		if err := code.Validate(); err != nil {
			t.Errorf("ExitCode(%d).Validate() = %v, want nil", code, err)
		}
	}
	for _, code := range []ExitCode{-1, 256, 1 << 16} {
		err := code.Validate()
		if !errors.Is(err, ErrInvalidExitCode) {
			t.Errorf("ExitCode(%d).Validate() = %v, want ErrInvalidExitCode", code, err)
		}
	}
}

func TestSignalExitCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		signum int
		want   ExitCode
	}{
		{2, ExitInterrupted},
		{9, 137},
		{15, 143},
	}
	for _, tt := range tests {
		got := SignalExitCode(tt.signum)
		if got != tt.want {
			t.Errorf("SignalExitCode(%d) = %d, want %d", tt.signum, got, tt.want)
		}
		if !got.IsSignal() {
			t.Errorf("ExitCode(%d).IsSignal() = false", got)
		}
	}
	for _, code := range []ExitCode{ExitSuccess, ExitFailure, ExitUsage, 128} {
		if code.IsSignal() {
			t.Errorf("ExitCode(%d).IsSignal() = true", code)
		}
	}
}

func TestExitCode_IsSuccess(t *testing.T) {
	t.Parallel()

	if !ExitSuccess.IsSuccess() {
		t.Error("ExitSuccess.IsSuccess() = false")
	}
	if ExitCode(3).IsSuccess() {
		t.Error("ExitCode(3).IsSuccess() = true")
	}
	if got := ExitInterrupted.String(); got != "130" {
		t.Errorf("ExitInterrupted.String() = %q, want 130", got)
	}
}
