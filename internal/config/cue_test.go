// SPDX-License-Identifier: MPL-2.0

package config

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDecodeSettingsCUE(t *testing.T) {
	t.Parallel()

	got, err := decodeSettingsCUE("config.cue", []byte("shell: \"bash\"\non_step_failure: \"continue\"\n"))
	if err != nil {
		t.Fatalf("decodeSettingsCUE() error = %v", err)
	}
	want := map[string]any{"shell": "bash", "on_step_failure": "continue"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("decodeSettingsCUE() mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeSettingsCUE_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    string
		wantSub string
	}{
		{"disallowed failure policy", `on_step_failure: "retry"`, "on_step_failure"},
		{"unknown field", `colour: "blue"`, "colour"},
		{"wrong type", `verbose: "yes"`, "verbose"},
		{"syntax error", `shell: `, "config.cue"},
		{"file too large", strings.Repeat(" ", maxSettingsFileSize+1), "the limit is"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := decodeSettingsCUE("config.cue", []byte(tt.data))
			if err == nil {
				t.Fatal("decodeSettingsCUE() expected an error")
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("error %q does not contain %q", err, tt.wantSub)
			}
		})
	}
}
