// SPDX-License-Identifier: MPL-2.0

package platform

import (
	"io/fs"
	"testing"
	"time"
)

// fakeInfo is a minimal fs.FileInfo for exercising permission rules.
type fakeInfo struct {
	name string
	mode fs.FileMode
}

func (f fakeInfo) Name() string       { return f.name }
func (f fakeInfo) Size() int64        { return 0 }
func (f fakeInfo) Mode() fs.FileMode  { return f.mode }
func (f fakeInfo) ModTime() time.Time { return time.Time{} }
func (f fakeInfo) IsDir() bool        { return f.mode.IsDir() }
func (f fakeInfo) Sys() any           { return nil }

func TestIsExecutableOn(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		goos    string
		pathExt string
		file    string
		mode    fs.FileMode
		want    bool
	}{
		{name: "unix owner exec bit", goos: Linux, file: "tool", mode: 0o744, want: true},
		{name: "unix other exec bit", goos: Darwin, file: "tool", mode: 0o601, want: true},
		{name: "unix no exec bit", goos: Linux, file: "tool", mode: 0o644, want: false},
		{name: "unix directory", goos: Linux, file: "bin", mode: fs.ModeDir | 0o755, want: false},
		{name: "unix symlink entry", goos: Linux, file: "link", mode: fs.ModeSymlink | 0o777, want: false},
		{name: "windows exe default pathext", goos: Windows, file: "tool.exe", mode: 0o666, want: true},
		{name: "windows case insensitive", goos: Windows, file: "tool.CMD", mode: 0o666, want: true},
		{name: "windows custom pathext", goos: Windows, pathExt: ".PS1", file: "tool.ps1", mode: 0o666, want: true},
		{name: "windows unknown extension", goos: Windows, file: "tool.txt", mode: 0o666, want: false},
		{name: "windows no extension", goos: Windows, file: "tool", mode: 0o777, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			info := fakeInfo{name: tt.file, mode: tt.mode}
			if got := isExecutableOn(tt.goos, tt.pathExt, tt.file, info); got != tt.want {
				t.Errorf("isExecutableOn(%q, %q, %q) = %v, want %v", tt.goos, tt.pathExt, tt.file, got, tt.want)
			}
		})
	}
}

func TestIsExecutableNilInfo(t *testing.T) {
	t.Parallel()

	if IsExecutable("missing", nil) {
		t.Error("IsExecutable(nil info) = true, want false")
	}
}
