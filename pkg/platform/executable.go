// SPDX-License-Identifier: MPL-2.0

package platform

import (
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// defaultPathExt is used when PATHEXT is unset on Windows.
const defaultPathExt = ".COM;.EXE;.BAT;.CMD"

// IsExecutable reports whether a file with the given name and info can be
// executed on the current platform. Only regular files qualify.
func IsExecutable(name string, info fs.FileInfo) bool {
	return isExecutableOn(runtime.GOOS, os.Getenv("PATHEXT"), name, info)
}

// isExecutableOn holds the platform rules so they can be exercised on any host.
func isExecutableOn(goos, pathExt, name string, info fs.FileInfo) bool {
	if info == nil || !info.Mode().IsRegular() {
		return false
	}

	if goos != Windows {
		return info.Mode().Perm()&0o111 != 0
	}

	ext := filepath.Ext(name)
	if ext == "" {
		return false
	}
	if pathExt == "" {
		pathExt = defaultPathExt
	}
	for candidate := range strings.SplitSeq(pathExt, ";") {
		if candidate != "" && strings.EqualFold(candidate, ext) {
			return true
		}
	}
	return false
}
