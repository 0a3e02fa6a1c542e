// SPDX-License-Identifier: MPL-2.0

// Package rootfiletest builds rootfile.RootConfiguration values for tests.
package rootfiletest
