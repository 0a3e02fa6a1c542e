// SPDX-License-Identifier: MPL-2.0

// Package rootfile defines the project-root configuration model and parses it
// from either of the two supported on-disk formats.
//
// A project root is marked by an x-root.kdl or x-root.yml file. Both formats
// describe the same RootConfiguration: a run mode (standalone or passthrough),
// an ordered list of hoisted executable directories, and a set of named
// scripts made of ordered shell steps. Equivalent documents in either format
// produce equal values.
//
// Every parse ends with RootConfiguration.Validate, so the model's invariants
// are enforced in one place regardless of the source format.
package rootfile
