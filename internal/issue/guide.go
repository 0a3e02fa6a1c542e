// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"maps"
	"slices"

	"github.com/charmbracelet/glamour"
)

type (
	// MarkdownMsg is Markdown text rendered for the user.
	MarkdownMsg string

	// HttpLink is an external reference shown under a guide.
	HttpLink string

	// Guide is the remediation text shown for a Kind in verbose mode.
	Guide struct {
		kind     Kind
		mdMsg    MarkdownMsg
		extLinks []HttpLink
	}
)

// Kind returns the kind the guide is written for.
func (g *Guide) Kind() Kind {
	return g.kind
}

// MarkdownMsg returns the guide body.
func (g *Guide) MarkdownMsg() MarkdownMsg {
	return g.mdMsg
}

// ExtLinks returns a copy of the guide's external links.
func (g *Guide) ExtLinks() []HttpLink {
	return slices.Clone(g.extLinks)
}

// Render renders the guide for a terminal. stylePath is a glamour style
// name such as "dark", "light", "notty" or "auto".
func (g *Guide) Render(stylePath string) (string, error) {
	md := string(g.mdMsg)
	if len(g.extLinks) > 0 {
		md += "\n\n## See also\n"
		for _, link := range g.extLinks {
			md += "\n- <" + string(link) + ">"
		}
	}
	return render(md, stylePath)
}

var (
	render = glamour.Render

	rootNotFoundGuide = &Guide{
		kind: KindRootNotFound,
		mdMsg: `
# No project root found

x looks for ` + "`x-root.kdl`" + ` or ` + "`x-root.yml`" + ` in the current directory
and every parent directory. The nearest one wins, and ` + "`x-root.kdl`" + ` wins
when both sit in the same directory.

## Things you can try
- Run x from inside your project.
- Create a root file at the top of the project:
~~~yaml
# x-root.yml
hoist:
  - directory: ./node_modules/.bin
scripts:
  build:
    - cmd: make "$@"
~~~`,
	}

	parseGuide = &Guide{
		kind: KindParse,
		mdMsg: `
# The root configuration is invalid

The file was found but could not be loaded. The message above names the
file and the first problem.

## Common issues
- An unknown key or node (keys are strict in both formats)
- ` + "`mode-opts`" + ` given without ` + "`mode: passthrough`" + `
- A hoist entry with both or neither of ` + "`directory`" + ` and ` + "`dir`" + `
- A step without ` + "`cmd`" + `
- A ` + "`process-args`" + ` position below 1

## Inspect what x understood
~~~
$ x - print-config
~~~`,
		extLinks: []HttpLink{"https://kdl.dev", "https://yaml.org/spec/1.2.2/"},
	}

	unknownScriptGuide = &Guide{
		kind: KindUnknownScriptOrBinary,
		mdMsg: `
# Unknown script or hoisted binary

The name matched no script in the root configuration and no executable in
any hoisted directory.

## Things you can try
- Ask x where a name would come from:
~~~
$ x - which <name>
~~~
- List the scripts x sees:
~~~
$ x - print-config
~~~
- Check that the hoisted file is executable (` + "`chmod +x`" + `).`,
	}

	unsupportedTransformGuide = &Guide{
		kind: KindUnsupportedTransform,
		mdMsg: `
# Unsupported argument transform

A step registered a transform this version of x does not implement.

## Supported transforms
- **realpath**: replace the argument with its absolute, symlink-free path`,
	}

	filesystemGuide = &Guide{
		kind: KindFilesystem,
		mdMsg: `
# Filesystem error

A path x needed could not be read. This happens when a hoisted directory is
missing, a ` + "`cwd`" + ` does not exist, or a ` + "`realpath`" + ` argument names a
file that does not exist.

## Things you can try
- Paths in the root configuration are relative to the project root.
- Arguments transformed by ` + "`realpath`" + ` are relative to where you ran x.`,
	}

	subprocessGuide = &Guide{
		kind: KindSubprocessFailure,
		mdMsg: `
# A command failed

A step, hoisted binary or wrapped command could not be started or exited
with a non-zero status. x exits with the same status.

## Things you can try
- Run remaining steps even after a failure:
~~~
$ X_ON_STEP_FAILURE=continue x <script>
~~~
- Use a different shell, or the built-in interpreter:
~~~
$ X_SHELL=virtual x <script>
~~~`,
	}

	settingsGuide = &Guide{
		kind: KindSettings,
		mdMsg: `
# Invalid runner settings

The settings file or an ` + "`X_*`" + ` environment variable holds a value x
does not accept.

## Example settings file
~~~cue
shell:           "bash"
log_level:       "info"
on_step_failure: "abort" // or "continue"
verbose:         false
~~~`,
		extLinks: []HttpLink{"https://cuelang.org/docs/"},
	}

	usageGuide = &Guide{
		kind: KindUsage,
		mdMsg: `
# Usage

~~~
x <script> [arguments...]
x - which <name>
x - root
x - print-config [--format yaml|json|toml]
~~~`,
	}

	interruptedGuide = &Guide{
		kind: KindInterrupted,
		mdMsg: `
# Interrupted

The run was cancelled before it finished. Remaining steps were not started.`,
	}

	internalGuide = &Guide{
		kind: KindInternal,
		mdMsg: `
# Unexpected error

Run again with ` + "`X_VERBOSE=1`" + ` to see debug logs.`,
	}

	guides = map[Kind]*Guide{
		rootNotFoundGuide.Kind():         rootNotFoundGuide,
		parseGuide.Kind():                parseGuide,
		unknownScriptGuide.Kind():        unknownScriptGuide,
		unsupportedTransformGuide.Kind(): unsupportedTransformGuide,
		filesystemGuide.Kind():           filesystemGuide,
		subprocessGuide.Kind():           subprocessGuide,
		settingsGuide.Kind():             settingsGuide,
		usageGuide.Kind():                usageGuide,
		interruptedGuide.Kind():          interruptedGuide,
		internalGuide.Kind():             internalGuide,
	}
)

// Guides returns every guide.
func Guides() []*Guide {
	return slices.Collect(maps.Values(guides))
}

// GuideFor returns the guide for kind, or nil.
func GuideFor(kind Kind) *Guide {
	return guides[kind]
}
