// SPDX-License-Identifier: MPL-2.0

package coreutils

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// fileProcessor handles one input. filename is "-" for stdin; total is the
// number of file operands, 0 when reading stdin.
type fileProcessor func(r io.Reader, filename string, index, total int) error

// processFilesOrStdin calls process for each file operand, or once for
// stdin when there are none. Relative paths resolve against workDir.
func processFilesOrStdin(files []string, stdin io.Reader, workDir, name string, process fileProcessor) error {
	if len(files) == 0 {
		return process(stdin, "-", 0, 0)
	}
	for i, file := range files {
		if err := processFile(file, workDir, name, func(f *os.File) error {
			return process(f, file, i, len(files))
		}); err != nil {
			return err
		}
	}
	return nil
}

func processFile(file, workDir, name string, process func(f *os.File) error) (err error) {
	p := file
	if !filepath.IsAbs(p) {
		p = filepath.Join(workDir, p)
	}

	f, err := os.Open(p)
	if err != nil {
		return wrapError(name, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = wrapError(name, closeErr)
		}
	}()

	return process(f)
}

// runCat implements "cat [FILE...]".
func runCat(_ context.Context, hc *HandlerContext, args []string) error {
	return processFilesOrStdin(args[1:], hc.Stdin, hc.Dir, "cat",
		func(r io.Reader, _ string, _, _ int) error {
			_, err := io.Copy(hc.Stdout, r)
			return wrapError("cat", err)
		})
}

// runHead implements "head [-n N] [FILE...]".
func runHead(_ context.Context, hc *HandlerContext, args []string) error {
	fs := flag.NewFlagSet("head", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	lines := fs.Int("n", 10, "number of lines")
	if err := fs.Parse(args[1:]); err != nil {
		return wrapError("head", err)
	}
	if *lines < 0 {
		return wrapError("head", fmt.Errorf("invalid number of lines: %d", *lines))
	}

	return processFilesOrStdin(fs.Args(), hc.Stdin, hc.Dir, "head",
		func(r io.Reader, filename string, index, total int) error {
			if total > 1 {
				if index > 0 {
					writeLine(hc.Stdout, "")
				}
				writeLine(hc.Stdout, "==> "+filename+" <==")
			}
			return headLines(hc.Stdout, r, *lines)
		})
}

func headLines(w io.Writer, r io.Reader, n int) error {
	scanner := bufio.NewScanner(r)
	for count := 0; count < n && scanner.Scan(); count++ {
		writeLine(w, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return wrapError("head", fmt.Errorf("reading input: %w", err))
	}
	return nil
}
