// SPDX-License-Identifier: MPL-2.0

package main

import "github.com/xroot/x/cmd/x"

func main() {
	cmd.Execute()
}
