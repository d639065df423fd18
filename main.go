// SPDX-License-Identifier: MPL-2.0

package main

import cmd "venvoke-cli/cmd/venvoke"

func main() {
	cmd.Execute()
}
