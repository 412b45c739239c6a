// SPDX-License-Identifier: MPL-2.0

package main

import cmd "sciforge-cli/cmd/sciforge"

func main() {
	cmd.Execute()
}
