// Copyright (c) 2025 MinimalADB
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package main is the entry point for the minimaladb CLI.
package main

import (
	"minimaladb/cli/cmd"
)

func main() {
	cmd.Execute()
}
