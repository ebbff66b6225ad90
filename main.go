// Package main is the entry point for the Alpha Stocks CLI application.
package main

import (
	"alphastocks/cli/cmd"
)

// main initializes and executes the command-line interface.
func main() {
	cmd.Execute()
}
