// Package main is the entry point for the algomate CLI.
package main

import "algomate.dev/pkg/algomate/cmd"

func main() {
	cmd.Execute()
}
