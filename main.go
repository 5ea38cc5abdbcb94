// Package main is the entry point for the hoopstats CLI, which ingests NBA
// player stats, computes rolling averages and serves them over HTTP.
package main

import "github.com/pable/hoopstats/cmd"

func main() {
	cmd.Execute()
}
