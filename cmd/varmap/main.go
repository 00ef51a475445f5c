// Package main provides the varmap CLI.
package main

import "github.com/mesh-intelligence/varmap/internal/cli"

func main() {
	cli.Execute()
}
