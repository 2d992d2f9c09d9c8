// cmd/mlxbench/main.go
package main

import (
	cmd "github.com/mwiater/mlxbench/internal/commands"
)

// main starts the mlxbench CLI application by delegating to the
// cobra root command defined in the commands package. It does not
// take any arguments and does not return a value.
func main() {
	cmd.Execute()
}
