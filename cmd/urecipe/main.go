// cmd/urecipe/main.go
package main

import (
	"os"

	"github.com/arc-language/urecipe/internal/cli"
)

func main() {
	// fang prints the error
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
