// cmd/main.go
package main

import (
	"fmt"
	"os"

	"github.com/arc-language/zc/internal/cli"
	"github.com/arc-language/zc/pkg/core"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(core.ExitCode(err))
	}
}
