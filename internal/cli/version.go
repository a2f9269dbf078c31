// internal/cli/version.go
package cli

import (
	"fmt"

	"github.com/arc-language/zc/pkg/platform"
	"github.com/spf13/cobra"
)

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "zc version %s\n", Version)
			fmt.Fprintln(out, "Local registry for native C/C++ libraries")

			s := a.settings
			fmt.Fprintf(out, "Platform: %s\n", platform.Detect(s.CCompiler, s.CPPCompiler, "cc", "c++", s.Archiver))
		},
	}
}
