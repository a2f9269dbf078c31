// internal/cli/deps.go
package cli

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/arc-language/zc/pkg/deps"
	"github.com/spf13/cobra"
)

func newDepsCmd(a *app) *cobra.Command {
	var perFile bool

	cmd := &cobra.Command{
		Use:   "deps [dir]",
		Short: "Print the link flags the sources under a directory need",
		Long: `Scan every C and C++ source under dir (default .) and print the flags
of the installed and std libraries their #include directives refer to.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(); err != nil {
				return err
			}

			sources, err := findSources(args)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if perFile {
				dir := sourceDir(args)
				rel := deps.RelativeTo(dir, sources)
				for i, src := range sources {
					flags, err := a.manager.Scan(src)
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "%s: %s\n", rel[i], strings.Join(deps.Dedupe(flags), " "))
				}
				return nil
			}

			flags, err := a.manager.LinkFlags(cmd.Context(), sources)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, strings.Join(flags, " "))
			return nil
		},
	}

	cmd.Flags().BoolVar(&perFile, "per-file", false, "print the flags of each source separately")
	return cmd
}

func newFlagsCmd(a *app) *cobra.Command {
	var shell bool

	cmd := &cobra.Command{
		Use:   "flags [dir]",
		Short: "Print the compiler flags to build the sources under a directory",
		Long: `Print -I and -L flags for the registry followed by the link flags the
sources under dir (default .) need. With --shell, print environment
variable assignments instead.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if shell {
				vars := a.manager.Environment().Vars()
				names := make([]string, 0, len(vars))
				for name := range vars {
					names = append(names, name)
				}
				sort.Strings(names)
				for _, name := range names {
					fmt.Fprintf(out, "export %s=%q\n", name, vars[name])
				}
				return nil
			}

			if err := a.open(); err != nil {
				return err
			}

			sources, err := findSources(args)
			if err != nil {
				return err
			}
			flags, err := a.manager.BuildFlags(cmd.Context(), sources)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, flags)
			return nil
		},
	}

	cmd.Flags().BoolVar(&shell, "shell", false, "print shell exports for CPATH and library paths")
	return cmd
}

func sourceDir(args []string) string {
	if len(args) == 0 {
		return "."
	}
	return filepath.Clean(args[0])
}

func findSources(args []string) ([]string, error) {
	return deps.FindSources(sourceDir(args))
}
