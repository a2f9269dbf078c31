// internal/cli/lib.go
package cli

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/Masterminds/semver/v3"
	"github.com/arc-language/zc"
	"github.com/arc-language/zc/pkg/classify"
	"github.com/arc-language/zc/pkg/core"
	"github.com/arc-language/zc/pkg/stage"
	"github.com/arc-language/zc/pkg/toolchain"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newLibCmd(a *app) *cobra.Command {
	libCmd := &cobra.Command{
		Use:   "lib",
		Short: "Create, list and remove installed libraries",
	}

	libCmd.AddCommand(newLibCreateCmd(a))
	libCmd.AddCommand(newLibListCmd(a))
	libCmd.AddCommand(newLibRemoveCmd(a))
	libCmd.AddCommand(newLibInfoCmd(a))
	return libCmd
}

func newLibCreateCmd(a *app) *cobra.Command {
	var (
		force   bool
		version string
		author  string
		flags   string
	)

	cmd := &cobra.Command{
		Use:   "create [name] [files...]",
		Short: "Build and install a library",
		Long: `Build a library from sources, headers and objects and install it.

Sources are compiled to position independent objects, then archived into
lib<name>.a and linked into a shared library. Headers are copied to
<root>/include/<name>. Arguments may be glob patterns or .tar, .tar.gz,
.tar.xz and .tar.zst bundles.

Examples:
  zc lib create vec vec.h vec.c
  zc lib create json 'src/**/*.c' 'include/**/*.h' --version 1.2.0
  zc lib create sqlite sqlite-amalgamation.tar.gz --flags "-lsqlite -lpthread"`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := core.ValidateName(args[0]); err != nil {
				return err
			}
			if version != "" {
				if _, err := semver.NewVersion(version); err != nil {
					return fmt.Errorf("%w: invalid version %q: %v", core.ErrBadCommand, version, err)
				}
			}

			if err := a.open(); err != nil {
				return err
			}

			staged, err := stage.Stage(args[1:], a.logger.Logger)
			if err != nil {
				return err
			}
			defer func() {
				if err := staged.Cleanup(); err != nil {
					a.logger.Warn("staging directory not removed", zap.Error(err))
				}
			}()

			sorted := classify.Sort(staged.Files)
			for _, f := range sorted.Ignored {
				warnf(cmd.ErrOrStderr(), "ignoring %s (%s)", f, classify.Classify(f))
			}
			if len(sorted.Sources) == 0 && len(sorted.Headers) == 0 {
				return fmt.Errorf("%w: at least one source or header is required", core.ErrBadCommand)
			}

			pkg := &zc.Package{
				Name:    args[0],
				Author:  author,
				Version: version,
				Flags:   flags,
			}
			files := zc.Files{
				Headers: sorted.Headers,
				Objects: sorted.Objects,
				Sources: sorted.Sources,
				CPP:     sorted.CPP,
				BaseDir: staged.BaseDir,
			}

			report, err := a.manager.Install(cmd.Context(), pkg, force, files)
			if err != nil {
				if errors.Is(err, core.ErrOperationsAborted) {
					fmt.Fprintln(cmd.OutOrStdout(), "Nothing was changed.")
				}
				var cerr *core.CompilationError
				if errors.As(err, &cerr) && cerr.Output != "" {
					fmt.Fprint(cmd.ErrOrStderr(), cerr.Output)
				}
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Installed %s %s\n", pkg.Name, pkg.Version)
			fmt.Fprintf(out, "  Headers:  %d in %s\n", len(pkg.Headers), filepath.Join(a.manager.Registry().IncludeDir(), pkg.Name))
			for _, bin := range pkg.Binaries {
				fmt.Fprintf(out, "  Binary:   %s\n", bin)
			}
			if len(report.Objects) > 0 && len(pkg.Binaries) == 0 {
				warnf(cmd.ErrOrStderr(), "no library could be linked for %s", pkg.Name)
			}
			fmt.Fprintf(out, "  Flags:    %s\n", pkg.Flags)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an installed library without asking")
	cmd.Flags().StringVar(&version, "version", "", "library version (semver, default "+core.DefaultVersion+")")
	cmd.Flags().StringVar(&author, "author", "", "library author (default "+core.DefaultAuthor+")")
	cmd.Flags().StringVar(&flags, "flags", "", "compiler flags consumers need (default -l<name>)")
	return cmd
}

func newLibListCmd(a *app) *cobra.Command {
	var std bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List installed libraries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := a.manager.Registry()
			if std {
				return printTable(cmd.OutOrStdout(), reg.StdRows())
			}

			if err := a.open(); err != nil {
				return err
			}

			rows := reg.Rows()
			if len(rows) < 2 {
				fmt.Fprintln(cmd.OutOrStdout(), "No libraries installed")
				return nil
			}
			return printTable(cmd.OutOrStdout(), rows)
		},
	}

	cmd.Flags().BoolVar(&std, "std", false, "list the libraries shipped with the toolchain instead")
	return cmd
}

func newLibRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "remove [name...]",
		Short: "Remove installed libraries",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(); err != nil {
				return err
			}

			for _, name := range args {
				result, err := a.manager.Remove(name)
				if err != nil {
					return err
				}
				if !result.OK() {
					warnf(cmd.ErrOrStderr(), "%s: %s", name, result.Outcome)
					for _, bin := range result.MissingBinaries {
						warnf(cmd.ErrOrStderr(), "%s was already gone", bin)
					}
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", name)
			}
			return nil
		},
	}
}

func newLibInfoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "info [name]",
		Short: "Show an installed library",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(); err != nil {
				return err
			}

			pkg, ok := a.manager.Registry().Lookup(args[0])
			if !ok {
				return &core.Error{Op: "showing", Package: args[0], Err: core.ErrPackageNotFound}
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Package: %s\n", pkg.Name)
			fmt.Fprintf(out, "Version: %s\n", pkg.Version)
			fmt.Fprintf(out, "Author: %s\n", pkg.Author)
			fmt.Fprintf(out, "Flags: %s\n", pkg.Flags)
			fmt.Fprintf(out, "Headers:\n")
			for _, h := range pkg.Headers {
				fmt.Fprintf(out, "  %s\n", filepath.Join(a.manager.Registry().IncludeDir(), pkg.Name, h))
			}
			fmt.Fprintf(out, "Binaries:\n")
			for _, bin := range pkg.Binaries {
				fmt.Fprintf(out, "  %s\n", bin)
				if classify.Classify(bin).Class != classify.Archive {
					continue
				}
				members, err := toolchain.ArchiveMembers(bin)
				if err != nil {
					warnf(cmd.ErrOrStderr(), "reading %s: %v", bin, err)
					continue
				}
				for _, m := range members {
					fmt.Fprintf(out, "    %s\n", m)
				}
			}
			return nil
		},
	}
}
