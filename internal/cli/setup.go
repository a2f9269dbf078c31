// internal/cli/setup.go
package cli

import (
	"fmt"
	"os"

	"github.com/arc-language/zc/pkg/core"
	"github.com/spf13/cobra"
)

func newSetupCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "setup",
		Short: "Create the registry directories, index and config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			reg := a.manager.Registry()

			created, err := a.manager.Setup()
			if err != nil {
				return err
			}
			if created {
				fmt.Fprintf(out, "Created %s\n", reg.IndexPath())
			} else {
				fmt.Fprintf(out, "Index already exists at %s\n", reg.IndexPath())
			}

			cfgPath := a.cfgFile
			if cfgPath == "" {
				cfgPath = a.settings.ConfigPath()
			}
			if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
				if err := core.SaveSettings(a.settings, cfgPath); err != nil {
					return &core.Error{Op: "writing config", Path: cfgPath, Err: fmt.Errorf("%w: %v", core.ErrConfigWriting, err)}
				}
				fmt.Fprintf(out, "Created %s\n", cfgPath)
			}

			fmt.Fprintf(out, "Headers go to %s\n", reg.IncludeDir())
			fmt.Fprintf(out, "Libraries go to %s\n", reg.LibDir())
			return nil
		},
	}
}
