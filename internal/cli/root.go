// internal/cli/root.go
package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/arc-language/zc"
	"github.com/arc-language/zc/internal/logging"
	"github.com/arc-language/zc/pkg/core"
	"github.com/spf13/cobra"
)

// Version of the zc binary
const Version = "0.1.0"

// app carries what every command shares. It is filled in by the root
// command's pre-run hook.
type app struct {
	cfgFile string
	root    string
	debug   bool

	settings *core.Settings
	logger   *logging.Logger
	manager  *zc.Manager

	started bool // a command's own code ran, so errors are not usage errors
}

// NewRootCommand builds the zc command tree
func NewRootCommand() *cobra.Command {
	cmd, _ := newRootCommand()
	return cmd
}

func newRootCommand() (*cobra.Command, *app) {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "zc",
		Short: "Local registry for native C/C++ libraries",
		Long: `zc - local registry for native C/C++ libraries

Builds libraries from sources and headers, installs them under ~/.zc,
and works out which link flags a source file needs from its #include
directives.`,
		Version:           Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.init,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is $HOME/.zc/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&a.root, "root", "", "registry root directory (default is $HOME/.zc)")
	rootCmd.PersistentFlags().BoolVar(&a.debug, "debug", false, "enable debug logging")

	// Add commands
	rootCmd.AddCommand(newLibCmd(a))
	rootCmd.AddCommand(newDepsCmd(a))
	rootCmd.AddCommand(newFlagsCmd(a))
	rootCmd.AddCommand(newSetupCmd(a))
	rootCmd.AddCommand(newVersionCmd(a))

	return rootCmd, a
}

// Execute runs the command line and returns the error to exit with
func Execute() error {
	return run(newRootCommand())
}

func run(cmd *cobra.Command, a *app) error {
	err := cmd.Execute()
	if err == nil {
		return nil
	}

	// Flag, argument and unknown command errors never reach a command's
	// own code
	if !a.started {
		return fmt.Errorf("%w: %v", core.ErrBadCommand, err)
	}
	return err
}

func (a *app) init(cmd *cobra.Command, args []string) error {
	a.started = true

	settings, err := loadSettings(a.cfgFile, a.root)
	if err != nil {
		return err
	}
	if a.debug {
		settings.Debug = true
	}
	a.logger = logging.New(settings.Debug)
	a.settings = settings

	a.manager = zc.NewManager(settings,
		zc.WithLogger(a.logger.Logger),
		zc.WithConfirm(newPrompt(cmd.InOrStdin(), cmd.ErrOrStderr())),
	)
	return nil
}

// open loads the index, pointing at setup when it does not exist yet
func (a *app) open() error {
	if err := a.manager.Load(); err != nil {
		if errors.Is(err, core.ErrConfigNotFound) {
			return fmt.Errorf("%w (run `zc setup` first)", err)
		}
		return err
	}
	return nil
}

func loadSettings(cfgFile, root string) (*core.Settings, error) {
	if root == "" {
		return core.LoadSettings(cfgFile)
	}

	// --root moves the config file along with everything else
	defaults := core.DefaultSettings()
	defaults.Root = root
	if cfgFile == "" {
		cfgFile = defaults.ConfigPath()
	}
	settings, err := core.LoadSettings(cfgFile)
	if err != nil {
		return nil, err
	}
	settings.Root = root
	return settings, nil
}

func warnf(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "Warning: "+format+"\n", args...)
}
