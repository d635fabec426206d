package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/sbxcloud/internal/buildinfo"
	"github.com/dmitrijs2005/sbxcloud/internal/client/config"
	"github.com/dmitrijs2005/sbxcloud/internal/common"
)

// ExitFailure is the process status for any failed run.
const ExitFailure = -1

// Execute runs the CLI with args (without the program name) and returns the
// process exit status.
func Execute(ctx context.Context, args []string, streams Streams) int {
	cfg, err := config.LoadConfig(args)
	if err != nil {
		fmt.Fprintln(streams.Err, err)
		return ExitFailure
	}

	root := NewRootCommand(cfg, streams)
	// cobra falls back to os.Args when given nil.
	if args == nil {
		args = []string{}
	}
	root.SetArgs(args)

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(streams.Err, err)
		if errors.Is(err, common.ErrArgument) {
			printUsage(streams.Err)
			printExample(streams.Err)
		}
		return ExitFailure
	}
	return 0
}

// NewRootCommand builds the sbxcloud command tree around cfg.
func NewRootCommand(cfg *config.Config, streams Streams) *cobra.Command {
	root := &cobra.Command{
		Use:   "sbxcloud",
		Short: "Deploy a local folder to sbxcloud",
		// Errors are printed once by Execute.
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return fmt.Errorf("%w: missing command", common.ErrArgument)
			}
			return fmt.Errorf("%w: invalid option: %s", common.ErrArgument, args[0])
		},
	}
	root.SetIn(streams.In)
	root.SetOut(streams.Out)
	root.SetErr(streams.Err)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %v", common.ErrArgument, err)
	})

	root.AddCommand(newDeployCommand(cfg, streams))
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(*cobra.Command, []string) {
			buildinfo.PrintBuildData(streams.Out)
		},
	})
	return root
}

func newDeployCommand(cfg *config.Config, streams Streams) *cobra.Command {
	var da DeployArgs

	cmd := &cobra.Command{
		Use:     "deploy <local-path> <folder-key> <domain-id>",
		Short:   "Mirror a local folder into an sbxcloud folder",
		Example: "  " + exampleText,
		Args: func(_ *cobra.Command, args []string) error {
			_, err := parseDeployArgs(args)
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := parseDeployArgs(args)
			if err != nil {
				return err
			}
			parsed.Username, parsed.Password, parsed.Yes = da.Username, da.Password, da.Yes

			app := NewApp(cfg, streams)
			err = app.Deploy(cmd.Context(), parsed)
			fmt.Fprintln(streams.Out, "Deploy Finished.")
			return err
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&da.Username, "username", "", "sbxcloud username")
	flags.StringVar(&da.Password, "password", "", "sbxcloud password")
	flags.BoolVarP(&da.Yes, "yes", "y", false, "deploy without asking for confirmation")
	config.BindFlags(flags, cfg)

	return cmd
}
