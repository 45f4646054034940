package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/kingrea/iconforge/internal/artifact"
	"github.com/kingrea/iconforge/internal/component"
	"github.com/kingrea/iconforge/internal/icon"
)

// ExecuteBuild runs build-icons with the process arguments.
func ExecuteBuild() int {
	ctx, stop := signalContext()
	defer stop()
	return execute(ctx, NewBuildCommand(os.Stdout, os.Stderr), os.Args[1:], os.Stderr)
}

// NewBuildCommand returns the build-icons command.
func NewBuildCommand(stdout, stderr io.Writer) *cobra.Command {
	var flags projectFlags
	cmd := &cobra.Command{
		Use:           "build-icons <react|vue>",
		Short:         "Generate icon components from the SVG assets",
		Args:          cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs:     []string{string(component.React), string(component.Vue)},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			fw, err := component.ParseFramework(args[0])
			if err != nil {
				return err
			}
			cfg, err := flags.load()
			if err != nil {
				return err
			}
			log, err := openLog(cfg, "build-icons", stderr)
			if err != nil {
				return err
			}

			assets, err := icon.Load(cmd.Context(), cfg.AssetsDir())
			if err != nil {
				log.Error("%v", err)
				return loggedError{err}
			}
			if len(assets) == 0 {
				log.Warn("no SVG files in %s", cfg.AssetsDir())
			}
			builder := component.NewBuilder(artifact.NewStore(cfg.OutputDir(string(fw))), log)
			summary, err := builder.Build(cmd.Context(), assets, fw)
			if err != nil {
				log.Error("%v", err)
				return loggedError{err}
			}
			fmt.Fprintf(stdout, "%s: %d components, %d files\n", summary.Framework, summary.Components, summary.Files)
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}
