package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/simkit/avrsim/internal/engine"
)

// NewModelsCommand creates the models command.
func NewModelsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "models",
		Short:         "List the MCU models registered with the engine",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printModels(rootOpts, cmd)
		},
	}
	return cmd
}

// modelList is the models command's result payload.
type modelList []string

func (l modelList) String() string {
	return strings.Join(l, "\n")
}

func printModels(opts *RootOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	return formatter.Success(modelList(engine.Models()))
}
