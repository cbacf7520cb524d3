package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/simkit/avrsim/internal/ioctl"
)

// NewIoctlCommand creates the ioctl command.
func NewIoctlCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ioctl <tags>",
		Short: "Print the device-control code for a 4-character tag",
		Long: `Print the 32-bit device-control code packed from a 4-character
ASCII tag, e.g. the UART flag requests:

  avrsim ioctl uar0
  avrsim ioctl uag0
  avrsim ioctl uas0`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printIoctl(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

// ioctlResult is the ioctl command's result payload.
type ioctlResult struct {
	Tags string `json:"tags"`
	Code string `json:"code"`
}

func (r ioctlResult) String() string {
	return r.Code
}

func printIoctl(opts *RootOptions, tags string, cmd *cobra.Command) error {
	if len(tags) != 4 {
		return NewExitError(ExitCommandError, fmt.Sprintf("tag must be exactly 4 characters, got %q", tags))
	}
	for i := 0; i < len(tags); i++ {
		if tags[i] > 0x7F {
			return NewExitError(ExitCommandError, fmt.Sprintf("tag byte %d is not ASCII", i))
		}
	}

	code := ioctl.Pack(tags[0], tags[1], tags[2], tags[3])
	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	return formatter.Success(ioctlResult{
		Tags: tags,
		Code: fmt.Sprintf("0x%08x", code),
	})
}
