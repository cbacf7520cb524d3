package cli

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/simkit/avrsim/internal/engine/scripted"
	"github.com/simkit/avrsim/internal/firmware"
	"github.com/simkit/avrsim/internal/mcu"
	"github.com/simkit/avrsim/internal/uart"
)

// selftestMessage is the byte sequence the scripted engine transmits.
// The trailing NUL stops the transmit program.
const selftestMessage = "uart bridge self-test ok\n"

// selftestBudget bounds the cycle loop; the message is far shorter.
const selftestBudget = 1000

// NewSelftestCommand creates the selftest command.
func NewSelftestCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "selftest",
		Short: "Exercise the harness end to end against the scripted engine",
		Long: `Run the harness end to end against the built-in scripted engine:
create a handle, flash a raw byte program, bridge the UART to stdout,
run to completion, and check lifecycle bookkeeping (power-on, reset
counting, terminal state). Exits 1 if any check fails.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return selftest(rootOpts, cmd)
		},
	}
	return cmd
}

func selftest(opts *RootOptions, cmd *cobra.Command) error {
	setupLogging(opts.Verbose)
	out := cmd.OutOrStdout()

	// The engine's own console echo lands in a buffer so the test can
	// prove the bridge suppressed it.
	var console bytes.Buffer
	eng := scripted.New("atmega328", scripted.WithConsole(&console))

	m := mcu.FromEngine(eng)
	defer m.Close()

	program := append([]byte(selftestMessage), 0)
	m.Flash(firmware.Raw(program))

	active := uart.Attach(m, uart.DefaultChannel, out)

	for i := 0; i < selftestBudget; i++ {
		if !m.RunCycle().IsRunning() {
			break
		}
	}

	m.Reset()
	status := m.Status()

	checks := []struct {
		name string
		ok   bool
	}{
		{"model name", m.Name() == "atmega328"},
		{"bridge active", active},
		{"terminal state", m.State() == mcu.Done},
		{"powered on", status.PoweredOn},
		{"reset counted", status.ResetCount == 1 && status.HasReset()},
		{"console echo suppressed", console.Len() == 0},
	}

	failed := 0
	for _, check := range checks {
		if !check.ok {
			failed++
			fmt.Fprintf(out, "self-test check failed: %s\n", check.name)
		}
	}
	if failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("self-test failed: %d check(s)", failed))
	}

	fmt.Fprintf(out, "self-test passed: model=%s state=%s resets=%d\n",
		m.Name(), m.State(), status.ResetCount)
	return nil
}
