package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/simkit/avrsim/internal/config"
	"github.com/simkit/avrsim/internal/engine"
	"github.com/simkit/avrsim/internal/firmware"
	"github.com/simkit/avrsim/internal/mcu"
	"github.com/simkit/avrsim/internal/trace"
	"github.com/simkit/avrsim/internal/uart"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Cycles  int    // overrides the board file's cycle budget when > 0
	TraceDB string // overrides the board file's trace database path
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <board.yaml>",
		Short: "Run a board file against a registered engine model",
		Long: `Run a simulation described by a YAML board file.

The board file names the MCU model, the firmware to flash (an ELF image
or raw hex opcodes), the cycle budget, and the UART bridge settings.
Cycles execute until the budget is exhausted or the simulation reaches a
terminal state. With a trace database configured, every cycle state and
every UART byte is recorded under a fresh run ID.

Example:
  avrsim run board.yaml
  avrsim run --cycles 100 --trace-db ./trace.db board.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBoard(opts, args[0], cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Cycles, "cycles", 0, "cycle budget (overrides board file)")
	cmd.Flags().StringVar(&opts.TraceDB, "trace-db", "", "SQLite trace database (overrides board file)")

	return cmd
}

// Bridge outcomes reported in the run summary. "inactive" is reserved
// for the degraded case where the engine could not resolve the channel
// lines; a bridge the board file turned off reports "disabled".
const (
	bridgeActive   = "active"
	bridgeInactive = "inactive"
	bridgeDisabled = "disabled"
)

// runSummary is the run command's result payload.
type runSummary struct {
	Model      string `json:"model"`
	Frequency  uint32 `json:"frequency"`
	Cycles     int    `json:"cycles"`
	State      string `json:"state"`
	PoweredOn  bool   `json:"powered_on"`
	ResetCount uint64 `json:"reset_count"`
	Bridge     string `json:"uart_bridge"`
	RunID      string `json:"run_id,omitempty"`
}

func (s runSummary) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "model:         %s\n", s.Model)
	fmt.Fprintf(&b, "frequency:     %d Hz\n", s.Frequency)
	fmt.Fprintf(&b, "cycles:        %d\n", s.Cycles)
	fmt.Fprintf(&b, "state:         %s\n", s.State)
	fmt.Fprintf(&b, "powered on:    %t\n", s.PoweredOn)
	fmt.Fprintf(&b, "resets:        %d\n", s.ResetCount)
	fmt.Fprintf(&b, "uart bridge:   %s", s.Bridge)
	if s.RunID != "" {
		fmt.Fprintf(&b, "\nrun id:        %s", s.RunID)
	}
	return b.String()
}

func runBoard(opts *RunOptions, path string, cmd *cobra.Command) error {
	setupLogging(opts.Verbose)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load board file", err)
	}
	board := &cfg.Board
	if opts.Cycles > 0 {
		board.Cycles = opts.Cycles
	}
	if opts.TraceDB != "" {
		board.TraceDB = opts.TraceDB
	}

	m, err := mcu.New(board.Model)
	if err != nil {
		if errors.Is(err, engine.ErrUnknownModel) {
			return WrapExitError(ExitCommandError, "unknown model", err)
		}
		return WrapExitError(ExitCommandError, "failed to create mcu", err)
	}
	defer m.Close()

	if board.Frequency > 0 {
		m.SetFrequency(board.Frequency)
	}

	if err := flashBoard(m, board); err != nil {
		return WrapExitError(ExitCommandError, "failed to flash firmware", err)
	}

	// Optional trace recording.
	var recorder *trace.Recorder
	if board.TraceDB != "" {
		store, err := trace.Open(board.TraceDB)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open trace database", err)
		}
		defer func() {
			if closeErr := store.Close(); closeErr != nil {
				slog.Error("error closing trace database", "error", closeErr)
			}
		}()
		recorder, err = trace.NewRecorder(ctx, store, board.Model, m.Frequency())
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to begin trace run", err)
		}
		slog.Info("trace recording", "db", board.TraceDB, "run_id", recorder.RunID())
	}

	bridge := bridgeDisabled
	if board.BridgeEnabled() {
		var w io.Writer = cmd.OutOrStdout()
		if recorder != nil {
			w = &recordingWriter{ctx: ctx, rec: recorder, next: w}
		}
		if uart.Attach(m, board.ChannelByte(), w) {
			bridge = bridgeActive
		} else {
			bridge = bridgeInactive
		}
	}

	slog.Info("simulation starting",
		"model", m.Name(),
		"frequency", m.Frequency(),
		"cycles", board.Cycles,
	)

	executed := 0
	for i := 0; i < board.Cycles; i++ {
		state := m.RunCycle()
		executed++
		if recorder != nil {
			if err := recorder.Cycle(ctx, state.String()); err != nil {
				return WrapExitError(ExitCommandError, "failed to record cycle", err)
			}
		}
		if !state.IsRunning() {
			break
		}
	}

	summary := runSummary{
		Model:      m.Name(),
		Frequency:  m.Frequency(),
		Cycles:     executed,
		State:      m.State().String(),
		PoweredOn:  m.Status().PoweredOn,
		ResetCount: m.Status().ResetCount,
		Bridge:     bridge,
	}
	if recorder != nil {
		summary.RunID = recorder.RunID()
	}

	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	if err := formatter.Success(summary); err != nil {
		return WrapExitError(ExitCommandError, "failed to write summary", err)
	}

	if m.State() == mcu.Crashed {
		return NewExitError(ExitFailure, "simulation crashed")
	}
	return nil
}

// flashBoard loads the board file's firmware, if any, into the handle.
func flashBoard(m *mcu.MCU, board *config.BoardConfig) error {
	switch {
	case board.Firmware.ELF != "":
		img, err := firmware.ReadFile(board.Firmware.ELF)
		if err != nil {
			return err
		}
		m.Flash(img)
	case board.Firmware.Raw != "":
		m.Flash(firmware.Raw(board.RawBytes()))
	}
	return nil
}

// recordingWriter tees UART bytes into the trace recorder on their way
// to the output writer.
type recordingWriter struct {
	ctx  context.Context
	rec  *trace.Recorder
	next io.Writer
}

func (w *recordingWriter) Write(p []byte) (int, error) {
	for _, b := range p {
		if err := w.rec.UARTByte(w.ctx, b); err != nil {
			slog.Warn("uart byte not recorded", "error", err)
		}
	}
	return w.next.Write(p)
}
