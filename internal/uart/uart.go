// Package uart bridges a simulated serial channel's output to a host
// writer, suppressing the engine's built-in console echo so each byte
// appears exactly once.
package uart

import (
	"io"
	"log/slog"
	"os"

	"github.com/simkit/avrsim/internal/engine"
	"github.com/simkit/avrsim/internal/ioctl"
)

// DefaultChannel is the UART channel name byte used when nothing else is
// configured.
const DefaultChannel byte = '0'

// Handle is the subset of the MCU handle the bridge needs. Satisfied by
// *mcu.MCU.
type Handle interface {
	Engine() engine.Engine
}

// irqNames are the harness-owned bridge lines. "in" must come first: the
// engine indexes sub-lines positionally, so the ordering is part of the
// wire contract.
var irqNames = []string{"8<uart_bridge.in", "8>uart_bridge.out"}

// Attach connects the channel's simulated output to w and disables the
// engine's built-in stdio echo for that channel.
//
// Returns whether the bridge is active. If the engine cannot resolve the
// channel's interrupt lines, the bridge stays inert instead of failing
// the handle; callers that care can act on the returned flag.
func Attach(m Handle, channel byte, w io.Writer) bool {
	eng := m.Engine()

	pool := eng.AllocIRQ(irqNames)
	engine.RegisterNotify(pool[0], func(_ *engine.IRQ, value uint32) {
		// One byte per notify, on the engine's calling goroutine.
		// Keep it cheap: a single write, no buffering.
		w.Write([]byte{byte(value)})
	})

	// Clear the engine's own console echo so output is not doubled.
	var flags uint32
	eng.Ioctl(ioctl.UARTGetFlags(channel), &flags)
	flags &^= engine.UARTFlagStdio
	eng.Ioctl(ioctl.UARTSetFlags(channel), &flags)

	src := eng.IOIRQ(ioctl.UART(channel), engine.UARTIRQOutput)
	dst := eng.IOIRQ(ioctl.UART(channel), engine.UARTIRQInput)
	if src == nil || dst == nil {
		slog.Warn("uart bridge inactive: channel lines did not resolve",
			"channel", string(channel))
		return false
	}

	engine.ConnectIRQ(src, pool[0])
	return true
}

// AttachStdout connects the channel's simulated output to the process's
// standard output.
func AttachStdout(m Handle, channel byte) bool {
	return Attach(m, channel, os.Stdout)
}
