package scripted

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simkit/avrsim/internal/engine"
	"github.com/simkit/avrsim/internal/ioctl"
)

func TestInit_DeliversStartupReset(t *testing.T) {
	eng := New("atmega328")

	resets := 0
	eng.SetResetHook(func() { resets++ })

	eng.Init()
	assert.Equal(t, 1, resets, "init delivers exactly one reset signal")

	eng.Reset()
	eng.Reset()
	assert.Equal(t, 3, resets)
}

func TestRun_IdlesWhenNothingFlashed(t *testing.T) {
	eng := New("atmega328")
	assert.Equal(t, codeRunning, eng.Run())
	assert.Equal(t, codeRunning, eng.Run())
}

func TestRun_TransmitsFlashBytes(t *testing.T) {
	eng := New("atmega328")
	eng.LoadRaw(append([]byte("hi"), 0), 0)

	var got []byte
	out := eng.IOIRQ(ioctl.UART('0'), engine.UARTIRQOutput)
	require.NotNil(t, out)
	engine.RegisterNotify(out, func(_ *engine.IRQ, value uint32) {
		got = append(got, byte(value))
	})

	assert.Equal(t, codeRunning, eng.Run())
	assert.Equal(t, codeRunning, eng.Run())
	assert.Equal(t, codeDone, eng.Run(), "NUL terminates the transmit program")
	assert.Equal(t, []byte("hi"), got)
}

func TestRun_ConsoleEchoFollowsStdioFlag(t *testing.T) {
	var console bytes.Buffer
	eng := New("atmega328", WithConsole(&console))
	eng.LoadRaw([]byte{'x', 'y', 0}, 0)

	// Echo is on by default.
	eng.Run()
	assert.Equal(t, "x", console.String())

	// Clearing the stdio flag silences the echo.
	var flags uint32
	require.Zero(t, eng.Ioctl(ioctl.UARTGetFlags('0'), &flags))
	flags &^= engine.UARTFlagStdio
	require.Zero(t, eng.Ioctl(ioctl.UARTSetFlags('0'), &flags))

	eng.Run()
	assert.Equal(t, "x", console.String())
}

func TestIoctl_UnsupportedCode(t *testing.T) {
	eng := New("atmega328")
	var val uint32
	assert.Negative(t, eng.Ioctl(ioctl.Pack('s', 'p', 'i', '0'), &val))
}

func TestIOIRQ_ResolvesUARTLinesOnly(t *testing.T) {
	eng := New("atmega328")

	assert.NotNil(t, eng.IOIRQ(ioctl.UART('0'), engine.UARTIRQInput))
	assert.NotNil(t, eng.IOIRQ(ioctl.UART('0'), engine.UARTIRQOutput))
	assert.Nil(t, eng.IOIRQ(ioctl.UART('1'), engine.UARTIRQOutput))
	assert.Nil(t, eng.IOIRQ(ioctl.UART('0'), 5))
}

func TestLoadFirmware_CopiesSegments(t *testing.T) {
	eng := New("atmega328")
	eng.LoadFirmware(&engine.Image{
		Segments: []engine.Segment{
			{Addr: 0, Data: []byte{1, 2}},
			{Addr: 0x100, Data: []byte{3}},
		},
	})

	assert.Equal(t, []byte{1, 2}, eng.Flash()[:2])
	assert.Equal(t, byte(3), eng.Flash()[0x100])
}

func TestLoadRaw_LastWriteWins(t *testing.T) {
	eng := New("atmega328")
	eng.LoadRaw([]byte{0xAA, 0xBB, 0xCC}, 0)
	eng.LoadRaw([]byte{0x11}, 0)

	assert.Equal(t, []byte{0x11, 0xBB, 0xCC}, eng.Flash()[:3])
}

func TestLoadRaw_SkipsSegmentPastFlash(t *testing.T) {
	eng := New("atmega328")
	eng.LoadRaw([]byte{'x', 0}, 0)

	// An eeprom-style segment at LMA 0x810000 must be dropped, not
	// panic, and must not extend the transmit program.
	assert.NotPanics(t, func() {
		eng.LoadFirmware(&engine.Image{Segments: []engine.Segment{
			{Addr: 0x810000, Data: []byte{0xAB, 0xCD}},
		}})
	})
	assert.Equal(t, codeRunning, eng.Run())
	assert.Equal(t, codeDone, eng.Run())
}

func TestLoadRaw_TruncatesStraddlingSegment(t *testing.T) {
	eng := New("atmega328")
	eng.LoadRaw([]byte{1, 2, 3, 4}, flashSize-2)

	assert.Equal(t, []byte{1, 2}, eng.Flash()[flashSize-2:])
}

func TestRun_ScriptOverridesStates(t *testing.T) {
	eng := New("atmega328", WithScript(codeSleeping, codeCrashed))
	assert.Equal(t, codeSleeping, eng.Run())
	assert.Equal(t, codeCrashed, eng.Run())
	assert.Equal(t, codeRunning, eng.Run(), "script exhaustion falls back to default")
}

func TestTerminate_StopsRuns(t *testing.T) {
	eng := New("atmega328")
	eng.Terminate()
	assert.Equal(t, codeStopped, eng.Run())
}

func TestReset_RestartsTransmitProgram(t *testing.T) {
	eng := New("atmega328")
	eng.SetResetHook(func() {})
	eng.LoadRaw([]byte{'a', 0}, 0)

	var got []byte
	engine.RegisterNotify(eng.IOIRQ(ioctl.UART('0'), engine.UARTIRQOutput),
		func(_ *engine.IRQ, value uint32) { got = append(got, byte(value)) })

	eng.Run()
	eng.Reset()
	eng.Run()
	assert.Equal(t, []byte("aa"), got)
}

func TestRegister_AnnouncesModels(t *testing.T) {
	Register()
	for _, model := range models {
		eng, err := engine.New(model)
		require.NoError(t, err)
		assert.Equal(t, model, eng.MMCU())
	}
}
