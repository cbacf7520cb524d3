// Package ioctl builds 32-bit device-control codes from 4 ASCII tag
// bytes. Pure functions, no state.
package ioctl

// Pack combines four tag bytes into a device-control code,
// byte0<<24 | byte1<<16 | byte2<<8 | byte3.
func Pack(a, b, c, d byte) uint32 {
	return uint32(a)<<24 | uint32(b)<<16 | uint32(c)<<8 | uint32(d)
}

// UART returns the device-control code identifying the UART channel with
// the given name byte.
func UART(name byte) uint32 {
	return Pack('u', 'a', 'r', name)
}

// UARTGetFlags returns the code requesting a UART channel's flags.
func UARTGetFlags(name byte) uint32 {
	return Pack('u', 'a', 'g', name)
}

// UARTSetFlags returns the code setting a UART channel's flags.
func UARTSetFlags(name byte) uint32 {
	return Pack('u', 'a', 's', name)
}
