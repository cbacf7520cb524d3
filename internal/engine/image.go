package engine

// Segment is one contiguous run of program data.
type Segment struct {
	Addr uint32
	Data []byte
}

// Image is a parsed executable image ready for LoadFirmware. It is a
// plain value: independent of any engine instance, stateless once built,
// and loadable into any number of engines.
type Image struct {
	Entry    uint32
	Segments []Segment
}
