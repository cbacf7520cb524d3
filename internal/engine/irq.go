package engine

// Positional UART interrupt lines, as indexed by IOIRQ.
const (
	UARTIRQInput  = 0
	UARTIRQOutput = 1
)

// UARTFlagStdio is the UART flag bit enabling the engine's built-in
// console echo. Read and written through Ioctl with the UART get/set-flags
// device-control codes.
const UARTFlagStdio uint32 = 1 << 1

// NotifyFunc is an interrupt-line callback. It receives the raised line
// and the raised value (for UART lines, one byte per call). It executes
// nested inside the engine entry point that raised the line and must not
// block.
type NotifyFunc func(irq *IRQ, value uint32)

// IRQ is a single named interrupt line. Lines form a directed graph:
// raising a line invokes its notify callbacks, then propagates the value
// to every connected downstream line.
type IRQ struct {
	name     string
	notify   []NotifyFunc
	outgoing []*IRQ
}

// NewIRQPool allocates one line per name. Engine implementations use this
// to back AllocIRQ and their own peripheral lines.
func NewIRQPool(names []string) []*IRQ {
	pool := make([]*IRQ, len(names))
	for i, name := range names {
		pool[i] = &IRQ{name: name}
	}
	return pool
}

// Name returns the line's name.
func (q *IRQ) Name() string { return q.name }

// Raise delivers a value on the line: notify callbacks first, then
// propagation to connected lines. Synchronous, depth-first.
func (q *IRQ) Raise(value uint32) {
	for _, fn := range q.notify {
		fn(q, value)
	}
	for _, dst := range q.outgoing {
		dst.Raise(value)
	}
}

// RegisterNotify attaches a callback to an interrupt line.
// A nil line is ignored.
func RegisterNotify(q *IRQ, fn NotifyFunc) {
	if q == nil || fn == nil {
		return
	}
	q.notify = append(q.notify, fn)
}

// ConnectIRQ routes values raised on src to dst.
// Nil lines are ignored.
func ConnectIRQ(src, dst *IRQ) {
	if src == nil || dst == nil {
		return
	}
	src.outgoing = append(src.outgoing, dst)
}
