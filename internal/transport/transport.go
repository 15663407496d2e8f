// Package transport multiplexes UDP I/O across the router's configured
// input ports. It defines a small Transport interface with two
// implementations: UDPTransport, which binds real loopback sockets, and
// MemoryTransport, an in-memory channel substrate for tests — the
// "replaceable by an in-memory channel substrate" collaborator named in
// the protocol specification, generalized from the teacher's single
// input/output channel pair to one channel per listening port.
package transport

import "fmt"

// Datagram is one received UDP payload, tagged with the local port it
// arrived on (so the scheduler can look up which RouterContext listener
// produced it) and the peer address it came from.
type Datagram struct {
	LocalPort  int
	FromPort   int
	Payload    []byte
}

// Transport is the I/O surface the scheduler depends on. It is
// deliberately narrow: bind at construction time, then just poll and
// send.
type Transport interface {
	// Poll drains at most one ready datagram per listening port and
	// returns them. It never blocks.
	Poll() []Datagram

	// Send transmits payload to the given neighbor port on loopback.
	// Failures are reported but never fatal to the caller.
	Send(port int, payload []byte) error

	// Close releases all sockets.
	Close() error
}

// PortBindFailure reports that binding a listening socket failed and is
// fatal at startup.
type PortBindFailure struct {
	Port int
	Err  error
}

func (e *PortBindFailure) Error() string {
	return fmt.Sprintf("transport: bind port %d: %v", e.Port, e.Err)
}

func (e *PortBindFailure) Unwrap() error { return e.Err }
