package transport

import (
	"net"
	"time"
)

const maxDatagramSize = 1024

// UDPTransport binds one *net.UDPConn per configured input port on
// 127.0.0.1. All sockets are used for non-blocking receiving; sending
// goes through the "send socket" named in the component design, which is
// simply whichever input socket is listed first. Non-blocking receive is
// implemented with the per-read deadline trick: setting a deadline of
// "now" before each read makes it return immediately, with a timeout
// error, if no datagram is already queued. This is the idiomatic Go
// stand-in for a zero-timeout select/poll over the socket set, without
// reaching for a raw syscall dependency the rest of this codebase's
// lineage never needed either.
type UDPTransport struct {
	conns []*net.UDPConn
}

// NewUDPTransport binds a socket per port. Binding is fatal: the first
// failure is returned wrapped in PortBindFailure and every socket opened
// so far is closed.
func NewUDPTransport(ports []int) (*UDPTransport, error) {
	t := &UDPTransport{}
	for _, port := range ports {
		addr := &net.UDPAddr{IP: net.ParseIP("127.0.0.1"), Port: port}
		conn, err := net.ListenUDP("udp", addr)
		if err != nil {
			_ = t.Close()
			return nil, &PortBindFailure{Port: port, Err: err}
		}
		t.conns = append(t.conns, conn)
	}
	return t, nil
}

func (t *UDPTransport) Poll() []Datagram {
	var out []Datagram
	buf := make([]byte, maxDatagramSize)

	for _, conn := range t.conns {
		if err := conn.SetReadDeadline(time.Now()); err != nil {
			continue
		}
		n, from, err := conn.ReadFromUDP(buf)
		if err != nil {
			continue
		}

		payload := make([]byte, n)
		copy(payload, buf[:n])
		out = append(out, Datagram{
			LocalPort: conn.LocalAddr().(*net.UDPAddr).Port,
			FromPort:  from.Port,
			Payload:   payload,
		})
	}

	return out
}

func (t *UDPTransport) Send(port int, payload []byte) error {
	if len(t.conns) == 0 {
		return nil
	}
	dst := &net.UDPAddr{IP: net.ParseIP("127.0.0.1"), Port: port}
	_, err := t.conns[0].WriteToUDP(payload, dst)
	return err
}

func (t *UDPTransport) Close() error {
	var firstErr error
	for _, conn := range t.conns {
		if err := conn.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
