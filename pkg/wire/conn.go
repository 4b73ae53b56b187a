package wire

import (
	"encoding/json"
	"errors"
	"net"
	"time"

	"github.com/sirupsen/logrus"
)

const maxDatagram = 65535

// ErrNoReply is returned by Request when no reply arrives before the
// timeout. Callers treat it as "no answer", not as a fatal condition.
var ErrNoReply = errors.New("no reply received")

// Handler processes one inbound datagram
type Handler func(env *Envelope)

// Conn wraps a UDP socket. A Conn is used either as a request/response
// client (Request) or as a server (Serve), never both at once: Request
// reads the socket directly, so it must not share a socket with a Serve
// loop. Peers hold one Conn per role, mirroring the two-port identity.
type Conn struct {
	udp *net.UDPConn
}

// Listen binds a UDP socket on the given port. Port 0 picks an ephemeral
// port. A bind failure is a resource fault; callers treat it as fatal.
func Listen(port int) (*Conn, error) {
	udp, err := net.ListenUDP("udp", &net.UDPAddr{Port: port})
	if err != nil {
		return nil, err
	}

	return &Conn{udp: udp}, nil
}

// LocalPort returns the port the socket is bound to
func (c *Conn) LocalPort() int {
	return c.udp.LocalAddr().(*net.UDPAddr).Port
}

// Close closes the socket and terminates any Serve loop
func (c *Conn) Close() error {
	return c.udp.Close()
}

// Send transmits a single fire-and-forget datagram
func (c *Conn) Send(addr string, cmd Command, payload interface{}) error {
	raddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return err
	}

	return c.SendTo(raddr, cmd, payload)
}

// SendTo transmits a single fire-and-forget datagram to a resolved address
func (c *Conn) SendTo(addr *net.UDPAddr, cmd Command, payload interface{}) error {
	data, err := Marshal(cmd, payload)
	if err != nil {
		return err
	}

	_, err = c.udp.WriteToUDP(data, addr)
	return err
}

// Reply sends a bare JSON object (no command key) back to a requester
func (c *Conn) Reply(addr *net.UDPAddr, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	_, err = c.udp.WriteToUDP(data, addr)
	return err
}

// Request sends a command and blocks for a single reply. The reply's raw
// bytes are returned for the caller to decode. ErrNoReply is returned if
// the timeout elapses first.
func (c *Conn) Request(addr string, cmd Command, payload interface{}, timeout time.Duration) ([]byte, error) {
	raddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, err
	}

	data, err := Marshal(cmd, payload)
	if err != nil {
		return nil, err
	}

	if _, err := c.udp.WriteToUDP(data, raddr); err != nil {
		return nil, err
	}

	if err := c.udp.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		return nil, err
	}
	defer c.udp.SetReadDeadline(time.Time{}) // nolint:errcheck

	buf := make([]byte, maxDatagram)
	n, _, err := c.udp.ReadFromUDP(buf)
	if err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return nil, ErrNoReply
		}

		return nil, err
	}

	return buf[:n], nil
}

// Serve receives datagrams until the Conn is closed, dispatching each to
// the handler registered for its command. Malformed datagrams and unknown
// commands are dropped with a log; they never terminate the loop. If
// fallback is non-nil it receives the unknown-command envelopes instead.
func (c *Conn) Serve(handlers map[Command]Handler, fallback Handler) {
	log := logrus.WithField("local", c.udp.LocalAddr().String())

	buf := make([]byte, maxDatagram)
	for {
		n, addr, err := c.udp.ReadFromUDP(buf)
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}

			log.WithError(err).Warn("could not receive datagram")
			continue
		}

		env, err := ParseEnvelope(buf[:n], addr)
		if err != nil {
			log.WithError(err).WithField("from", addr.String()).Warn("dropping malformed datagram")
			continue
		}

		handler, ok := handlers[env.Command]
		if !ok {
			if fallback != nil {
				fallback(env)
				continue
			}

			log.WithFields(logrus.Fields{
				"command": env.Command,
				"from":    addr.String(),
			}).Warn("dropping unknown command")
			continue
		}

		handler(env)
	}
}
