// Package httpadapter implements mtsearch's boundary-only network front
// end: a single accept loop reads one command line per connection,
// dispatches it through the same handler table the interactive loop
// uses, writes the response, and closes the connection. A shutdown flag
// short-circuits the accept loop between connections.
package httpadapter

import (
	"bufio"
	"net"
	"strings"
	"sync/atomic"

	"github.com/standardbeagle/mtsearch/internal/dispatcher"
)

// Adapter maps TCP connections onto dispatcher commands, one command
// per connection.
type Adapter struct {
	d        *dispatcher.Dispatcher
	listener net.Listener
	shutdown atomic.Bool
}

// New builds an Adapter that dispatches every accepted connection's
// first line through d.
func New(d *dispatcher.Dispatcher) *Adapter {
	return &Adapter{d: d}
}

// Serve opens a TCP listener on addr and runs the accept loop until
// Shutdown is called or the listener fails. It does not return until
// the loop exits.
func (a *Adapter) Serve(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	a.listener = ln
	return a.acceptLoop()
}

func (a *Adapter) acceptLoop() error {
	for {
		conn, err := a.listener.Accept()
		if err != nil {
			if a.shutdown.Load() {
				return nil
			}
			return err
		}
		a.handle(conn)
		if a.shutdown.Load() {
			return nil
		}
	}
}

// handle reads exactly one line from conn, dispatches it, writes the
// response, and closes the connection. One request per connection is
// the whole of this adapter's contract.
func (a *Adapter) handle(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return
	}
	response := a.d.HandleLine(strings.TrimRight(line, "\r\n"))
	_, _ = conn.Write([]byte(response))
}

// Shutdown flags the accept loop to stop and closes the listener,
// unblocking any in-progress Accept call.
func (a *Adapter) Shutdown() {
	a.shutdown.Store(true)
	if a.listener != nil {
		_ = a.listener.Close()
	}
}

// Addr returns the listener's bound address, or nil before Serve has
// been called.
func (a *Adapter) Addr() net.Addr {
	if a.listener == nil {
		return nil
	}
	return a.listener.Addr()
}
