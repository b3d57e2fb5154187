package transport

import (
	"io"
	"os/exec"
	"strings"
	"sync"

	"github.com/creack/pty"

	"github.com/fonny-io/fonny/internal/errors"
	"github.com/fonny-io/fonny/internal/framing"
	"github.com/fonny-io/fonny/internal/logging"
)

// Exec runs a local line-oriented interpreter (gforth, for example) as
// a subprocess under a pseudo-terminal and exposes it through the Port
// contract. It lets the bridge be used without hardware attached.
type Exec struct {
	name    string
	args    []string
	handler CharacterHandler
	log     *logging.Logger

	mu   sync.Mutex
	cmd  *exec.Cmd
	tty  io.ReadWriteCloser
	done chan struct{}
	wg   sync.WaitGroup
}

// NewExec creates a pty transport for the given command line.
func NewExec(name string, args []string, handler CharacterHandler, log *logging.Logger) *Exec {
	if log == nil {
		log = logging.NopLogger()
	}
	return &Exec{
		name:    name,
		args:    args,
		handler: handler,
		log:     log.WithComponent("transport").With("command", name),
	}
}

// Connect starts the subprocess under a pty and begins reading its output.
func (e *Exec) Connect() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.cmd != nil {
		return errors.NewTransportError("connect", e.endpoint(), errors.ErrAlreadyConnected)
	}

	cmd := exec.Command(e.name, e.args...)
	tty, err := pty.Start(cmd)
	if err != nil {
		return errors.NewTransportError("connect", e.endpoint(), err)
	}

	e.cmd = cmd
	e.tty = tty
	e.done = make(chan struct{})
	e.wg.Add(1)
	go e.readLoop(tty, e.done)

	e.log.Info("subprocess started", "pid", cmd.Process.Pid)
	return nil
}

// Disconnect closes the pty and reaps the subprocess. Idempotent.
func (e *Exec) Disconnect() error {
	e.mu.Lock()
	if e.cmd == nil {
		e.mu.Unlock()
		return nil
	}
	cmd := e.cmd
	tty := e.tty
	done := e.done
	e.cmd = nil
	e.tty = nil
	e.done = nil
	e.mu.Unlock()

	close(done)
	err := tty.Close()
	e.wg.Wait()

	// Closing the pty usually ends the process; kill covers the rest.
	if cmd.Process != nil {
		_ = cmd.Process.Kill()
	}
	_ = cmd.Wait()

	e.log.Info("subprocess stopped")
	if err != nil {
		return errors.NewTransportError("disconnect", e.endpoint(), err)
	}
	return nil
}

// Send writes text to the subprocess's terminal.
func (e *Exec) Send(text string) error {
	e.mu.Lock()
	tty := e.tty
	e.mu.Unlock()

	if tty == nil {
		return errors.NewTransportError("send", e.endpoint(), errors.ErrNotConnected)
	}

	if _, err := tty.Write([]byte(text)); err != nil {
		return errors.NewTransportError("send", e.endpoint(), err)
	}
	return nil
}

// Connected reports whether the subprocess is running.
func (e *Exec) Connected() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cmd != nil
}

// endpoint returns the command line for error context.
func (e *Exec) endpoint() string {
	if len(e.args) == 0 {
		return e.name
	}
	return e.name + " " + strings.Join(e.args, " ")
}

// readLoop mirrors Serial.readLoop for pty output.
func (e *Exec) readLoop(tty io.Reader, done chan struct{}) {
	defer e.wg.Done()

	decoder := framing.NewDecoder()
	buf := make([]byte, 256)

	for {
		n, err := tty.Read(buf)
		if n > 0 && e.handler != nil {
			for _, r := range decoder.Decode(buf[:n]) {
				e.handler.HandleChar(r)
			}
		}
		if err != nil {
			select {
			case <-done:
				// Expected: Disconnect closed the pty.
			default:
				if err != io.EOF {
					e.log.Error("pty read failed", "error", err.Error())
				}
			}
			return
		}
	}
}
