package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/fonny-io/fonny/internal/config"
	"github.com/fonny-io/fonny/internal/errors"
	"github.com/fonny-io/fonny/internal/event"
	"github.com/spf13/cobra"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Run a plain line-based session on stdin/stdout",
	Long: `Run a session without the terminal UI. Lines read from stdin are
sent to the board and responses are printed as they arrive. Useful for
piping a file of commands, or when a full-screen UI is unwanted.

Type "exit" (or send EOF) to end the session.`,
	RunE: runRepl,
}

var (
	replExec     string
	replExecArgs []string
)

func init() {
	rootCmd.AddCommand(replCmd)

	replCmd.Flags().StringVar(&replExec, "exec", "", "Run a local interpreter command instead of opening the serial port")
	replCmd.Flags().StringArrayVar(&replExecArgs, "exec-arg", nil, "Argument for the --exec command (repeatable)")
}

// consoleSink prints the session's event stream to stdout.
func consoleSink() event.Sink {
	return event.SinkFunc(func(e event.Event) error {
		switch e.Kind {
		case event.KindSystemResponse:
			fmt.Println(e.Response())
		case event.KindSystemError:
			fmt.Fprintf(os.Stderr, "error: %s\n", e.Err())
		case event.KindConnectionOpened:
			fmt.Fprintln(os.Stderr, "connected")
		case event.KindConnectionClosed:
			fmt.Fprintln(os.Stderr, "disconnected")
		}
		return nil
	})
}

func runRepl(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	execCommand := replExec
	execArgs := replExecArgs
	if execCommand == "" && cfg.Exec.Command != "" {
		execCommand = cfg.Exec.Command
		execArgs = cfg.Exec.Args
	}

	s, err := newSession(cfg, execCommand, execArgs)
	if err != nil {
		return err
	}
	defer s.close()

	s.engine.AddSink(consoleSink())

	if !s.engine.Start() {
		return errors.New("connection failed")
	}
	defer s.engine.Stop()

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.EqualFold(strings.TrimSpace(line), "exit") {
			break
		}
		// Send failures are already printed by the console sink.
		_ = s.engine.SendCommand(line)
	}
	return scanner.Err()
}
