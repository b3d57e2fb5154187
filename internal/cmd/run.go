package cmd

import (
	"github.com/fonny-io/fonny/internal/config"
	"github.com/fonny-io/fonny/internal/tui"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Open the interactive terminal UI",
	Long: `Open a full-screen terminal session against the board.

Output from the interpreter streams into the viewport as it arrives.
Type commands in the input line; "exit" closes the session.

Examples:
  # Connect to the default serial port
  fonny run

  # Connect to a specific port at a slower rate
  fonny run -p /dev/ttyUSB0 -b 9600

  # Talk to a local gforth process instead of hardware
  fonny run --exec gforth`,
	RunE: runRun,
}

var (
	runExec     string
	runExecArgs []string
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runExec, "exec", "", "Run a local interpreter command instead of opening the serial port")
	runCmd.Flags().StringArrayVar(&runExecArgs, "exec-arg", nil, "Argument for the --exec command (repeatable)")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	execCommand := runExec
	execArgs := runExecArgs
	if execCommand == "" && cfg.Exec.Command != "" {
		execCommand = cfg.Exec.Command
		execArgs = cfg.Exec.Args
	}

	s, err := newSession(cfg, execCommand, execArgs)
	if err != nil {
		return err
	}
	defer s.close()

	return tui.Run(s.engine, s.endpoint, cfg.TUI.MaxOutputLines)
}
