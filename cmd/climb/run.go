package climb

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/nextlevelbuilder/climb/pkg/climb"
)

var (
	runTimeoutMs int
	runAsTable   bool
)

func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run -- <cli> [args...]",
		Short: "Execute a CLI in the sandbox environment and print its output",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(cmd, args)
		},
	}
	cmd.Flags().IntVar(&runTimeoutMs, "timeout", 30000, "execution timeout in milliseconds")
	cmd.Flags().BoolVar(&runAsTable, "table", false, "parse stdout as a table and print the structured records")
	return cmd
}

func runRun(cmd *cobra.Command, args []string) error {
	name := args[0]
	path, err := exec.LookPath(name)
	if err != nil {
		path = name
	}

	res, err := climb.Run(cmd.Context(), path, args[1:], climb.RunOptions{TimeoutMs: runTimeoutMs})
	if err != nil {
		return fmt.Errorf("run %s: %w", name, err)
	}

	if res.TimedOut {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s timed out after %dms\n", name, runTimeoutMs)
	}

	if runAsTable {
		records := climb.ParseRecords(string(res.Stdout))
		printRecords(cmd, records)
	} else {
		fmt.Fprint(cmd.OutOrStdout(), string(res.Stdout))
	}

	if len(res.Stderr) > 0 {
		fmt.Fprint(cmd.ErrOrStderr(), string(res.Stderr))
	}
	if res.ExitCode != nil && *res.ExitCode != 0 {
		return fmt.Errorf("%s exited with code %d", name, *res.ExitCode)
	}
	return nil
}

func printRecords(cmd *cobra.Command, records climb.TableRecords) {
	w := cmd.OutOrStdout()
	var header strings.Builder
	for _, h := range records.Headers {
		fmt.Fprintf(&header, "%-20s", h)
	}
	fmt.Fprintln(w, headerStyle.Render(header.String()))
	for _, row := range records.Rows {
		var line strings.Builder
		for _, h := range records.Headers {
			v := row[h]
			if v == "" {
				v = "-"
			}
			fmt.Fprintf(&line, "%-20s", v)
		}
		fmt.Fprintln(w, dimStyle.Render(line.String()))
	}
}
