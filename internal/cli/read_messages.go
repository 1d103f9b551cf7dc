package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/cargo-plumbing/internal/engine"
	"github.com/danieljhkim/cargo-plumbing/internal/protocol"
)

var (
	readSummary       bool
	readFraming       = newEnumValue(string(protocol.FramingJSON), enumNames(protocol.Framings()))
	readOutputFraming = newEnumValue(string(protocol.FramingLines), enumNames(protocol.Framings()))
	readUnknown       = newEnumValue(string(protocol.RejectUnknown),
		[]string{string(protocol.RejectUnknown), string(protocol.SkipUnknown)})
)

var readMessagesCmd = &cobra.Command{
	Use:   "read-messages [file|-]",
	Short: "Decode a lockfile message stream",
	Long: `Decode a stream of lockfile-contents messages from a file or stdin.

Every message is validated and written back out normalised, one record per
line by default. With --summary only a per-reason count is printed. Decoding
stops at the first malformed message.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd)
		if err != nil {
			return err
		}

		framing, err := protocol.ParseFraming(flagOr(cmd, "framing", s.cfg.Framing))
		if err != nil {
			return err
		}
		unknown, err := protocol.ParseUnknownReasonPolicy(flagOr(cmd, "unknown", s.cfg.UnknownReasons))
		if err != nil {
			return err
		}
		outputFraming, err := protocol.ParseFraming(readOutputFraming.String())
		if err != nil {
			return err
		}

		input := cmd.InOrStdin()
		if len(args) == 1 && args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open message stream: %w", err)
			}
			defer func() {
				_ = f.Close()
			}()
			input = f
		}

		req := &engine.ReadMessagesRequest{
			Input:         input,
			Framing:       framing,
			OutputFraming: outputFraming,
			Unknown:       unknown,
		}

		var out *bufio.Writer
		if !readSummary {
			out = bufio.NewWriter(cmd.OutOrStdout())
			req.Output = out
		}

		result, err := s.eng.ReadMessages(cmd.Context(), req)
		if out != nil {
			// Records decoded before a failure are still delivered.
			if flushErr := out.Flush(); flushErr != nil && err == nil {
				err = fmt.Errorf("failed to write messages: %w", flushErr)
			}
		}
		if err != nil {
			return err
		}

		if result.Skipped > 0 {
			PrintWarning(cmd.ErrOrStderr(), fmt.Sprintf("skipped %s with unknown reasons",
				PrintCount(result.Skipped, "message", "messages")))
		}
		if readSummary {
			printSummary(cmd.OutOrStdout(), result)
		}
		return nil
	},
}

// printSummary prints the per-reason message counts.
func printSummary(w io.Writer, result *engine.ReadMessagesResult) {
	rows := make([][]string, 0, len(protocol.Reasons()))
	for _, reason := range protocol.Reasons() {
		rows = append(rows, []string{string(reason), strconv.Itoa(result.Counts[reason])})
	}
	PrintTable(w, []string{"REASON", "COUNT"}, rows)
	fmt.Fprintln(w)
	PrintLabelValue(w, "Total", PrintCount(result.Total, "message", "messages"))
	if result.Skipped > 0 {
		PrintLabelValue(w, "Skipped", strconv.Itoa(result.Skipped))
	}
}

func init() {
	readMessagesCmd.Flags().BoolVar(&readSummary, "summary", false, "Print per-reason counts instead of the messages")
	addEnumFlag(readMessagesCmd, readFraming, "framing", "Input stream framing")
	addEnumFlag(readMessagesCmd, readOutputFraming, "output-framing", "Output stream framing")
	addEnumFlag(readMessagesCmd, readUnknown, "unknown", "Policy for messages with an unknown reason")
}
