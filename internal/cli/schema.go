package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/cargo-plumbing/internal/engine"
	"github.com/danieljhkim/cargo-plumbing/internal/hash"
)

var (
	schemaWritePath string
	schemaCheckPath string
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print or verify the lockfile message schema",
	Long: `Print the JSON Schema of the lockfile-contents message stream.

--write stores the schema as a golden copy. --check compares a golden copy
with the schema this build produces and fails when they differ.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd)
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		switch {
		case schemaWritePath != "":
			result, err := s.eng.WriteSchema(ctx, &engine.WriteSchemaRequest{Path: schemaWritePath})
			if err != nil {
				return err
			}
			PrintSuccess(out, fmt.Sprintf("Wrote schema %s to %s", hash.Short(result.Fingerprint), schemaWritePath))

		case schemaCheckPath != "":
			result, err := s.eng.CheckSchema(ctx, &engine.CheckSchemaRequest{GoldenPath: schemaCheckPath})
			if err != nil {
				return err
			}
			PrintSuccess(out, fmt.Sprintf("Schema matches %s (%s)", schemaCheckPath, hash.Short(result.Fingerprint)))

		default:
			result, err := s.eng.Schema(ctx)
			if err != nil {
				return err
			}
			s.logger.Debug("rendered schema", "sha256", result.Fingerprint)
			if _, err := out.Write(result.Schema); err != nil {
				return fmt.Errorf("failed to write schema: %w", err)
			}
		}
		return nil
	},
}

func init() {
	schemaCmd.Flags().StringVar(&schemaWritePath, "write", "", "Write the schema to a golden file")
	schemaCmd.Flags().StringVar(&schemaCheckPath, "check", "", "Compare the schema with a golden file")
	schemaCmd.MarkFlagsMutuallyExclusive("write", "check")
}
