package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/cargo-plumbing/internal/engine"
)

var (
	locateWorkspace    bool
	locateManifestPath string
	locateFormat       = newEnumValue(string(engine.MessageFormatJSON), enumNames(engine.MessageFormats()))
)

var locateProjectCmd = &cobra.Command{
	Use:   "locate-project",
	Short: "Print the location of the project manifest",
	Long: `Print the path of the manifest of the current package.

The search starts in the current directory, or at --manifest-path, and walks
up to the nearest Cargo.toml. With --workspace it continues to the nearest
manifest that declares [workspace] and prints that instead.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd)
		if err != nil {
			return err
		}

		format, err := engine.ParseMessageFormat(flagOr(cmd, "message-format", s.cfg.MessageFormat))
		if err != nil {
			return err
		}

		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get current directory: %w", err)
		}

		manifestPath := locateManifestPath
		if manifestPath != "" && !filepath.IsAbs(manifestPath) {
			manifestPath = filepath.Join(cwd, manifestPath)
		}

		req := &engine.LocateProjectRequest{
			CWD:          cwd,
			ManifestPath: manifestPath,
			Workspace:    locateWorkspace,
		}

		result, err := s.eng.LocateProject(cmd.Context(), req)
		if err != nil {
			return err
		}
		return engine.WriteLocation(cmd.OutOrStdout(), result, format)
	},
}

func init() {
	locateProjectCmd.Flags().BoolVar(&locateWorkspace, "workspace", false, "Locate the workspace root manifest instead of the package manifest")
	locateProjectCmd.Flags().StringVar(&locateManifestPath, "manifest-path", "", "Path to Cargo.toml or a directory to search from")
	addEnumFlag(locateProjectCmd, locateFormat, "message-format", "Output representation")
}
