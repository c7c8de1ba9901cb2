package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/landsplit/internal/core"
)

func newSplitCommand() *cobra.Command {
	var out outputOptions

	cmd := &cobra.Command{
		Use:   "split <file>",
		Short: "Split a local .xlsx or .csv file",
		Long: `Split reads the first worksheet of an .xlsx workbook (or a .csv file) and
prints one JSON array per region bucket. Use "-" to read from stdin.`,
		Example: `  # Split a workbook
  landsplit split survey.xlsx

  # Only the Karnataka rows, indented
  landsplit split survey.xlsx --bucket karnataka --pretty

  # From stdin
  cat survey.csv | landsplit split - --filename survey.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename, _ := cmd.Flags().GetString("filename")
			return runSplit(cmd, args[0], filename, out)
		},
	}

	cmd.Flags().StringVar(&out.bucket, "bucket", "", "print only this bucket")
	cmd.Flags().BoolVar(&out.pretty, "pretty", false, "indent JSON output")
	cmd.Flags().String("filename", "", "file name hint when reading stdin")

	return cmd
}

func runSplit(cmd *cobra.Command, path, filename string, out outputOptions) error {
	a, err := appFrom(cmd)
	if err != nil {
		return err
	}

	var data []byte
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
		if filename == "" {
			filename = path
		}
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if int64(len(data)) > a.cfg.Upload.MaxFileSize {
		return fmt.Errorf("file too large: %d bytes exceeds %d", len(data), a.cfg.Upload.MaxFileSize)
	}

	res, err := a.service.ProcessUpload(cmd.Context(), core.Upload{
		Filename: filename,
		Data:     data,
	})
	if err != nil {
		return err
	}
	return writeResult(cmd.OutOrStdout(), res, out)
}
