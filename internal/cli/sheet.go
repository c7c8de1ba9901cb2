package cli

import (
	"github.com/spf13/cobra"
)

func newSheetCommand() *cobra.Command {
	var out outputOptions

	cmd := &cobra.Command{
		Use:   "sheet <url>",
		Short: "Split a Google Sheets spreadsheet",
		Long: `Sheet fetches a spreadsheet with the service account in
SERVICE_ACCOUNT_FILE and prints one JSON array per region bucket. The sheet
must be shared with the service account.`,
		Example: `  landsplit sheet "https://docs.google.com/spreadsheets/d/<id>/edit" --pretty`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := appFrom(cmd)
			if err != nil {
				return err
			}
			res, err := a.service.ReadSheet(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeResult(cmd.OutOrStdout(), res, out)
		},
	}

	cmd.Flags().StringVar(&out.bucket, "bucket", "", "print only this bucket")
	cmd.Flags().BoolVar(&out.pretty, "pretty", false, "indent JSON output")

	return cmd
}
