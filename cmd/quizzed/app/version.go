package app

import (
	"github.com/spf13/cobra"

	"github.com/David256/quizzed-backend/internal/render"
	"github.com/David256/quizzed-backend/internal/versions"
)

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := formatFlag(cmd)
			if err != nil {
				return err
			}
			return render.Version(cmd.OutOrStdout(), format, versions.GetVersionInfo())
		},
	}

	cmd.Flags().String("format", string(render.FormatTable), "Output format (json, yaml, table)")
	return cmd
}
