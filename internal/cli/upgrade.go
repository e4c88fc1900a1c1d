package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mhalter/nodeloom/pkg/document"
)

func newUpgradeCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "upgrade <document.json>",
		Short: "Rewrite a legacy document in the current format",
		Long:  `Upgrade reads a document in any supported format version and writes it back in the current one. Reading already performs the upgrade; this command persists the result.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			p := newProgress(logger)

			doc, err := document.ReadDocumentFile(args[0])
			if err != nil {
				return err
			}
			if err := doc.Validate(); err != nil {
				return fmt.Errorf("upgraded document is invalid: %w", err)
			}

			target := output
			if target == "" {
				target = args[0]
			}
			if err := document.WriteDocumentFile(doc, target); err != nil {
				return err
			}
			p.done(fmt.Sprintf("Wrote %s at format version %d", target, document.FormatVersion))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write to a different file instead of in place")
	return cmd
}
