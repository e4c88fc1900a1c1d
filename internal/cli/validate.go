package cli

import (
	"github.com/spf13/cobra"

	"github.com/mhalter/nodeloom/pkg/document"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <document.json>",
		Short: "Check a document's structural invariants",
		Long:  `Validate reads a document and checks every network level: wires must resolve to existing nodes, levels must be acyclic, every node needs exactly one metadata entry, and position metadata must obey the layer pairing rules.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			p := newProgress(logger)

			doc, err := document.ReadDocumentFile(args[0])
			if err != nil {
				return err
			}
			if err := doc.Validate(); err != nil {
				return err
			}
			p.done("Document is valid")
			return nil
		},
	}
}
