package main

import (
	"github.com/spf13/cobra"

	"github.com/jhoicas/mydata-invoicing/internal/application/dto"
	inframydata "github.com/jhoicas/mydata-invoicing/internal/infrastructure/mydata"
)

func newParseCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "parse [invoice.xml]",
		Short:   "Relee un InvoicesDoc XML y lo imprime como JSON",
		Example: `  mydata parse invoice.xml`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			inv, err := inframydata.NewParserService().Parse(raw)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), dto.ToInvoiceDocumentResponse(inv))
		},
	}
}
