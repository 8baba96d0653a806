package main

import (
	"fmt"

	"github.com/spf13/cobra"

	domainmydata "github.com/jhoicas/mydata-invoicing/internal/domain/mydata"
	inframydata "github.com/jhoicas/mydata-invoicing/internal/infrastructure/mydata"
)

func newRenderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "render [order.json]",
		Short: "Imprime el InvoicesDoc XML de un pedido sin enviarlo",
		Example: `  mydata render order.json
  cat order.json | mydata render -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := loadRuntime(cmd)
			if err != nil {
				return err
			}
			order, err := readOrder(cmd, args[0])
			if err != nil {
				return err
			}
			mapper, err := rt.mapper()
			if err != nil {
				return err
			}
			inv, err := mapper.Map(order)
			if err != nil {
				return err
			}
			if err := domainmydata.ValidateInvoice(inv); err != nil {
				return err
			}
			payload, err := inframydata.NewXMLBuilderService().Build(inv)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), string(payload))
			return err
		},
	}
}
