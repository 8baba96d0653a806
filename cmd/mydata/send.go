package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	domainmydata "github.com/jhoicas/mydata-invoicing/internal/domain/mydata"
	inframydata "github.com/jhoicas/mydata-invoicing/internal/infrastructure/mydata"
)

// sendOutput resultado impreso por "mydata send".
type sendOutput struct {
	UID          string                       `json:"uid"`
	Status       string                       `json:"status"`
	Mock         bool                         `json:"mock"`
	Mark         string                       `json:"mark,omitempty"`
	AuthorityUID string                       `json:"authority_uid,omitempty"`
	QRURL        string                       `json:"qr_url,omitempty"`
	HTTPStatus   int                          `json:"http_status,omitempty"`
	Error        string                       `json:"error,omitempty"`
	Errors       []inframydata.AuthorityError `json:"errors,omitempty"`
}

func newSendCmd() *cobra.Command {
	var timeout time.Duration
	cmd := &cobra.Command{
		Use:   "send [order.json]",
		Short: "Convierte un pedido y lo transmite a myDATA",
		Long: `Convierte el pedido, valida el documento y lo envía a SendInvoices.
El resultado (MARK, uid, errores de AADE) se imprime como JSON. No se
registra en la base de auditoría.`,
		Example: `  MYDATA_USER_ID=... MYDATA_SUBSCRIPTION_KEY=... mydata send order.json`,
		Args:    cobra.ExactArgs(1),
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

			client := inframydata.NewClient(inframydata.ClientConfigFrom(rt.cfg.MyData), nil, nil, rt.log.Component("mydata"))
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			result, err := client.Transmit(ctx, inv)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), sendOutput{
				UID:          result.UID,
				Status:       result.Status(),
				Mock:         result.Mock,
				Mark:         result.Mark,
				AuthorityUID: result.AuthorityUID,
				QRURL:        result.QRURL,
				HTTPStatus:   result.StatusCode,
				Error:        result.Error,
				Errors:       result.Errors,
			})
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "tiempo máximo de la llamada a AADE")
	return cmd
}
