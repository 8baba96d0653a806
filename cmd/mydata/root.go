package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jhoicas/mydata-invoicing/internal/application/dto"
	"github.com/jhoicas/mydata-invoicing/internal/application/invoicing"
	"github.com/jhoicas/mydata-invoicing/internal/domain/entity"
	"github.com/jhoicas/mydata-invoicing/internal/validator"
	"github.com/jhoicas/mydata-invoicing/pkg/config"
	"github.com/jhoicas/mydata-invoicing/pkg/logger"
)

var version = "1.0.0"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "mydata",
		Short: "Operación de documentos AADE myDATA",
		Long: `mydata convierte pedidos de la tienda en documentos InvoicesDoc,
los transmite a la REST API ERP de myDATA y relee documentos ya emitidos.

La configuración se lee de las mismas variables de entorno que el servicio
(MYDATA_USER_ID, MYDATA_SUBSCRIPTION_KEY, MYDATA_ISSUER_VAT, ...). Sin
credenciales el envío es simulado.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRenderCmd(), newSendCmd(), newParseCmd(), newTokenCmd())
	return root
}

// runtime configuración y logger compartidos por los subcomandos.
type runtime struct {
	cfg *config.Config
	log *logger.Logger
}

func loadRuntime(cmd *cobra.Command) (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("cargar configuración: %w", err)
	}
	// stderr: stdout queda reservado para el XML/JSON
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level, Output: cmd.ErrOrStderr()})
	return &runtime{cfg: cfg, log: log}, nil
}

func (r *runtime) mapper() (*invoicing.OrderMapper, error) {
	return invoicing.NewOrderMapper(invoicing.MapperConfigFrom(r.cfg.MyData), r.log.Component("mapper"))
}

// readOrder lee un pedido JSON con el mismo formato que el webhook ("-" = stdin).
func readOrder(cmd *cobra.Command, path string) (*entity.Order, error) {
	raw, err := readInput(cmd, path)
	if err != nil {
		return nil, err
	}
	var in dto.OrderPayload
	if err := json.Unmarshal(raw, &in); err != nil {
		return nil, fmt.Errorf("pedido JSON inválido: %w", err)
	}
	if err := validator.ValidateRequest(&in); err != nil {
		return nil, err
	}
	return in.ToEntity(), nil
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("leer %s: %w", path, err)
	}
	return raw, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
