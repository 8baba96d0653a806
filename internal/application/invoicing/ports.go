package invoicing

import (
	"github.com/jhoicas/mydata-invoicing/internal/domain/entity"
)

// ReceiptGenerator genera la representación impresa de un documento transmitido.
type ReceiptGenerator interface {
	Generate(inv *entity.Invoice, rec *entity.TransmissionRecord) ([]byte, error)
}
