package mydata

import (
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Estrategias de generación del uid interno del documento.
const (
	UIDStrategyDeterministic = "deterministic" // UUIDv5 del id de pedido, estable ante reenvíos del webhook
	UIDStrategyTimestamp     = "timestamp"     // <order_id>-<unix>, distinto en cada intento
)

// uidNamespace espacio de nombres UUIDv5 propio de los documentos del e-shop.
var uidNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://www.aade.gr/myDATA/invoice/v1.0"))

// GenerateUID genera el uid del documento para el pedido según la estrategia.
func GenerateUID(strategy, orderID string, now time.Time) (string, error) {
	if orderID == "" {
		return "", fmt.Errorf("mydata: id de pedido vacío")
	}
	switch strategy {
	case UIDStrategyDeterministic, "":
		return uuid.NewSHA1(uidNamespace, []byte("shopify-order:"+orderID)).String(), nil
	case UIDStrategyTimestamp:
		return orderID + "-" + strconv.FormatInt(now.Unix(), 10), nil
	default:
		return "", fmt.Errorf("mydata: estrategia de uid desconocida %q", strategy)
	}
}

// CreditNoteUID deriva el uid de la nota de crédito a partir del uid original.
func CreditNoteUID(originalUID string) string {
	return uuid.NewSHA1(uidNamespace, []byte("credit-note:"+originalUID)).String()
}
