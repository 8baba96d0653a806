package http

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/mydata-invoicing/internal/application/dto"
	"github.com/jhoicas/mydata-invoicing/internal/domain/entity"
	"github.com/jhoicas/mydata-invoicing/internal/validator"
)

// HeaderShopifyHmac firma base64 del cuerpo crudo del webhook.
const HeaderShopifyHmac = "X-Shopify-Hmac-Sha256"

// orderProcessor lo implementa *invoicing.Orchestrator.
type orderProcessor interface {
	ProcessAsync(order *entity.Order)
}

// WebhookHandler recibe los webhooks orders/paid de la tienda.
type WebhookHandler struct {
	processor orderProcessor
	secret    []byte
	log       zerolog.Logger
}

// NewWebhookHandler construye el handler. Sin secret todos los webhooks se rechazan.
func NewWebhookHandler(processor orderProcessor, secret string, log zerolog.Logger) *WebhookHandler {
	return &WebhookHandler{processor: processor, secret: []byte(secret), log: log}
}

// OrdersPaid verifica la firma, valida el pedido y lo encola. Responde sin
// esperar a AADE: la tienda reintenta si no recibe 200 en pocos segundos.
// Un pedido firmado que no supera la validación se registra y se confirma
// como "skipped", porque reenviarlo no lo corrige.
// POST /webhooks/shopify/orders-paid
func (h *WebhookHandler) OrdersPaid(c *fiber.Ctx) error {
	body := c.Body()
	if !h.verify(body, c.Get(HeaderShopifyHmac)) {
		h.log.Warn().Str("ip", c.IP()).Msg("webhook: firma inválida")
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_SIGNATURE", Message: "firma HMAC inválida"})
	}

	var in dto.OrderPayload
	if err := json.Unmarshal(body, &in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validator.ValidateRequest(&in); err != nil {
		h.log.Warn().Err(err).Str("order_id", string(in.ID)).Msg("webhook: pedido inválido, se omite")
		return c.Status(fiber.StatusOK).JSON(dto.OrderAcceptedResponse{
			OrderID: string(in.ID),
			Status:  dto.OrderStatusSkipped,
			Reason:  err.Error(),
		})
	}

	order := in.ToEntity()
	h.processor.ProcessAsync(order)
	h.log.Info().Str("order_id", order.ID).Msg("webhook: pedido aceptado")
	return c.Status(fiber.StatusOK).JSON(dto.OrderAcceptedResponse{OrderID: order.ID, Status: dto.OrderStatusAccepted})
}

func (h *WebhookHandler) verify(body []byte, signature string) bool {
	if len(h.secret) == 0 || signature == "" {
		return false
	}
	got, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, h.secret)
	mac.Write(body)
	return hmac.Equal(got, mac.Sum(nil))
}
