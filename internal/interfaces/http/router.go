package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/mydata-invoicing/internal/application/invoicing"
	"github.com/jhoicas/mydata-invoicing/internal/domain/repository"
	"github.com/jhoicas/mydata-invoicing/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Orchestrator  *invoicing.Orchestrator
	PDFUC         *invoicing.PDFUseCase
	Transmissions repository.TransmissionRepository
	JWTSecret     string
	WebhookSecret string
	Log           zerolog.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Webhooks (firma HMAC, sin JWT)
	webhookHandler := NewWebhookHandler(deps.Orchestrator, deps.WebhookSecret, deps.Log)
	app.Post("/webhooks/shopify/orders-paid", webhookHandler.OrdersPaid)

	// Rutas protegidas (requieren Bearer Token)
	protected := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	// Invoices
	invoices := protected.Group("/invoices")
	invoiceHandler := NewInvoiceHandler(deps.Transmissions, deps.Orchestrator, deps.PDFUC)
	read := RequireRole(jwt.RoleAdmin, jwt.RoleAuditor)
	invoices.Get("/", read, invoiceHandler.List)
	invoices.Get("/:uid", read, invoiceHandler.GetByUID)
	invoices.Get("/:uid/pdf", read, invoiceHandler.GetPDF)
	invoices.Post("/:uid/credit-note", RequireRole(jwt.RoleAdmin), invoiceHandler.CreateCreditNote)
}
