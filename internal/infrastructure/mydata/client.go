package mydata

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/mydata-invoicing/internal/domain/entity"
	"github.com/jhoicas/mydata-invoicing/pkg/config"
	"github.com/jhoicas/mydata-invoicing/pkg/mydata"
)

// ── Constantes de entorno ──────────────────────────────────────────────────────

const (
	// EnvProduction selecciona el endpoint de producción; cualquier otro valor usa desarrollo.
	EnvProduction = "production"

	// MockMark mark ficticio devuelto cuando no hay credenciales configuradas.
	MockMark = "MOCK-MARK-000000000000000"

	defaultTimeout  = 30 * time.Second
	maxResponseSize = 1 << 20 // 1 MB
)

// ── Puerto (interfaz) ──────────────────────────────────────────────────────────

// TransmitResult resultado de la entrega a myDATA. No modifica el Invoice:
// el llamador persiste el acuse por separado.
type TransmitResult struct {
	Success      bool
	Mock         bool             // simulado, sin llamada de red
	UID          string           // uid interno del documento
	AuthorityUID string           // invoiceUid calculado por AADE
	Mark         string           // MARK asignado por AADE
	QRURL        string
	StatusCode   int              // HTTP status; 0 si falló el transporte
	Error        string           // cuerpo de la respuesta o error de transporte
	Errors       []AuthorityError // errores de validación de AADE
	XML          []byte           // payload enviado (o que se habría enviado)
}

// Status estado de auditoría correspondiente al resultado.
func (r *TransmitResult) Status() string {
	switch {
	case r.Mock:
		return entity.TransmissionStatusMock
	case r.Success:
		return entity.TransmissionStatusSuccess
	case len(r.Errors) > 0:
		return entity.TransmissionStatusRejected
	default:
		return entity.TransmissionStatusFailed
	}
}

// Transmitter define el puerto de salida para el envío de documentos a myDATA.
// La implementación concreta usa la REST API ERP; para tests se puede inyectar un mock.
type Transmitter interface {
	// Transmit serializa y envía el documento. error solo se devuelve si el
	// documento no es serializable; los fallos de red o de AADE van en el resultado.
	Transmit(ctx context.Context, inv *entity.Invoice) (*TransmitResult, error)

	// MockMode indica que los documentos no llegan a AADE.
	MockMode() bool
}

// ── Implementación REST ────────────────────────────────────────────────────────

// ClientConfig credenciales y entorno de la API ERP de myDATA.
type ClientConfig struct {
	UserID          string
	SubscriptionKey string
	Environment     string
	Endpoint        string // vacío = según Environment
	Timeout         time.Duration
}

// ClientConfigFrom traduce la configuración de la aplicación al cliente.
func ClientConfigFrom(c config.MyDataConfig) ClientConfig {
	return ClientConfig{
		UserID:          c.UserID,
		SubscriptionKey: c.SubscriptionKey,
		Environment:     c.Environment,
		Timeout:         c.HTTPTimeout(),
	}
}

// MockMode indica si falta alguna de las credenciales.
func (c ClientConfig) MockMode() bool {
	return strings.TrimSpace(c.UserID) == "" || strings.TrimSpace(c.SubscriptionKey) == ""
}

// EndpointURL URL de SendInvoices para el entorno configurado.
func (c ClientConfig) EndpointURL() string {
	if c.Endpoint != "" {
		return c.Endpoint
	}
	if c.Environment == EnvProduction {
		return mydata.EndpointProduction
	}
	return mydata.EndpointDevelopment
}

// Client implementa Transmitter contra SendInvoices. Sin estado mutable:
// seguro para uso concurrente.
type Client struct {
	cfg        ClientConfig
	builder    *XMLBuilderService
	httpClient *http.Client
	log        zerolog.Logger
}

// NewClient construye el cliente. httpClient puede ser nil: se usa uno con el
// timeout de la configuración (30 s por defecto).
func NewClient(cfg ClientConfig, builder *XMLBuilderService, httpClient *http.Client, log zerolog.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if builder == nil {
		builder = NewXMLBuilderService()
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	c := &Client{cfg: cfg, builder: builder, httpClient: httpClient, log: log}
	if cfg.MockMode() {
		c.log.Warn().Msg("mydata: credenciales ausentes, transmisión en modo simulado")
	}
	return c
}

// MockMode indica si el cliente simula las transmisiones.
func (c *Client) MockMode() bool {
	return c.cfg.MockMode()
}

// Transmit envía un único documento. No reintenta.
func (c *Client) Transmit(ctx context.Context, inv *entity.Invoice) (*TransmitResult, error) {
	payload, err := c.builder.Build(inv)
	if err != nil {
		return nil, err
	}
	log := c.log.With().Str("uid", inv.UID).Str("invoice_type", string(inv.Type)).Logger()

	if c.cfg.MockMode() {
		log.Info().Str("xml", string(payload)).Msg("mydata: modo simulado, documento no enviado")
		return &TransmitResult{
			Success: true,
			Mock:    true,
			UID:     inv.UID,
			Mark:    MockMark,
			XML:     payload,
		}, nil
	}

	result := &TransmitResult{UID: inv.UID, XML: payload}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.EndpointURL(), bytes.NewReader(payload))
	if err != nil {
		result.Error = fmt.Sprintf("crear request: %v", err)
		return result, nil
	}
	req.Header.Set("Content-Type", "application/xml")
	req.Header.Set(mydata.HeaderUserID, c.cfg.UserID)
	req.Header.Set(mydata.HeaderSubscriptionKey, c.cfg.SubscriptionKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			err = fmt.Errorf("timeout o cancelación: %w", ctx.Err())
		}
		result.Error = fmt.Sprintf("llamada HTTP fallida: %v", err)
		log.Error().Err(err).Msg("mydata: error de transporte")
		return result, nil
	}
	defer resp.Body.Close()

	rawBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	result.StatusCode = resp.StatusCode
	if err != nil {
		result.Error = fmt.Sprintf("leer respuesta: %v", err)
		return result, nil
	}

	if resp.StatusCode != http.StatusOK {
		result.Error = string(rawBody)
		log.Warn().Int("status", resp.StatusCode).Msg("mydata: respuesta HTTP no exitosa")
		return result, nil
	}

	c.applyResponse(result, rawBody)
	if result.Success {
		log.Info().Str("mark", result.Mark).Msg("mydata: documento aceptado")
	} else {
		log.Warn().Str("error", result.Error).Msg("mydata: documento rechazado")
	}
	return result, nil
}

// applyResponse interpreta el ResponseDoc de una respuesta HTTP 200.
func (c *Client) applyResponse(result *TransmitResult, rawBody []byte) {
	entries, err := ParseResponseDoc(rawBody)
	if err != nil {
		result.Error = fmt.Sprintf("no se pudo parsear ResponseDoc: %s", string(rawBody))
		return
	}
	entry := entries[0]
	result.AuthorityUID = entry.UID
	result.Mark = entry.Mark
	result.QRURL = entry.QRURL
	result.Errors = entry.Errors
	if entry.Accepted() {
		result.Success = true
		return
	}
	result.Error = entry.ErrorText()
	if result.Error == "" {
		result.Error = "statusCode " + entry.StatusCode
	}
}

var _ Transmitter = (*Client)(nil)
