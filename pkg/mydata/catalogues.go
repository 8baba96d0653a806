// Package mydata contiene catálogos y validaciones alineados a la
// documentación técnica de AADE myDATA (Grecia), API ERP v1.0.x.
package mydata

import "github.com/shopspring/decimal"

// =============================================================================
// Tipos de documento (invoiceType) - Anexo: Τύποι Παραστατικών
// =============================================================================

const (
	InvoiceTypeCodeSales   = "1.1"  // Τιμολόγιο Πώλησης
	InvoiceTypeCodeService = "2.1"  // Τιμολόγιο Παροχής Υπηρεσιών
	InvoiceTypeCodeCredit  = "5.1"  // Πιστωτικό Τιμολόγιο / Συσχετιζόμενο
	InvoiceTypeCodeRetail  = "11.1" // ΑΛΠ - Απόδειξη Λιανικής Πώλησης
)

// =============================================================================
// Categorías de IVA (vatCategory)
// =============================================================================

const (
	VATCategory24     = 1 // 24%
	VATCategory13     = 2 // 13%
	VATCategory6      = 3 // 6%
	VATCategory17     = 4 // 17% (islas)
	VATCategory9      = 5 // 9% (islas)
	VATCategory4      = 6 // 4% (islas)
	VATCategoryExempt = 7 // 0% exento
	VATCategoryNoVAT  = 8 // registros sin IVA
)

var vatRates = map[int]decimal.Decimal{
	VATCategory24:     decimal.RequireFromString("0.24"),
	VATCategory13:     decimal.RequireFromString("0.13"),
	VATCategory6:      decimal.RequireFromString("0.06"),
	VATCategory17:     decimal.RequireFromString("0.17"),
	VATCategory9:      decimal.RequireFromString("0.09"),
	VATCategory4:      decimal.RequireFromString("0.04"),
	VATCategoryExempt: decimal.Zero,
	VATCategoryNoVAT:  decimal.Zero,
}

// VATRate devuelve la tasa legal (ej: 0.24) asociada a la categoría.
// ok es false si la categoría no existe en el catálogo.
func VATRate(category int) (rate decimal.Decimal, ok bool) {
	rate, ok = vatRates[category]
	return rate, ok
}

// =============================================================================
// Medios de pago (paymentMethodDetails/type)
// =============================================================================

const (
	PaymentMethodCash            = 1 // Μετρητά
	PaymentMethodCheque          = 2 // Επιταγή
	PaymentMethodCard            = 3 // Κάρτα / POS
	PaymentMethodCredit          = 4 // Επί Πιστώσει
	PaymentMethodBankTransfer    = 5 // Web Banking / transferencia
	PaymentMethodDigitalWallet   = 6 // Monedero digital
	PaymentMethodDigitalCurrency = 7 // Moneda digital
)

// ValidPaymentMethods códigos de medio de pago aceptados.
var ValidPaymentMethods = map[int]bool{
	PaymentMethodCash: true, PaymentMethodCheque: true, PaymentMethodCard: true,
	PaymentMethodCredit: true, PaymentMethodBankTransfer: true,
	PaymentMethodDigitalWallet: true, PaymentMethodDigitalCurrency: true,
}

// =============================================================================
// Clasificación de ingresos (incomeClassification, E3)
// =============================================================================

const (
	ClassificationTypeSalesOfGoods = "E3_561_001"  // Πωλήσεις αγαθών και υπηρεσιών Χονδρικές
	ClassificationTypeRetailSales  = "E3_561_003"  // Πωλήσεις αγαθών και υπηρεσιών Λιανικές
	ClassificationCategoryGoods    = "category1_1" // Έσοδα από Πώληση Εμπορευμάτων
	ClassificationCategoryProducts = "category1_2" // Έσοδα από Πώληση Προϊόντων
	ClassificationCategoryServices = "category1_3" // Έσοδα από Παροχή Υπηρεσιών
)

// =============================================================================
// Espacios de nombres y ubicación del esquema InvoicesDoc
// =============================================================================

const (
	NamespaceInvoice              = "http://www.aade.gr/myDATA/invoice/v1.0"
	NamespaceXSI                  = "http://www.w3.org/2001/XMLSchema-instance"
	NamespaceIncomeClassification = "https://www.aade.gr/myDATA/incomeClassificaton/v1.0"
	SchemaLocationInvoicesDoc     = "http://www.aade.gr/myDATA/invoice/v1.0 InvoicesDoc-v1.0.9.xsd"
)

// Endpoints SendInvoices y cabeceras de autenticación.
const (
	EndpointProduction  = "https://mydatapi.aade.gr/myDATA/SendInvoices"
	EndpointDevelopment = "https://mydata-dev.azure-api.net/SendInvoices"

	HeaderUserID          = "aade-user-id"
	HeaderSubscriptionKey = "Ocp-Apim-Subscription-Key"
)
