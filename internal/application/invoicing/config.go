package invoicing

import (
	"github.com/jhoicas/mydata-invoicing/internal/domain/entity"
	"github.com/jhoicas/mydata-invoicing/pkg/config"
)

// MapperConfigFrom traduce la configuración de la aplicación al mapper.
func MapperConfigFrom(c config.MyDataConfig) MapperConfig {
	return MapperConfig{
		Issuer: entity.Party{
			VATNumber: c.IssuerVAT,
			Country:   c.IssuerCountry,
			Branch:    c.IssuerBranch,
			Name:      c.IssuerName,
		},
		VATCategory:   c.VATCategory,
		Series:        c.Series,
		PaymentMethod: c.PaymentMethod,
		Classification: entity.Classification{
			Type:     c.ClassificationType,
			Category: c.ClassificationCategory,
		},
		UIDStrategy:        c.UIDStrategy,
		HonorTaxesIncluded: c.HonorTaxesIncluded,
	}
}
