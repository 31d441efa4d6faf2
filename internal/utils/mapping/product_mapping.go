package mapping

import (
	"github.com/a7mdelbanna/clients_plus_backend/internal/core/domain"
	"github.com/a7mdelbanna/clients_plus_backend/internal/models"
)

// ToModelProduct converts a domain Product to a model Product
func ToModelProduct(d domain.Product) models.Product {
	return models.Product{
		ProductID:      d.ProductID,
		CompanyID:      d.CompanyID,
		Name:           d.Name,
		SKU:            strToPtr(d.SKU),
		Price:          d.Price,
		TrackInventory: d.TrackInventory,
		IsActive:       d.IsActive,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainProduct converts a model Product to a domain Product
func ToDomainProduct(m models.Product) domain.Product {
	return domain.Product{
		ProductID:      m.ProductID,
		CompanyID:      m.CompanyID,
		Name:           m.Name,
		SKU:            ptrToStr(m.SKU),
		Price:          m.Price,
		TrackInventory: m.TrackInventory,
		IsActive:       m.IsActive,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainProductSlice converts a slice of model Products to a slice of domain Products
func ToDomainProductSlice(ms []models.Product) []domain.Product {
	ds := make([]domain.Product, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainProduct(m)
	}
	return ds
}

// ToModelInventoryMovement converts a domain InventoryMovement to its row.
func ToModelInventoryMovement(d domain.InventoryMovement) models.InventoryMovement {
	return models.InventoryMovement{
		MovementID:  d.MovementID,
		ProductID:   d.ProductID,
		BranchID:    d.BranchID,
		Type:        string(d.Type),
		Quantity:    d.Quantity,
		Reference:   strToPtr(d.Reference),
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainInventoryMovement converts an inventory_movements row to the domain type.
func ToDomainInventoryMovement(m models.InventoryMovement) domain.InventoryMovement {
	return domain.InventoryMovement{
		MovementID:  m.MovementID,
		ProductID:   m.ProductID,
		BranchID:    m.BranchID,
		Type:        domain.InventoryMovementType(m.Type),
		Quantity:    m.Quantity,
		Reference:   ptrToStr(m.Reference),
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}
