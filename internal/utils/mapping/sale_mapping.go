package mapping

import (
	"github.com/a7mdelbanna/clients_plus_backend/internal/core/domain"
	"github.com/a7mdelbanna/clients_plus_backend/internal/models"
)

// ToModelSale converts a domain Sale to its sale row. Items and payments live
// in their own tables and are mapped separately.
func ToModelSale(d domain.Sale) models.Sale {
	return models.Sale{
		SaleID:        d.SaleID,
		CompanyID:     d.CompanyID,
		BranchID:      d.BranchID,
		SaleNumber:    d.SaleNumber,
		CustomerID:    strToPtr(d.CustomerID),
		Subtotal:      d.Subtotal,
		DiscountTotal: d.DiscountTotal,
		TaxTotal:      d.TaxTotal,
		Total:         d.Total,
		Paid:          d.Paid,
		Change:        d.Change,
		Status:        string(d.Status),
		Notes:         strToPtr(d.Notes),
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainSale converts a sale row back to the domain type. Items and
// payments are attached by the repository.
func ToDomainSale(m models.Sale) domain.Sale {
	return domain.Sale{
		SaleID:        m.SaleID,
		CompanyID:     m.CompanyID,
		BranchID:      m.BranchID,
		SaleNumber:    m.SaleNumber,
		CustomerID:    ptrToStr(m.CustomerID),
		Subtotal:      m.Subtotal,
		DiscountTotal: m.DiscountTotal,
		TaxTotal:      m.TaxTotal,
		Total:         m.Total,
		Paid:          m.Paid,
		Change:        m.Change,
		Status:        domain.SaleStatus(m.Status),
		Notes:         ptrToStr(m.Notes),
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelSaleItem converts one sale line to its row.
func ToModelSaleItem(saleID string, lineNo int, d domain.SaleItem) models.SaleItem {
	return models.SaleItem{
		SaleID:    saleID,
		LineNo:    lineNo,
		ProductID: d.ProductID,
		Name:      d.Name,
		Quantity:  d.Quantity,
		UnitPrice: d.UnitPrice,
		Discount:  d.Discount,
		Subtotal:  d.Subtotal,
	}
}

// ToDomainSaleItem converts a sale_items row to the domain type.
func ToDomainSaleItem(m models.SaleItem) domain.SaleItem {
	return domain.SaleItem{
		ProductID: m.ProductID,
		Name:      m.Name,
		Quantity:  m.Quantity,
		UnitPrice: m.UnitPrice,
		Discount:  m.Discount,
		Subtotal:  m.Subtotal,
	}
}

// ToModelSalePayment converts one payment to its row.
func ToModelSalePayment(saleID string, lineNo int, d domain.SalePayment) models.SalePayment {
	return models.SalePayment{
		SaleID:        saleID,
		LineNo:        lineNo,
		Method:        string(d.Method),
		Amount:        d.Amount,
		AccountID:     d.AccountID,
		TransactionID: strToPtr(d.TransactionID),
	}
}

// ToDomainSalePayment converts a sale_payments row to the domain type.
func ToDomainSalePayment(m models.SalePayment) domain.SalePayment {
	return domain.SalePayment{
		Method:        domain.PaymentMethod(m.Method),
		Amount:        m.Amount,
		AccountID:     m.AccountID,
		TransactionID: ptrToStr(m.TransactionID),
	}
}
