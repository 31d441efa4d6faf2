package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/a7mdelbanna/clients_plus_backend/internal/apperrors"
	"github.com/a7mdelbanna/clients_plus_backend/internal/core/domain"
	portsrepo "github.com/a7mdelbanna/clients_plus_backend/internal/core/ports/repositories"
	portssvc "github.com/a7mdelbanna/clients_plus_backend/internal/core/ports/services"
	"github.com/a7mdelbanna/clients_plus_backend/internal/dto"
	"github.com/a7mdelbanna/clients_plus_backend/internal/utils"
	"github.com/a7mdelbanna/clients_plus_backend/internal/utils/money"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// saleService implements the SaleSvcFacade interface. Completion and void
// delegate the atomic part to the sale repository and then handle register
// attribution and low-balance alerts best-effort.
type saleService struct {
	BaseService
	saleRepo     portsrepo.SaleRepositoryFacade
	productRepo  portsrepo.ProductRepositoryFacade
	accountRepo  portsrepo.AccountRepositoryFacade
	registerRepo portsrepo.RegisterRepositoryFacade
}

// NewSaleService creates a new sale service.
func NewSaleService(saleRepo portsrepo.SaleRepositoryFacade, productRepo portsrepo.ProductRepositoryFacade, accountRepo portsrepo.AccountRepositoryFacade, registerRepo portsrepo.RegisterRepositoryFacade) portssvc.SaleSvcFacade {
	return &saleService{
		saleRepo:     saleRepo,
		productRepo:  productRepo,
		accountRepo:  accountRepo,
		registerRepo: registerRepo,
	}
}

var _ portssvc.SaleSvcFacade = (*saleService)(nil)

func (s *saleService) CreateSale(ctx context.Context, companyID string, req dto.CreateSaleRequest, userID string) (*domain.Sale, error) {
	productIDs := make([]string, 0, len(req.Items))
	seen := make(map[string]bool, len(req.Items))
	for _, item := range req.Items {
		if !seen[item.ProductID] {
			seen[item.ProductID] = true
			productIDs = append(productIDs, item.ProductID)
		}
	}
	products, err := s.productRepo.FindProductsByIDs(ctx, companyID, productIDs)
	if err != nil {
		return nil, err
	}
	for _, id := range productIDs {
		if !products[id].IsActive {
			return nil, fmt.Errorf("%w: product %s is not active", apperrors.ErrValidation, id)
		}
	}

	now := time.Now().UTC()
	saleNumber, err := generateSaleNumber(now)
	if err != nil {
		return nil, err
	}

	sale := domain.Sale{
		SaleID:     uuid.NewString(),
		CompanyID:  companyID,
		BranchID:   req.BranchID,
		SaleNumber: saleNumber,
		CustomerID: req.CustomerID,
		TaxTotal:   req.TaxTotal,
		Status:     domain.SaleDraft,
		Notes:      req.Notes,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	sale.Items = make([]domain.SaleItem, len(req.Items))
	for i, item := range req.Items {
		product := products[item.ProductID]
		unitPrice := product.Price
		if item.UnitPrice != nil {
			unitPrice = *item.UnitPrice
		}
		sale.Items[i] = domain.SaleItem{
			ProductID: item.ProductID,
			Name:      product.Name,
			Quantity:  item.Quantity,
			UnitPrice: unitPrice,
			Discount:  item.Discount,
		}
	}

	sale.Payments = make([]domain.SalePayment, len(req.Payments))
	for i, p := range req.Payments {
		sale.Payments[i] = domain.SalePayment{
			Method:    p.Method,
			Amount:    p.Amount,
			AccountID: p.AccountID,
		}
	}

	sale.Recalculate()

	if err := s.saleRepo.SaveSale(ctx, sale); err != nil {
		s.LogError(ctx, err, "Failed to save sale", slog.String("branch_id", req.BranchID))
		return nil, err
	}

	s.LogInfo(ctx, "Sale created",
		slog.String("sale_id", sale.SaleID),
		slog.String("sale_number", sale.SaleNumber))
	return &sale, nil
}

// generateSaleNumber produces a short, human-readable sale reference like
// S-20260831-4F2A9C.
func generateSaleNumber(now time.Time) (string, error) {
	suffix, err := utils.GenerateSecureRandomString(3)
	if err != nil {
		return "", fmt.Errorf("failed to generate sale number: %w", err)
	}
	return fmt.Sprintf("S-%s-%s", now.Format("20060102"), strings.ToUpper(suffix)), nil
}

func (s *saleService) CompleteSale(ctx context.Context, companyID string, saleID string, userID string) (*domain.Sale, error) {
	sale, err := s.saleRepo.FindSaleByID(ctx, companyID, saleID)
	if err != nil {
		return nil, err
	}
	if sale.Status != domain.SaleDraft {
		return nil, fmt.Errorf("%w: sale %s is %s", apperrors.ErrConflict, saleID, sale.Status)
	}
	if !money.Covers(sale.Paid, sale.Total) {
		return nil, fmt.Errorf("%w: paid %s of %s", apperrors.ErrInsufficientPayment, sale.Paid.String(), sale.Total.String())
	}

	// An open register session in the branch supplies account mappings for
	// payments that do not name an account, and receives the attribution
	// movements after commit.
	session, err := s.registerRepo.FindOpenSessionByBranch(ctx, companyID, sale.BranchID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		session = nil
	}

	netAmounts := paymentNetAmounts(sale)
	for i := range sale.Payments {
		if sale.Payments[i].AccountID != "" {
			continue
		}
		if session == nil {
			return nil, fmt.Errorf("%w: payment %d names no account and no register session is open", apperrors.ErrValidation, i)
		}
		accountID, ok := session.AccountForMethod(sale.Payments[i].Method)
		if !ok {
			return nil, fmt.Errorf("%w: no account mapped for method %s", apperrors.ErrValidation, sale.Payments[i].Method)
		}
		sale.Payments[i].AccountID = accountID
	}

	now := time.Now().UTC()
	sessionID := ""
	if session != nil {
		sessionID = session.SessionID
	}

	postings := make([]*domain.Transaction, 0, len(sale.Payments))
	for i := range sale.Payments {
		net := netAmounts[i]
		if money.IsZero(net) {
			continue
		}
		posting := &domain.Transaction{
			TransactionID:   uuid.NewString(),
			CompanyID:       companyID,
			BranchID:        sale.BranchID,
			AccountID:       sale.Payments[i].AccountID,
			Type:            domain.Income,
			Amount:          net,
			TotalAmount:     net,
			PaymentMethod:   sale.Payments[i].Method,
			Status:          domain.TxnCompleted,
			Category:        "Sales",
			Description:     "Sale " + sale.SaleNumber,
			TransactionDate: now,
			SessionID:       sessionID,
			SourceType:      domain.SourceSale,
			SourceID:        sale.SaleID,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		}
		sale.Payments[i].TransactionID = posting.TransactionID
		postings = append(postings, posting)
	}

	decrements, err := s.stockDecrements(ctx, companyID, sale)
	if err != nil {
		s.LogError(ctx, err, "Failed to load products for stock movement", slog.String("sale_id", saleID))
		return nil, err
	}

	sale.Status = domain.SaleCompleted
	sale.LastUpdatedAt = now
	sale.LastUpdatedBy = userID

	if err := s.saleRepo.CompleteSale(ctx, sale, postings, decrements); err != nil {
		s.LogError(ctx, err, "Failed to complete sale", slog.String("sale_id", saleID))
		return nil, err
	}

	// The sale is durable from here on; attribution and alerting only log.
	if session != nil {
		s.recordSaleMovements(ctx, session, sale, netAmounts, domain.MovementSale, userID)
	}
	s.alertLowBalances(ctx, companyID, postings)

	s.LogInfo(ctx, "Sale completed",
		slog.String("sale_id", saleID),
		slog.String("sale_number", sale.SaleNumber),
		slog.String("total", sale.Total.String()))
	return sale, nil
}

func (s *saleService) VoidSale(ctx context.Context, companyID string, saleID string, userID string) (*domain.Sale, error) {
	sale, err := s.saleRepo.FindSaleByID(ctx, companyID, saleID)
	if err != nil {
		return nil, err
	}
	if sale.Status != domain.SaleCompleted {
		return nil, fmt.Errorf("%w: sale %s is %s", apperrors.ErrConflict, saleID, sale.Status)
	}

	session, err := s.registerRepo.FindOpenSessionByBranch(ctx, companyID, sale.BranchID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		session = nil
	}

	now := time.Now().UTC()
	sessionID := ""
	if session != nil {
		sessionID = session.SessionID
	}

	netAmounts := paymentNetAmounts(sale)
	postings := make([]*domain.Transaction, 0, len(sale.Payments))
	for i := range sale.Payments {
		net := netAmounts[i]
		if money.IsZero(net) {
			continue
		}
		postings = append(postings, &domain.Transaction{
			TransactionID:       uuid.NewString(),
			CompanyID:           companyID,
			BranchID:            sale.BranchID,
			AccountID:           sale.Payments[i].AccountID,
			Type:                domain.Expense,
			Amount:              net,
			TotalAmount:         net,
			PaymentMethod:       sale.Payments[i].Method,
			Status:              domain.TxnCompleted,
			Category:            "Sales Refund",
			Description:         "Void sale " + sale.SaleNumber,
			TransactionDate:     now,
			LinkedTransactionID: sale.Payments[i].TransactionID,
			SessionID:           sessionID,
			SourceType:          domain.SourceSale,
			SourceID:            sale.SaleID,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		})
	}

	increments, err := s.stockDecrements(ctx, companyID, sale)
	if err != nil {
		s.LogError(ctx, err, "Failed to load products for stock movement", slog.String("sale_id", saleID))
		return nil, err
	}

	sale.Status = domain.SaleVoided
	sale.LastUpdatedAt = now
	sale.LastUpdatedBy = userID

	if err := s.saleRepo.VoidSale(ctx, sale, postings, increments); err != nil {
		s.LogError(ctx, err, "Failed to void sale", slog.String("sale_id", saleID))
		return nil, err
	}

	if session != nil {
		s.recordSaleMovements(ctx, session, sale, netAmounts, domain.MovementPayout, userID)
	}

	s.LogInfo(ctx, "Sale voided", slog.String("sale_id", saleID), slog.String("sale_number", sale.SaleNumber))
	return sale, nil
}

// paymentNetAmounts splits the sale's payments into the amounts that actually
// stay in the till. Change handed back comes out of the first cash payment.
func paymentNetAmounts(sale *domain.Sale) []decimal.Decimal {
	nets := make([]decimal.Decimal, len(sale.Payments))
	change := sale.Change
	for i, p := range sale.Payments {
		net := p.Amount
		if change.IsPositive() && p.Method == domain.MethodCash {
			deducted := decimal.Min(change, net)
			net = net.Sub(deducted)
			change = change.Sub(deducted)
		}
		nets[i] = net
	}
	return nets
}

// stockDecrements sums the sold quantities per inventory-tracked product.
// A lookup failure fails the caller; completing a sale without its stock
// movement would silently drift the inventory counts.
func (s *saleService) stockDecrements(ctx context.Context, companyID string, sale *domain.Sale) (map[string]int64, error) {
	productIDs := make([]string, 0, len(sale.Items))
	seen := make(map[string]bool, len(sale.Items))
	for _, item := range sale.Items {
		if !seen[item.ProductID] {
			seen[item.ProductID] = true
			productIDs = append(productIDs, item.ProductID)
		}
	}
	products, err := s.productRepo.FindProductsByIDs(ctx, companyID, productIDs)
	if err != nil {
		return nil, err
	}

	decrements := make(map[string]int64)
	for _, item := range sale.Items {
		if products[item.ProductID].TrackInventory {
			decrements[item.ProductID] += item.Quantity
		}
	}
	return decrements, nil
}

// recordSaleMovements appends the sale's payments to the session log.
// Best-effort: the sale already committed, failures only log.
func (s *saleService) recordSaleMovements(ctx context.Context, session *domain.RegisterSession, sale *domain.Sale, netAmounts []decimal.Decimal, movementType domain.MovementType, userID string) {
	for i := range sale.Payments {
		net := netAmounts[i]
		if money.IsZero(net) {
			continue
		}
		movement := domain.SessionMovement{
			MovementID:    uuid.NewString(),
			SessionID:     session.SessionID,
			Type:          movementType,
			Amount:        net,
			PaymentMethod: sale.Payments[i].Method,
			AccountID:     sale.Payments[i].AccountID,
			Reference:     sale.SaleNumber,
			RecordedBy:    userID,
			RecordedAt:    time.Now().UTC(),
		}
		if err := s.registerRepo.AppendMovement(ctx, movement); err != nil {
			s.LogWarn(ctx, "Failed to attribute sale to register session",
				slog.String("sale_id", sale.SaleID),
				slog.String("session_id", session.SessionID),
				slog.String("error", err.Error()))
		}
	}
}

// alertLowBalances warns about accounts that dropped below their threshold
// after the sale's postings. Best-effort.
func (s *saleService) alertLowBalances(ctx context.Context, companyID string, postings []*domain.Transaction) {
	accountIDs := make([]string, 0, len(postings))
	seen := make(map[string]bool, len(postings))
	for _, p := range postings {
		if !seen[p.AccountID] {
			seen[p.AccountID] = true
			accountIDs = append(accountIDs, p.AccountID)
		}
	}
	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, companyID, accountIDs)
	if err != nil {
		s.LogWarn(ctx, "Failed to load accounts for low-balance check", slog.String("error", err.Error()))
		return
	}
	for _, p := range postings {
		acc := accounts[p.AccountID]
		if acc.LowBalanceThreshold.IsZero() {
			continue
		}
		if p.RunningBalance.LessThan(acc.LowBalanceThreshold) {
			s.LogWarn(ctx, "Account balance below threshold",
				slog.String("account_id", acc.AccountID),
				slog.String("account_name", acc.Name),
				slog.String("balance", p.RunningBalance.String()),
				slog.String("threshold", acc.LowBalanceThreshold.String()))
		}
	}
}

func (s *saleService) GetSaleByID(ctx context.Context, companyID string, saleID string) (*domain.Sale, error) {
	return s.saleRepo.FindSaleByID(ctx, companyID, saleID)
}

func (s *saleService) ListSales(ctx context.Context, companyID string, params dto.ListSalesParams) ([]domain.Sale, error) {
	return s.saleRepo.ListSales(ctx, companyID, params.BranchID, params.Limit, params.Offset)
}
