package service

import (
	"context"
	"encoding/json"
	"math"
	"time"

	"github.com/clubtryara/pos/internal/domain/entity"
	"github.com/clubtryara/pos/internal/domain/repository"
	"github.com/clubtryara/pos/pkg/apperror"
	"github.com/clubtryara/pos/pkg/pagination"
	"github.com/google/uuid"
)

// SaleService handles checkout persistence and sale listings
type SaleService struct {
	saleRepo repository.SaleRepository
}

// NewSaleService creates a new sale service
func NewSaleService(saleRepo repository.SaleRepository) *SaleService {
	return &SaleService{saleRepo: saleRepo}
}

// SaveSaleInput is one checkout submission plus the authenticated cashier
type SaveSaleInput struct {
	Payload     entity.SalePayload
	CashierID   uuid.UUID
	CashierName string
}

// SaveSale validates and persists a checkout submission, returning the new
// sale's ID
func (s *SaleService) SaveSale(ctx context.Context, input *SaveSaleInput) (int64, error) {
	p := input.Payload

	if len(p.Cart) == 0 {
		return 0, apperror.NewBadRequestError("Cart is empty")
	}
	if !p.Meta.Flow.Valid() {
		return 0, apperror.NewBadRequestError("Unknown checkout flow")
	}
	if !p.Payment.Method.Valid() {
		return 0, apperror.NewBadRequestError("Unknown payment method")
	}
	for _, line := range p.Cart {
		if line.Qty < 1 {
			return 0, apperror.NewBadRequestError("Cart line quantity must be at least 1")
		}
	}

	paymentDetail, err := json.Marshal(p.Payment)
	if err != nil {
		return 0, err
	}

	sale := &entity.Sale{
		CashierID:      input.CashierID,
		CashierName:    input.CashierName,
		Flow:           p.Meta.Flow,
		PaymentMethod:  p.Payment.Method,
		PaymentDetail:  string(paymentDetail),
		Subtotal:       toCentavos(p.Totals.Subtotal),
		ServiceCharge:  toCentavos(p.Totals.ServiceCharge),
		Tax:            toCentavos(p.Totals.Tax),
		DiscountAmount: toCentavos(p.Totals.DiscountAmount),
		TablePrice:     toCentavos(p.Totals.TablePrice),
		Payable:        toCentavos(p.Totals.Payable),
		Note:           p.Meta.Note,
		SoldAt:         p.Meta.Timestamp,
	}
	if sale.SoldAt.IsZero() {
		sale.SoldAt = time.Now()
	}

	if p.Reserved != nil {
		snapshot, err := json.Marshal(p.Reserved)
		if err != nil {
			return 0, err
		}
		sale.TableID = &p.Reserved.ID
		sale.TableSnapshot = string(snapshot)
	}

	sale.Lines = make([]entity.SaleLine, len(p.Cart))
	for i, line := range p.Cart {
		unit := toCentavos(line.Price)
		sale.Lines[i] = entity.SaleLine{
			ProductID: line.ID,
			Name:      line.Name,
			UnitPrice: unit,
			Qty:       line.Qty,
			Total:     unit * int64(line.Qty),
		}
	}

	if err := s.saleRepo.Create(ctx, sale); err != nil {
		return 0, err
	}
	return sale.ID, nil
}

// GetSale returns a sale with its lines
func (s *SaleService) GetSale(ctx context.Context, id int64) (*entity.Sale, error) {
	sale, err := s.saleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, apperror.NewNotFoundError("Sale")
	}
	return sale, nil
}

// ListSales returns sales newest first with pagination metadata
func (s *SaleService) ListSales(ctx context.Context, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.Sale], error) {
	params.Validate()
	sales, total, err := s.saleRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}
	meta := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(sales, meta), nil
}

// toCentavos converts a decimal amount to centavos, rounding half away from
// zero to absorb float noise from upstream arithmetic
func toCentavos(v float64) int64 {
	return int64(math.Round(v * 100))
}
