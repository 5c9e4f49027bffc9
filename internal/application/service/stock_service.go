package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/clubtryara/pos/internal/domain/entity"
	"github.com/clubtryara/pos/internal/domain/repository"
	"github.com/clubtryara/pos/pkg/apperror"
)

// StockService applies post-sale inventory deductions
type StockService struct {
	productRepo repository.ProductRepository
}

// NewStockService creates a new stock service
func NewStockService(productRepo repository.ProductRepository) *StockService {
	return &StockService{productRepo: productRepo}
}

// Adjust decrements stock for each sold line. The whole batch succeeds or
// none of it does; insufficient stock on any product reports the offending
// names.
func (s *StockService) Adjust(ctx context.Context, items []entity.StockItem) error {
	if len(items) == 0 {
		return apperror.NewBadRequestError("No items to adjust")
	}

	decrements := make(map[int64]int, len(items))
	for _, item := range items {
		if item.Qty < 1 {
			return apperror.NewBadRequestError("Adjustment quantity must be at least 1")
		}
		decrements[item.ID] += item.Qty
	}

	failedIDs, err := s.productRepo.AtomicDecrementBatch(ctx, decrements)
	if err != nil {
		return err
	}
	if len(failedIDs) > 0 {
		names, err := s.failedNames(ctx, failedIDs)
		if err != nil {
			return err
		}
		return apperror.NewBadRequestError("Insufficient stock for: " + names)
	}
	return nil
}

func (s *StockService) failedNames(ctx context.Context, ids []int64) (string, error) {
	products, err := s.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		return "", err
	}
	byID := make(map[int64]string, len(products))
	for _, p := range products {
		byID[p.ID] = p.Name
	}
	names := make([]string, len(ids))
	for i, id := range ids {
		if name, ok := byID[id]; ok {
			names[i] = name
		} else {
			names[i] = fmt.Sprintf("product %d", id)
		}
	}
	return strings.Join(names, ", "), nil
}
