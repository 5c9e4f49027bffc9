package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/clubtryara/pos/internal/domain/entity"
	"github.com/clubtryara/pos/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProductRepo struct {
	products     map[int64]*entity.Product
	failedIDs    []int64
	decrementErr error
	decrements   map[int64]int
}

func (f *fakeProductRepo) Create(ctx context.Context, p *entity.Product) error { return nil }

func (f *fakeProductRepo) GetByID(ctx context.Context, id int64) (*entity.Product, error) {
	return f.products[id], nil
}

func (f *fakeProductRepo) GetByIDs(ctx context.Context, ids []int64) ([]entity.Product, error) {
	out := make([]entity.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := f.products[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeProductRepo) AtomicDecrementBatch(ctx context.Context, decrements map[int64]int) ([]int64, error) {
	f.decrements = decrements
	return f.failedIDs, f.decrementErr
}

func TestStockService_Adjust(t *testing.T) {
	repo := &fakeProductRepo{}
	svc := NewStockService(repo)

	items := []entity.StockItem{
		{ID: 1, Qty: 2},
		{ID: 2, Qty: 1},
	}
	require.NoError(t, svc.Adjust(context.Background(), items))
	assert.Equal(t, map[int64]int{1: 2, 2: 1}, repo.decrements)
}

func TestStockService_AdjustMergesDuplicateLines(t *testing.T) {
	repo := &fakeProductRepo{}
	svc := NewStockService(repo)

	items := []entity.StockItem{
		{ID: 1, Qty: 2},
		{ID: 1, Qty: 3},
	}
	require.NoError(t, svc.Adjust(context.Background(), items))
	assert.Equal(t, map[int64]int{1: 5}, repo.decrements)
}

func TestStockService_AdjustReportsInsufficientNames(t *testing.T) {
	repo := &fakeProductRepo{
		products: map[int64]*entity.Product{
			1: {ID: 1, Name: "Beer"},
			3: {ID: 3, Name: "Cocktail"},
		},
		failedIDs: []int64{1, 3},
	}
	svc := NewStockService(repo)

	err := svc.Adjust(context.Background(), []entity.StockItem{{ID: 1, Qty: 99}, {ID: 3, Qty: 99}})
	require.Error(t, err)
	appErr := apperror.GetAppError(err)
	assert.Equal(t, http.StatusBadRequest, appErr.Code)
	assert.Equal(t, "Insufficient stock for: Beer, Cocktail", appErr.Message)
}

func TestStockService_AdjustUnknownFailedProduct(t *testing.T) {
	repo := &fakeProductRepo{failedIDs: []int64{7}}
	svc := NewStockService(repo)

	err := svc.Adjust(context.Background(), []entity.StockItem{{ID: 7, Qty: 1}})
	require.Error(t, err)
	assert.Contains(t, apperror.GetAppError(err).Message, "product 7")
}

func TestStockService_AdjustRejectsEmptyBatch(t *testing.T) {
	svc := NewStockService(&fakeProductRepo{})
	err := svc.Adjust(context.Background(), nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperror.GetAppError(err).Code)
}

func TestStockService_AdjustRejectsZeroQty(t *testing.T) {
	svc := NewStockService(&fakeProductRepo{})
	err := svc.Adjust(context.Background(), []entity.StockItem{{ID: 1, Qty: 0}})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperror.GetAppError(err).Code)
}

func TestStockService_AdjustPropagatesRepoError(t *testing.T) {
	cause := errors.New("connection reset")
	svc := NewStockService(&fakeProductRepo{decrementErr: cause})

	err := svc.Adjust(context.Background(), []entity.StockItem{{ID: 1, Qty: 1}})
	assert.ErrorIs(t, err, cause)
}
