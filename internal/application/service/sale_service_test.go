package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/clubtryara/pos/internal/domain/entity"
	"github.com/clubtryara/pos/internal/domain/enum"
	"github.com/clubtryara/pos/pkg/apperror"
	"github.com/clubtryara/pos/pkg/pagination"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSaleRepo struct {
	created *entity.Sale
	nextID  int64
	sales   []entity.Sale
	total   int64
}

func (f *fakeSaleRepo) Create(ctx context.Context, sale *entity.Sale) error {
	f.created = sale
	sale.ID = f.nextID
	return nil
}

func (f *fakeSaleRepo) GetByID(ctx context.Context, id int64) (*entity.Sale, error) {
	for i := range f.sales {
		if f.sales[i].ID == id {
			return &f.sales[i], nil
		}
	}
	return nil, nil
}

func (f *fakeSaleRepo) List(ctx context.Context, params *pagination.PaginationParams) ([]entity.Sale, int64, error) {
	return f.sales, f.total, nil
}

func saveSaleInput() *SaveSaleInput {
	return &SaveSaleInput{
		Payload: entity.SalePayload{
			Cart: []entity.CartLine{
				{ID: 1, Name: "Beer", Price: 120, Qty: 2},
			},
			Totals: entity.Totals{Subtotal: 240, TablePrice: 500, Payable: 740},
			Reserved: &entity.Table{
				ID:          5,
				Name:        "Tonio",
				TableNumber: "V1",
				PartySize:   4,
				Price:       500,
			},
			Payment: entity.Payment{Method: enum.PaymentCash, AmountReceived: 1000},
			Meta: entity.SaleMeta{
				Flow:      enum.FlowProceed,
				Cashier:   "ignored",
				Timestamp: time.Date(2025, 6, 1, 22, 30, 0, 0, time.UTC),
			},
		},
		CashierID:   uuid.New(),
		CashierName: "ana",
	}
}

func TestSaleService_SaveSaleConvertsToCentavos(t *testing.T) {
	repo := &fakeSaleRepo{nextID: 42}
	svc := NewSaleService(repo)

	saleID, err := svc.SaveSale(context.Background(), saveSaleInput())
	require.NoError(t, err)
	assert.Equal(t, int64(42), saleID)

	sale := repo.created
	require.NotNil(t, sale)
	assert.Equal(t, int64(24000), sale.Subtotal)
	assert.Equal(t, int64(50000), sale.TablePrice)
	assert.Equal(t, int64(74000), sale.Payable)
	assert.Equal(t, "ana", sale.CashierName)

	require.Len(t, sale.Lines, 1)
	assert.Equal(t, int64(12000), sale.Lines[0].UnitPrice)
	assert.Equal(t, int64(24000), sale.Lines[0].Total)

	require.NotNil(t, sale.TableID)
	assert.Equal(t, int64(5), *sale.TableID)
	assert.Contains(t, sale.TableSnapshot, "Tonio")
	assert.Contains(t, sale.PaymentDetail, "cash")
	assert.Equal(t, time.Date(2025, 6, 1, 22, 30, 0, 0, time.UTC), sale.SoldAt)
}

func TestSaleService_SaveSaleRoundsFloatNoise(t *testing.T) {
	repo := &fakeSaleRepo{nextID: 1}
	svc := NewSaleService(repo)

	input := saveSaleInput()
	input.Payload.Totals.Payable = 19.999999999999996 // 0.1+19.9 style drift

	_, err := svc.SaveSale(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, int64(2000), repo.created.Payable)
}

func TestSaleService_SaveSaleRejectsEmptyCart(t *testing.T) {
	svc := NewSaleService(&fakeSaleRepo{})

	input := saveSaleInput()
	input.Payload.Cart = nil

	_, err := svc.SaveSale(context.Background(), input)
	require.Error(t, err)
	appErr := apperror.GetAppError(err)
	assert.Equal(t, http.StatusBadRequest, appErr.Code)
	assert.Equal(t, "Cart is empty", appErr.Message)
}

func TestSaleService_SaveSaleRejectsZeroQty(t *testing.T) {
	svc := NewSaleService(&fakeSaleRepo{})

	input := saveSaleInput()
	input.Payload.Cart[0].Qty = 0

	_, err := svc.SaveSale(context.Background(), input)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperror.GetAppError(err).Code)
}

func TestSaleService_SaveSaleDefaultsSoldAt(t *testing.T) {
	repo := &fakeSaleRepo{nextID: 1}
	svc := NewSaleService(repo)

	input := saveSaleInput()
	input.Payload.Meta.Timestamp = time.Time{}

	_, err := svc.SaveSale(context.Background(), input)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), repo.created.SoldAt, 5*time.Second)
}

func TestSaleService_GetSaleNotFound(t *testing.T) {
	svc := NewSaleService(&fakeSaleRepo{})

	_, err := svc.GetSale(context.Background(), 99)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apperror.GetAppError(err).Code)
}

func TestSaleService_ListSales(t *testing.T) {
	repo := &fakeSaleRepo{
		sales: []entity.Sale{{ID: 2}, {ID: 1}},
		total: 2,
	}
	svc := NewSaleService(repo)

	result, err := svc.ListSales(context.Background(), &pagination.PaginationParams{Page: 1, PerPage: 10})
	require.NoError(t, err)
	assert.Len(t, result.Items, 2)
	assert.Equal(t, int64(2), result.Pagination.Total)
}
