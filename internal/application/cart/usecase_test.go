package cart_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/storefront-api/internal/application/cart"
	"github.com/jhoicas/storefront-api/internal/application/dto"
	"github.com/jhoicas/storefront-api/internal/domain"
	"github.com/jhoicas/storefront-api/internal/domain/entity"
	"github.com/jhoicas/storefront-api/internal/testutil"
)

const acc = "acc-1"

func product(id string, price int64, stock int) *entity.Product {
	return &entity.Product{ID: id, SKU: "SKU-" + id, Name: "Producto " + id, Price: decimal.NewFromInt(price), Stock: stock, IsActive: true}
}

func setup(ps ...*entity.Product) (*cart.CartUseCase, *testutil.Products, *testutil.Carts) {
	products := testutil.NewProducts(ps...)
	carts := testutil.NewCarts()
	return cart.NewCartUseCase(carts, products), products, carts
}

func TestAddItem_ExcedeStock_NoModificaCarrito(t *testing.T) {
	uc, _, carts := setup(product("P", 10, 5))
	ctx := context.Background()

	out, err := uc.AddItem(ctx, acc, dto.AddCartItemRequest{ProductID: "P", Quantity: 3})
	require.NoError(t, err)
	assert.Equal(t, 3, out.TotalItems)

	_, err = uc.AddItem(ctx, acc, dto.AddCartItemRequest{ProductID: "P", Quantity: 4})
	assert.ErrorIs(t, err, domain.ErrExceedsStock)
	assert.Contains(t, err.Error(), "exceed available stock")

	items := carts.Items(acc)
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)
}

func TestAddItem_SumaCantidadEnLineaExistente(t *testing.T) {
	uc, _, _ := setup(product("P", 10, 5))
	ctx := context.Background()

	_, err := uc.AddItem(ctx, acc, dto.AddCartItemRequest{ProductID: "P", Quantity: 2})
	require.NoError(t, err)
	out, err := uc.AddItem(ctx, acc, dto.AddCartItemRequest{ProductID: "P", Quantity: 3})
	require.NoError(t, err)

	require.Len(t, out.Items, 1)
	assert.Equal(t, 5, out.Items[0].Quantity)
	assert.True(t, decimal.NewFromInt(50).Equal(out.TotalAmount))
}

func TestAddItem_ProductoInexistenteOInactivo(t *testing.T) {
	inactive := product("I", 10, 5)
	inactive.IsActive = false
	uc, _, _ := setup(inactive, product("Z", 10, 0))
	ctx := context.Background()

	_, err := uc.AddItem(ctx, acc, dto.AddCartItemRequest{ProductID: "nope", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)

	_, err = uc.AddItem(ctx, acc, dto.AddCartItemRequest{ProductID: "I", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrProductUnavailable)

	_, err = uc.AddItem(ctx, acc, dto.AddCartItemRequest{ProductID: "Z", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrProductUnavailable)
}

func TestGet_FiltraInactivosYAgotadosYRecortaCantidad(t *testing.T) {
	uc, products, carts := setup(product("A", 10, 5), product("B", 20, 5), product("C", 30, 5))
	ctx := context.Background()

	for _, id := range []string{"A", "B", "C"} {
		_, err := uc.AddItem(ctx, acc, dto.AddCartItemRequest{ProductID: id, Quantity: 4})
		require.NoError(t, err)
	}
	products.SetActive("A", false)
	products.SetStock("B", 0)
	products.SetStock("C", 2)

	out, err := uc.Get(ctx, acc)
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "C", out.Items[0].ProductID)
	assert.Equal(t, 2, out.Items[0].Quantity)
	assert.Equal(t, 2, out.TotalItems)
	assert.True(t, decimal.NewFromInt(60).Equal(out.TotalAmount))

	// el recorte es solo de lectura
	assert.Len(t, carts.Items(acc), 3)
}

func TestUpdateItem_CeroEliminaYExcesoFalla(t *testing.T) {
	uc, _, _ := setup(product("P", 10, 5))
	ctx := context.Background()
	_, err := uc.AddItem(ctx, acc, dto.AddCartItemRequest{ProductID: "P", Quantity: 2})
	require.NoError(t, err)

	_, err = uc.UpdateItem(ctx, acc, "P", 6)
	assert.ErrorIs(t, err, domain.ErrExceedsStock)

	out, err := uc.UpdateItem(ctx, acc, "P", 5)
	require.NoError(t, err)
	assert.Equal(t, 5, out.TotalItems)

	out, err = uc.UpdateItem(ctx, acc, "P", 0)
	require.NoError(t, err)
	assert.Empty(t, out.Items)

	_, err = uc.UpdateItem(ctx, acc, "P", 1)
	assert.ErrorIs(t, err, domain.ErrCartItemNotFound)
}

func TestRemoveYClear(t *testing.T) {
	uc, _, carts := setup(product("P", 10, 5), product("Q", 10, 5))
	ctx := context.Background()
	_, _ = uc.AddItem(ctx, acc, dto.AddCartItemRequest{ProductID: "P", Quantity: 1})
	_, _ = uc.AddItem(ctx, acc, dto.AddCartItemRequest{ProductID: "Q", Quantity: 1})

	out, err := uc.RemoveItem(ctx, acc, "P")
	require.NoError(t, err)
	assert.Len(t, out.Items, 1)

	_, err = uc.RemoveItem(ctx, acc, "P")
	assert.ErrorIs(t, err, domain.ErrCartItemNotFound)

	require.NoError(t, uc.Clear(ctx, acc))
	assert.Empty(t, carts.Items(acc))

	empty, err := uc.Get(ctx, acc)
	require.NoError(t, err)
	assert.Empty(t, empty.Items)
	assert.True(t, empty.TotalAmount.IsZero())
}
