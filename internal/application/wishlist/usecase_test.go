package wishlist_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/storefront-api/internal/application/cart"
	"github.com/jhoicas/storefront-api/internal/application/wishlist"
	"github.com/jhoicas/storefront-api/internal/domain"
	"github.com/jhoicas/storefront-api/internal/domain/entity"
	"github.com/jhoicas/storefront-api/internal/testutil"
)

const acc = "acc-1"

func setup(ps ...*entity.Product) (*wishlist.WishlistUseCase, *cart.CartUseCase, *testutil.Products) {
	products := testutil.NewProducts(ps...)
	cartUC := cart.NewCartUseCase(testutil.NewCarts(), products)
	return wishlist.NewWishlistUseCase(testutil.NewWishlists(), products, cartUC), cartUC, products
}

func product(id string, stock int) *entity.Product {
	return &entity.Product{ID: id, SKU: id, Name: id, Price: decimal.NewFromInt(7), Stock: stock, IsActive: true}
}

func TestAdd_Idempotente(t *testing.T) {
	uc, _, _ := setup(product("P", 3))
	ctx := context.Background()

	_, err := uc.Add(ctx, acc, "P")
	require.NoError(t, err)
	out, err := uc.Add(ctx, acc, "P")
	require.NoError(t, err)
	assert.Equal(t, 1, out.Count)
}

func TestAdd_ProductoInexistenteOInactivo(t *testing.T) {
	off := product("X", 3)
	off.IsActive = false
	uc, _, _ := setup(off)

	_, err := uc.Add(context.Background(), acc, "nope")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
	_, err = uc.Add(context.Background(), acc, "X")
	assert.ErrorIs(t, err, domain.ErrProductUnavailable)
}

func TestGet_OcultaInactivosYAgotados(t *testing.T) {
	uc, _, products := setup(product("A", 3), product("B", 3), product("C", 3))
	ctx := context.Background()
	for _, id := range []string{"A", "B", "C"} {
		_, err := uc.Add(ctx, acc, id)
		require.NoError(t, err)
	}
	products.SetActive("A", false)
	products.SetStock("B", 0)

	out, err := uc.Get(ctx, acc)
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "C", out.Items[0].ProductID)
}

func TestMoveToCart(t *testing.T) {
	uc, cartUC, _ := setup(product("P", 3))
	ctx := context.Background()
	_, err := uc.Add(ctx, acc, "P")
	require.NoError(t, err)

	c, err := uc.MoveToCart(ctx, acc, "P", 2)
	require.NoError(t, err)
	assert.Equal(t, 2, c.TotalItems)

	w, err := uc.Get(ctx, acc)
	require.NoError(t, err)
	assert.Empty(t, w.Items)

	got, err := cartUC.Get(ctx, acc)
	require.NoError(t, err)
	assert.Len(t, got.Items, 1)

	_, err = uc.MoveToCart(ctx, acc, "P", 1)
	assert.ErrorIs(t, err, domain.ErrWishlistItemNotFound)
}

func TestMoveToCart_SinStockSuficiente_ConservaEnLista(t *testing.T) {
	uc, _, _ := setup(product("P", 1))
	ctx := context.Background()
	_, err := uc.Add(ctx, acc, "P")
	require.NoError(t, err)

	_, err = uc.MoveToCart(ctx, acc, "P", 5)
	assert.ErrorIs(t, err, domain.ErrExceedsStock)

	w, err := uc.Get(ctx, acc)
	require.NoError(t, err)
	assert.Len(t, w.Items, 1)
}

func TestRemoveYClear(t *testing.T) {
	uc, _, _ := setup(product("P", 3))
	ctx := context.Background()
	_, _ = uc.Add(ctx, acc, "P")

	_, err := uc.Remove(ctx, acc, "P")
	require.NoError(t, err)
	_, err = uc.Remove(ctx, acc, "P")
	assert.ErrorIs(t, err, domain.ErrWishlistItemNotFound)

	_, _ = uc.Add(ctx, acc, "P")
	require.NoError(t, uc.Clear(ctx, acc))
	out, err := uc.Get(ctx, acc)
	require.NoError(t, err)
	assert.Zero(t, out.Count)
}
