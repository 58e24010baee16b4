package postgres

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/storefront-api/internal/domain"
	"github.com/jhoicas/storefront-api/internal/domain/entity"
	"github.com/jhoicas/storefront-api/pkg/config"
)

// testPool queda en nil si no hay Docker o se corre con -short.
var testPool *pgxpool.Pool

func TestMain(m *testing.M) {
	os.Exit(runWithPostgres(m))
}

func runWithPostgres(m *testing.M) int {
	flag.Parse()
	if testing.Short() || os.Getenv("SKIP_DB_TESTS") != "" {
		return m.Run()
	}

	pool, err := dockertest.NewPool("")
	if err != nil {
		log.Printf("dockertest no disponible: %s", err)
		return m.Run()
	}
	if err := pool.Client.Ping(); err != nil {
		log.Printf("Docker no responde: %s", err)
		return m.Run()
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_USER=storefront",
			"POSTGRES_PASSWORD=storefront",
			"POSTGRES_DB=storefront_test",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		log.Printf("no se pudo iniciar PostgreSQL: %s", err)
		return m.Run()
	}
	defer func() {
		if err := pool.Purge(resource); err != nil {
			log.Printf("purge: %s", err)
		}
	}()
	_ = resource.Expire(300)

	dsn := fmt.Sprintf("postgres://storefront:storefront@%s/storefront_test?sslmode=disable", resource.GetHostPort("5432/tcp"))
	pool.MaxWait = 60 * time.Second
	if err := pool.Retry(func() error {
		p, errRetry := NewPool(context.Background(), config.DBConfig{DatabaseURL: dsn})
		if errRetry != nil {
			return errRetry
		}
		testPool = p
		return nil
	}); err != nil {
		log.Printf("PostgreSQL no respondió: %s", err)
		return 1
	}
	defer testPool.Close()

	if err := Migrate(dsn); err != nil {
		log.Printf("migraciones: %s", err)
		return 1
	}
	return m.Run()
}

func requireDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testPool == nil {
		t.Skip("PostgreSQL de prueba no disponible")
	}
	return testPool
}

func seedAccount(t *testing.T, repo *AccountRepo, email string) *entity.Account {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Microsecond)
	a := &entity.Account{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: "hash",
		FullName:     "Cliente Prueba",
		Role:         entity.RoleCustomer,
		IsActive:     true,
		IsVerified:   true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, repo.Create(context.Background(), a))
	return a
}

func newOrder(accountID, code, status string) *entity.Order {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &entity.Order{
		ID:        uuid.NewString(),
		Code:      code,
		AccountID: accountID,
		Items: []entity.OrderItem{{
			ProductID: uuid.NewString(),
			Name:      "Taladro",
			SKU:       "TAL-01",
			Price:     decimal.RequireFromString("120.50"),
			Quantity:  2,
			Subtotal:  decimal.RequireFromString("241.00"),
		}},
		ShippingAddress: entity.ShippingAddress{
			FullName: "Cliente Prueba",
			Phone:    "3001234567",
			Street:   "Calle 1 # 2-3",
			City:     "Bogotá",
		},
		PaymentMethod: entity.PaymentCOD,
		Status:        status,
		TotalAmount:   decimal.RequireFromString("241.00"),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func newRFQ(accountID, code string) *entity.RFQ {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &entity.RFQ{
		ID:        uuid.NewString(),
		Code:      code,
		AccountID: accountID,
		Items:     []entity.RFQItem{{ProductName: "Tornillo", Quantity: 500, Unit: "und"}},
		Contact:   entity.RFQContact{FullName: "Compras", Email: "compras@test.com"},
		Status:    entity.RFQStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestOrderRepo_CreateYGetByID_ConservaJSONB(t *testing.T) {
	db := requireDB(t)
	ctx := context.Background()
	acc := seedAccount(t, NewAccountRepository(db), "jsonb@test.com")
	orders := NewOrderRepository(db)

	o := newOrder(acc.ID, "ORD-JSONB-1", entity.OrderStatusPending)
	require.NoError(t, orders.Create(ctx, o))

	got, err := orders.GetByID(ctx, o.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "TAL-01", got.Items[0].SKU)
	assert.True(t, got.Items[0].Price.Equal(decimal.RequireFromString("120.50")))
	assert.Equal(t, "Bogotá", got.ShippingAddress.City)
	assert.True(t, got.TotalAmount.Equal(o.TotalAmount))

	missing, err := orders.GetByID(ctx, uuid.NewString())
	require.NoError(t, err)
	assert.Nil(t, missing)

	dup := newOrder(acc.ID, "ORD-JSONB-1", entity.OrderStatusPending)
	assert.ErrorIs(t, orders.Create(ctx, dup), domain.ErrDuplicate)
}

func TestOrderRepo_CancelIfStatus(t *testing.T) {
	db := requireDB(t)
	ctx := context.Background()
	accounts := NewAccountRepository(db)
	owner := seedAccount(t, accounts, "owner-cancel@test.com")
	other := seedAccount(t, accounts, "other-cancel@test.com")
	orders := NewOrderRepository(db)

	pending := newOrder(owner.ID, "ORD-CANCEL-1", entity.OrderStatusPending)
	shipped := newOrder(owner.ID, "ORD-CANCEL-2", entity.OrderStatusShipped)
	require.NoError(t, orders.Create(ctx, pending))
	require.NoError(t, orders.Create(ctx, shipped))
	at := time.Now().UTC()

	t.Run("otra cuenta no cancela", func(t *testing.T) {
		o, err := orders.CancelIfStatus(ctx, pending.ID, other.ID, entity.CancellableStatuses, at)
		require.NoError(t, err)
		assert.Nil(t, o)
	})

	t.Run("estado no cancelable", func(t *testing.T) {
		o, err := orders.CancelIfStatus(ctx, shipped.ID, owner.ID, entity.CancellableStatuses, at)
		require.NoError(t, err)
		assert.Nil(t, o)
		still, err := orders.GetByID(ctx, shipped.ID)
		require.NoError(t, err)
		assert.Equal(t, entity.OrderStatusShipped, still.Status)
	})

	t.Run("el dueño cancela una sola vez", func(t *testing.T) {
		o, err := orders.CancelIfStatus(ctx, pending.ID, owner.ID, entity.CancellableStatuses, at)
		require.NoError(t, err)
		require.NotNil(t, o)
		assert.Equal(t, entity.OrderStatusCancelled, o.Status)
		assert.Len(t, o.Items, 1)

		again, err := orders.CancelIfStatus(ctx, pending.ID, owner.ID, entity.CancellableStatuses, at)
		require.NoError(t, err)
		assert.Nil(t, again)
	})
}

func TestRFQRepo_LatestCodeWithPrefix(t *testing.T) {
	db := requireDB(t)
	ctx := context.Background()
	acc := seedAccount(t, NewAccountRepository(db), "rfq-seq@test.com")
	rfqs := NewRFQRepository(db)

	empty, err := rfqs.LatestCodeWithPrefix(ctx, "RFQ202611")
	require.NoError(t, err)
	assert.Equal(t, "", empty)

	for _, code := range []string{"RFQ2026109998", "RFQ2026109999", "RFQ20261010000", "RFQ2026119999"} {
		require.NoError(t, rfqs.Create(ctx, newRFQ(acc.ID, code)))
	}

	latest, err := rfqs.LatestCodeWithPrefix(ctx, "RFQ202610")
	require.NoError(t, err)
	assert.Equal(t, "RFQ20261010000", latest)

	other, err := rfqs.LatestCodeWithPrefix(ctx, "RFQ202611")
	require.NoError(t, err)
	assert.Equal(t, "RFQ2026119999", other)

	assert.ErrorIs(t, rfqs.Create(ctx, newRFQ(acc.ID, "RFQ2026109999")), domain.ErrDuplicate)
}

func TestAccountRepo_EmailDuplicado(t *testing.T) {
	db := requireDB(t)
	accounts := NewAccountRepository(db)
	seedAccount(t, accounts, "dup@test.com")

	now := time.Now().UTC()
	err := accounts.Create(context.Background(), &entity.Account{
		ID:           uuid.NewString(),
		Email:        "dup@test.com",
		PasswordHash: "hash",
		Role:         entity.RoleCustomer,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}
