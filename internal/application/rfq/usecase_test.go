package rfq_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/storefront-api/internal/application/dto"
	"github.com/jhoicas/storefront-api/internal/application/rfq"
	"github.com/jhoicas/storefront-api/internal/application/tasks"
	"github.com/jhoicas/storefront-api/internal/domain"
	"github.com/jhoicas/storefront-api/internal/domain/entity"
	"github.com/jhoicas/storefront-api/internal/testutil"
)

func TestNextCode(t *testing.T) {
	assert.Equal(t, "RFQ2026100001", rfq.NextCode("RFQ202610", ""))
	assert.Equal(t, "RFQ2026100008", rfq.NextCode("RFQ202610", "RFQ2026100007"))
	assert.Equal(t, "RFQ2026100100", rfq.NextCode("RFQ202610", "RFQ2026100099"))
	assert.Equal(t, "RFQ2026110001", rfq.NextCode("RFQ202611", "RFQ2026100042"), "mes nuevo reinicia la secuencia")
	assert.Equal(t, "RFQ20261010000", rfq.NextCode("RFQ202610", "RFQ2026109999"))
	assert.Equal(t, "RFQ20261010001", rfq.NextCode("RFQ202610", "RFQ20261010000"))
}

func TestCodePrefix(t *testing.T) {
	assert.Equal(t, "RFQ202603", rfq.CodePrefix(time.Date(2026, 3, 31, 23, 0, 0, 0, time.UTC)))
}

var customer = &entity.Account{ID: "acc-1", Email: "jane@test.com", FullName: "Jane Doe", Phone: "555", Role: entity.RoleCustomer}

func newUC(rfqs *testutil.RFQs) (*rfq.RFQUseCase, *testutil.Notifier, *tasks.Runner) {
	n := &testutil.Notifier{}
	r := tasks.NewRunner(nil, time.Second)
	uc := rfq.NewRFQUseCase(rfqs, testutil.NewAccounts(customer), n, r)
	uc.SetClock(func() time.Time { return time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC) })
	return uc, n, r
}

func createReq() dto.CreateRFQRequest {
	return dto.CreateRFQRequest{Items: []dto.RFQItemDTO{{ProductName: "Cable 12AWG", Quantity: 500, Unit: "m"}}}
}

func TestCreate_CodigosCrecientesEnElMes(t *testing.T) {
	uc, n, runner := newUC(testutil.NewRFQs())
	ctx := context.Background()

	var codes []string
	for i := 0; i < 3; i++ {
		out, err := uc.Create(ctx, "acc-1", createReq())
		require.NoError(t, err)
		codes = append(codes, out.Code)
	}
	runner.Wait()
	assert.Equal(t, []string{"RFQ2026100001", "RFQ2026100002", "RFQ2026100003"}, codes)
	assert.Len(t, n.Events(), 3)
}

func TestCreate_SecuenciaPasaDe9999(t *testing.T) {
	uc, _, runner := newUC(testutil.NewRFQs(&entity.RFQ{ID: "r0", Code: "RFQ2026109999", AccountID: "acc-1"}))
	ctx := context.Background()

	first, err := uc.Create(ctx, "acc-1", createReq())
	require.NoError(t, err)
	second, err := uc.Create(ctx, "acc-1", createReq())
	require.NoError(t, err)
	runner.Wait()

	assert.Equal(t, "RFQ20261010000", first.Code)
	assert.Equal(t, "RFQ20261010001", second.Code, "10000 se reconoce como el mayor")
}

func TestCreate_ContactoPorDefectoDesdeLaCuenta(t *testing.T) {
	uc, _, _ := newUC(testutil.NewRFQs())
	req := createReq()
	req.Contact = &dto.RFQContactDTO{Company: "ACME"}

	out, err := uc.Create(context.Background(), "acc-1", req)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", out.Contact.FullName)
	assert.Equal(t, "jane@test.com", out.Contact.Email)
	assert.Equal(t, "ACME", out.Contact.Company)
	assert.Equal(t, entity.RFQStatusPending, out.Status)
}

func TestCreate_SinItems(t *testing.T) {
	uc, _, _ := newUC(testutil.NewRFQs())
	_, err := uc.Create(context.Background(), "acc-1", dto.CreateRFQRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// colisionRFQs simula la carrera: LatestCodeWithPrefix devuelve un valor viejo.
type colisionRFQs struct{ *testutil.RFQs }

func (c colisionRFQs) LatestCodeWithPrefix(context.Context, string) (string, error) { return "", nil }

func TestCreate_ColisionDeCodigoEsConflicto(t *testing.T) {
	base := testutil.NewRFQs(&entity.RFQ{ID: "r0", Code: "RFQ2026100001", AccountID: "acc-1"})
	uc := rfq.NewRFQUseCase(colisionRFQs{base}, testutil.NewAccounts(customer), nil, nil)
	uc.SetClock(func() time.Time { return time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC) })

	_, err := uc.Create(context.Background(), "acc-1", createReq())
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestGet_SoloDuenoOAdmin(t *testing.T) {
	rfqs := testutil.NewRFQs(&entity.RFQ{ID: "r1", Code: "RFQ2026100001", AccountID: "acc-1"})
	uc, _, _ := newUC(rfqs)
	ctx := context.Background()

	_, err := uc.Get(ctx, "r1", "acc-1", entity.RoleCustomer)
	assert.NoError(t, err)
	_, err = uc.Get(ctx, "r1", "admin-1", entity.RoleAdmin)
	assert.NoError(t, err)
	_, err = uc.Get(ctx, "r1", "staff-1", entity.RoleStaff)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = uc.Get(ctx, "r1", "otro", entity.RoleCustomer)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = uc.Get(ctx, "nope", "acc-1", entity.RoleCustomer)
	assert.ErrorIs(t, err, domain.ErrRFQNotFound)
}

func TestUpdateStatus(t *testing.T) {
	rfqs := testutil.NewRFQs(&entity.RFQ{ID: "r1", Code: "RFQ2026100001", AccountID: "acc-1", Status: entity.RFQStatusPending})
	uc, n, runner := newUC(rfqs)
	q := "Q-77"

	out, err := uc.UpdateStatus(context.Background(), "r1", dto.UpdateRFQStatusRequest{Status: entity.RFQStatusQuoted, QuotationID: &q})
	require.NoError(t, err)
	runner.Wait()
	assert.Equal(t, entity.RFQStatusQuoted, out.Status)
	require.NotNil(t, out.QuotationID)
	assert.Equal(t, "Q-77", *out.QuotationID)
	require.Len(t, n.Events(), 1)
	assert.Equal(t, "acc-1", n.Events()[0].Target)

	_, err = uc.UpdateStatus(context.Background(), "r1", dto.UpdateRFQStatusRequest{Status: "WON"})
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
	_, err = uc.UpdateStatus(context.Background(), "nope", dto.UpdateRFQStatusRequest{Status: entity.RFQStatusQuoted})
	assert.ErrorIs(t, err, domain.ErrRFQNotFound)
}

func TestListMine(t *testing.T) {
	rfqs := testutil.NewRFQs(
		&entity.RFQ{ID: "r1", Code: "RFQ2026100001", AccountID: "acc-1", Status: entity.RFQStatusPending},
		&entity.RFQ{ID: "r2", Code: "RFQ2026100002", AccountID: "otro", Status: entity.RFQStatusPending},
	)
	uc, _, _ := newUC(rfqs)
	out, err := uc.ListMine(context.Background(), "acc-1", dto.RFQListQuery{})
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "r1", out.Items[0].ID)

	all, err := uc.ListAll(context.Background(), dto.RFQListQuery{})
	require.NoError(t, err)
	assert.Equal(t, 2, all.Page.Total)
}
