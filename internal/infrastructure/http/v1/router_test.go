package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pricetable/internal/core/types"
	"pricetable/internal/domain/filter"
	"pricetable/internal/domain/pricetable"
	"pricetable/internal/domain/product"
	"pricetable/internal/infrastructure/session"
	"pricetable/pkg/logger"
)

type gatewayCall struct {
	method     string
	pagination product.Pagination
	value      string
}

// recordingGateway answers immediately and remembers what it was asked.
type recordingGateway struct {
	mu    sync.Mutex
	calls []gatewayCall
}

func (g *recordingGateway) record(method string, p product.Pagination, value string) (product.Page, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, gatewayCall{method: method, pagination: p, value: value})
	return product.Page{
		Products: []product.Product{
			{Description: "White rice", CurrentPrice: types.SomeMoney(types.MustMoney("4.99"))},
			{Description: "Beans"},
		},
		RowCount: 12,
	}, nil
}

func (g *recordingGateway) last() gatewayCall {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls[len(g.calls)-1]
}

func (g *recordingGateway) count() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.calls)
}

func (g *recordingGateway) GetPagedProducts(_ context.Context, p product.Pagination) (product.Page, error) {
	return g.record("GetPagedProducts", p, "")
}

func (g *recordingGateway) GetAllProducts(_ context.Context, p product.Pagination) (product.Page, error) {
	return g.record("GetAllProducts", p, "")
}

func (g *recordingGateway) GetProductsContaining(_ context.Context, p product.Pagination, v string) (product.Page, error) {
	return g.record("GetProductsContaining", p, v)
}

func (g *recordingGateway) GetProductsStartingWith(_ context.Context, p product.Pagination, v string) (product.Page, error) {
	return g.record("GetProductsStartingWith", p, v)
}

func (g *recordingGateway) GetProductsEndingWith(_ context.Context, p product.Pagination, v string) (product.Page, error) {
	return g.record("GetProductsEndingWith", p, v)
}

func (g *recordingGateway) GetByBarcode(_ context.Context, barcode string) (product.LookupResponse, error) {
	switch barcode {
	case "404":
		return product.LookupResponse{Status: http.StatusNotFound}, nil
	case "bad":
		return product.LookupResponse{
			Status:     http.StatusBadRequest,
			Validation: &product.ValidationError{Violations: []product.Violation{{Field: "barcode", Message: "must be numeric"}}},
		}, nil
	}
	return product.LookupResponse{
		Status:  http.StatusCreated,
		Product: &product.Product{Description: "Coffee", Barcode: barcode},
	}, nil
}

type testAPI struct {
	router   *gin.Engine
	gateway  *recordingGateway
	sessions *session.Manager
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	g := &recordingGateway{}
	sessions := session.NewManager(session.ManagerConfig{}, g, logger.NewNop())
	t.Cleanup(sessions.Close)

	format, err := types.NewFormatter("en-US", "$")
	require.NoError(t, err)
	matcher, err := filter.NewLocalMatcher()
	require.NoError(t, err)

	router := NewRouter(RouterConfig{
		Logger:   logger.NewNop(),
		Gateway:  g,
		Sessions: sessions,
		Views:    pricetable.NewViewBuilder(format, matcher),
		Version:  "test",
	})
	return &testAPI{router: router, gateway: g, sessions: sessions}
}

func (a *testAPI) do(t *testing.T, method, path, sessionID string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if sessionID != "" {
		req.Header.Set("X-Session-ID", sessionID)
	}

	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

// openSession creates a session and waits for its initial fetch.
func (a *testAPI) openSession(t *testing.T) string {
	t.Helper()

	rec := a.do(t, http.MethodPost, "/api/v1/sessions", "", nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		SessionID string `json:"sessionId"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.SessionID)

	a.settle(t, resp.SessionID)
	return resp.SessionID
}

func (a *testAPI) settle(t *testing.T, id string) {
	t.Helper()
	w, err := a.sessions.Get(id)
	require.NoError(t, err)
	w.Wait()
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestRouter_Health(t *testing.T) {
	api := newTestAPI(t)

	assert.Equal(t, http.StatusOK, api.do(t, http.MethodGet, "/health/live", "", nil).Code)

	rec := api.do(t, http.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "GetPagedProducts", api.gateway.last().method)

	rec = api.do(t, http.MethodGet, "/health/info", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"version":"test"`)
}

func TestRouter_SessionRequired(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodGet, "/api/v1/table", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(t, http.MethodGet, "/api/v1/table", "not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(t, http.MethodGet, "/api/v1/table", "8b8a6f1e-6a3c-4a7e-9d43-2f1b0c9e1d11", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", decode[map[string]any](t, rec)["code"])
}

func TestRouter_TableLifecycle(t *testing.T) {
	api := newTestAPI(t)
	sid := api.openSession(t)

	assert.Equal(t, gatewayCall{method: "GetAllProducts", pagination: product.Pagination{Page: 0, PageSize: 5}}, api.gateway.last())

	rec := api.do(t, http.MethodGet, "/api/v1/table", sid, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	view := decode[pricetable.TableView](t, rec)
	assert.False(t, view.Loading)
	assert.Equal(t, 12, view.RowCount)
	assert.Equal(t, 3, view.TotalPages)
	require.Len(t, view.Rows, 2)
	assert.Equal(t, "Beans", view.Rows[0].Description)
	assert.Equal(t, "nothing", view.Rows[0].CurrentPriceFormatted)
	assert.Equal(t, "$ 4.99", view.Rows[1].CurrentPriceFormatted)

	rec = api.do(t, http.MethodPost, "/api/v1/table/page", sid, map[string]int{"page": 2})
	assert.Equal(t, http.StatusAccepted, rec.Code)
	api.settle(t, sid)
	assert.Equal(t, product.Pagination{Page: 2, PageSize: 5}, api.gateway.last().pagination)

	rec = api.do(t, http.MethodPost, "/api/v1/table/page-size", sid, map[string]int{"pageSize": 20})
	assert.Equal(t, http.StatusAccepted, rec.Code)
	api.settle(t, sid)
	assert.Equal(t, product.Pagination{Page: 2, PageSize: 20}, api.gateway.last().pagination)

	rec = api.do(t, http.MethodPost, "/api/v1/table/page-size", sid, map[string]int{"pageSize": 7})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(t, http.MethodPost, "/api/v1/table/page", sid, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_ClientSideFilter(t *testing.T) {
	api := newTestAPI(t)
	sid := api.openSession(t)
	before := api.gateway.count()

	rec := api.do(t, http.MethodPost, "/api/v1/table/filter", sid, map[string]any{
		"items": []map[string]any{{"columnField": "description", "operatorValue": "contains", "value": "rice"}},
	})
	require.Equal(t, http.StatusAccepted, rec.Code)
	resp := decode[map[string]any](t, rec)
	assert.Equal(t, false, resp["forwarded"])
	assert.Equal(t, "client", resp["filterMode"])
	assert.Equal(t, before, api.gateway.count())

	rec = api.do(t, http.MethodGet, "/api/v1/table?operator=contains&value=RICE", sid, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	view := decode[pricetable.TableView](t, rec)
	require.Len(t, view.Rows, 1)
	assert.Equal(t, "White rice", view.Rows[0].Description)

	rec = api.do(t, http.MethodGet, "/api/v1/table?operator=regex&value=x", sid, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_ServerSideFilter(t *testing.T) {
	api := newTestAPI(t)
	sid := api.openSession(t)
	before := api.gateway.count()

	rec := api.do(t, http.MethodPost, "/api/v1/table/server-side", sid, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decode[map[string]any](t, rec)["serverSide"])
	assert.Equal(t, before, api.gateway.count(), "toggling does not fetch")

	rec = api.do(t, http.MethodPost, "/api/v1/table/filter", sid, map[string]any{
		"items": []map[string]any{{"columnField": "description", "operatorValue": "endsWith", "value": "ice"}},
	})
	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, true, decode[map[string]any](t, rec)["forwarded"])
	api.settle(t, sid)

	last := api.gateway.last()
	assert.Equal(t, "GetProductsEndingWith", last.method)
	assert.Equal(t, "ice", last.value)

	rec = api.do(t, http.MethodPost, "/api/v1/table/filter", sid, map[string]any{
		"items": []map[string]any{{"columnField": "barcode", "operatorValue": "contains", "value": "1"}},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_Retry(t *testing.T) {
	api := newTestAPI(t)
	sid := api.openSession(t)
	before := api.gateway.count()

	rec := api.do(t, http.MethodPost, "/api/v1/table/retry", sid, nil)
	assert.Equal(t, http.StatusAccepted, rec.Code)
	api.settle(t, sid)
	assert.Equal(t, before+1, api.gateway.count())
}

func TestRouter_Lookup(t *testing.T) {
	api := newTestAPI(t)
	sid := api.openSession(t)

	rec := api.do(t, http.MethodPost, "/api/v1/lookup", sid, map[string]string{"barcode": "789"})
	require.Equal(t, http.StatusAccepted, rec.Code)
	api.settle(t, sid)

	rec = api.do(t, http.MethodGet, "/api/v1/lookup", sid, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	modal := decode[map[string]any](t, rec)
	assert.Equal(t, true, modal["open"])
	assert.Equal(t, "success", modal["severity"])
	assert.Equal(t, "Product created!", modal["message"])

	rec = api.do(t, http.MethodPost, "/api/v1/lookup/close", sid, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, decode[map[string]any](t, rec)["open"])

	api.do(t, http.MethodPost, "/api/v1/lookup", sid, map[string]string{"barcode": "404"})
	api.settle(t, sid)
	modal = decode[map[string]any](t, api.do(t, http.MethodGet, "/api/v1/lookup", sid, nil))
	assert.Equal(t, true, modal["notFound"])
	assert.Nil(t, modal["body"])
}

func TestRouter_LookupFieldErrors(t *testing.T) {
	api := newTestAPI(t)
	sid := api.openSession(t)

	api.do(t, http.MethodPost, "/api/v1/lookup", sid, map[string]string{"barcode": "bad"})
	api.settle(t, sid)

	rec := api.do(t, http.MethodGet, "/api/v1/lookup/field-errors", sid, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[struct {
		Violations []product.Violation `json:"violations"`
	}](t, rec)
	require.Len(t, resp.Violations, 1)
	assert.Equal(t, "barcode", resp.Violations[0].Field)

	modal := decode[map[string]any](t, api.do(t, http.MethodGet, "/api/v1/lookup", sid, nil))
	assert.Equal(t, false, modal["open"])

	// A new search clears the previous field errors.
	api.do(t, http.MethodPost, "/api/v1/lookup", sid, map[string]string{"barcode": "789"})
	api.settle(t, sid)
	resp = decode[struct {
		Violations []product.Violation `json:"violations"`
	}](t, api.do(t, http.MethodGet, "/api/v1/lookup/field-errors", sid, nil))
	assert.Empty(t, resp.Violations)
}

func TestRouter_DeleteSession(t *testing.T) {
	api := newTestAPI(t)
	sid := api.openSession(t)

	rec := api.do(t, http.MethodDelete, "/api/v1/sessions", sid, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(t, http.MethodGet, "/api/v1/table", sid, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
