package pricetable

import (
	"context"
	"testing"
	"time"

	"pricetable/internal/domain/product"
)

// mockCall is one gateway call held until the test answers it.
type mockCall struct {
	method     string
	pagination product.Pagination
	value      string
	reply      chan mockResult
}

type mockResult struct {
	page product.Page
	err  error
}

func (c *mockCall) respond(page product.Page, err error) {
	c.reply <- mockResult{page: page, err: err}
}

// mockGateway lets tests decide when and in which order fetches settle.
type mockGateway struct {
	calls chan *mockCall
}

func newMockGateway() *mockGateway {
	return &mockGateway{calls: make(chan *mockCall, 16)}
}

func (g *mockGateway) do(method string, p product.Pagination, value string) (product.Page, error) {
	c := &mockCall{method: method, pagination: p, value: value, reply: make(chan mockResult, 1)}
	g.calls <- c
	r := <-c.reply
	return r.page, r.err
}

func (g *mockGateway) next(t *testing.T) *mockCall {
	t.Helper()
	select {
	case c := <-g.calls:
		return c
	case <-time.After(2 * time.Second):
		t.Fatal("expected a gateway call")
		return nil
	}
}

func (g *mockGateway) expectIdle(t *testing.T) {
	t.Helper()
	select {
	case c := <-g.calls:
		t.Fatalf("unexpected gateway call %s", c.method)
	case <-time.After(50 * time.Millisecond):
	}
}

func (g *mockGateway) GetPagedProducts(_ context.Context, p product.Pagination) (product.Page, error) {
	return g.do("GetPagedProducts", p, "")
}

func (g *mockGateway) GetAllProducts(_ context.Context, p product.Pagination) (product.Page, error) {
	return g.do("GetAllProducts", p, "")
}

func (g *mockGateway) GetProductsContaining(_ context.Context, p product.Pagination, v string) (product.Page, error) {
	return g.do("GetProductsContaining", p, v)
}

func (g *mockGateway) GetProductsStartingWith(_ context.Context, p product.Pagination, v string) (product.Page, error) {
	return g.do("GetProductsStartingWith", p, v)
}

func (g *mockGateway) GetProductsEndingWith(_ context.Context, p product.Pagination, v string) (product.Page, error) {
	return g.do("GetProductsEndingWith", p, v)
}

func (g *mockGateway) GetByBarcode(context.Context, string) (product.LookupResponse, error) {
	return product.LookupResponse{}, nil
}

func pageOf(rowCount int, descriptions ...string) product.Page {
	products := make([]product.Product, 0, len(descriptions))
	for _, d := range descriptions {
		products = append(products, product.Product{Description: d})
	}
	return product.Page{Products: products, RowCount: rowCount}
}
