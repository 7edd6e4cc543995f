package catalog

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockContent implements ContentClient
type mockContent struct {
	result  json.RawMessage
	err     error
	fetches int
}

func (m *mockContent) Fetch(_ context.Context, _ string, _ map[string]string) (json.RawMessage, error) {
	m.fetches++
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

// mockCache implements ProductCache
type mockCache struct {
	m        sync.RWMutex
	products map[string]*Product
	getErr   error
}

func newMockCache() *mockCache {
	return &mockCache{products: map[string]*Product{}}
}

func (m *mockCache) Get(_ context.Context, slug string) (*Product, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	product, ok := m.products[slug]
	if !ok {
		return nil, ErrCacheMiss
	}
	return product, nil
}

func (m *mockCache) Set(_ context.Context, slug string, product *Product) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.products[slug] = product
	return nil
}

func (m *mockCache) Delete(_ context.Context, slug string) error {
	m.m.Lock()
	defer m.m.Unlock()
	delete(m.products, slug)
	return nil
}

const bracketDoc = `{
	"_id": "prod-1",
	"title": "Steel Bracket",
	"slug": "steel-bracket",
	"pricing": {"basePrice": 10.00, "salePrice": 8.50, "currency": "USD"},
	"variants": [{"name": "Large", "sku": "BRK-L", "price": 12.00}]
}`

func TestProductBySlug_CacheMissFetchesAndCaches(t *testing.T) {
	content := &mockContent{result: json.RawMessage(bracketDoc)}
	cache := newMockCache()
	sut := NewService(content, cache)

	product, err := sut.ProductBySlug(context.Background(), "steel-bracket")
	require.NoError(t, err)
	require.NotNil(t, product)
	assert.Equal(t, "Steel Bracket", product.Title)
	assert.Equal(t, 1, content.fetches)

	// cache set happens off the request path
	require.Eventually(t, func() bool {
		_, err := cache.Get(context.Background(), "steel-bracket")
		return err == nil
	}, time.Second, 10*time.Millisecond)
}

func TestProductBySlug_CacheHitSkipsContent(t *testing.T) {
	content := &mockContent{result: json.RawMessage(bracketDoc)}
	cache := newMockCache()
	cache.products["steel-bracket"] = &Product{ID: "prod-1", Title: "Steel Bracket", Slug: "steel-bracket"}
	sut := NewService(content, cache)

	product, err := sut.ProductBySlug(context.Background(), "steel-bracket")
	require.NoError(t, err)
	require.NotNil(t, product)
	assert.Equal(t, 0, content.fetches)
}

func TestProductBySlug_NullIsNotFoundNotError(t *testing.T) {
	content := &mockContent{result: nil}
	sut := NewService(content, newMockCache())

	product, err := sut.ProductBySlug(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Nil(t, product)
}

func TestProductBySlug_CacheErrorFallsThrough(t *testing.T) {
	content := &mockContent{result: json.RawMessage(bracketDoc)}
	cache := newMockCache()
	cache.getErr = assert.AnError
	sut := NewService(content, cache)

	product, err := sut.ProductBySlug(context.Background(), "steel-bracket")
	require.NoError(t, err)
	require.NotNil(t, product)
	assert.Equal(t, 1, content.fetches)
}

func TestProducts_DecodesList(t *testing.T) {
	content := &mockContent{result: json.RawMessage(`[` + bracketDoc + `]`)}
	sut := NewService(content, newMockCache())

	products, err := sut.Products(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "steel-bracket", products[0].Slug)
}

func TestProducts_NullIsEmptyList(t *testing.T) {
	content := &mockContent{result: nil}
	sut := NewService(content, newMockCache())

	products, err := sut.Products(context.Background())
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestEffectivePrice(t *testing.T) {
	sale := decimal.RequireFromString("8.50")
	withSale := &Product{Pricing: Pricing{BasePrice: decimal.RequireFromString("10.00"), SalePrice: &sale}}
	assert.True(t, withSale.EffectivePrice().Equal(sale))

	noSale := &Product{Pricing: Pricing{BasePrice: decimal.RequireFromString("10.00")}}
	assert.True(t, noSale.EffectivePrice().Equal(decimal.RequireFromString("10.00")))
}
