package catalog

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ts(s string) *time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return &t
}

func ids(ps []Product) []int64 {
	out := make([]int64, len(ps))
	for i, p := range ps {
		out[i] = p.ID
	}
	return out
}

func sampleCatalog() []Product {
	return []Product{
		{ID: 1, Name: "Silk Gown", Description: "Evening wear", Price: 100, Category: "A", CreatedAt: ts("2025-10-20")},
		{ID: 2, Name: "Wool Suit", Description: "Charcoal grey", Price: 200, Category: "B", CreatedAt: ts("2025-10-22")},
		{ID: 3, Name: "Cashmere Coat", Description: "Camel wrap with SILK lining", Price: 150},
		{ID: 4, Name: "Linen Shirt", Description: "Summer", Price: 100, Category: "B", CreatedAt: ts("2025-10-21")},
	}
}

func TestApply_CategoryThenQuery(t *testing.T) {
	products := []Product{
		{ID: 1, Price: 100, Category: "A"},
		{ID: 2, Price: 200, Category: "B"},
	}
	c := DefaultCriteria(DefaultMaxPrice)
	c.Categories = []string{"A"}

	got := Apply(products, "", c)
	assert.Equal(t, []int64{1}, ids(got))

	got = Apply(products, "zzz", c)
	assert.Empty(t, got)
}

func TestApply_QueryMatchesNameOrDescription(t *testing.T) {
	got := Apply(sampleCatalog(), "silk", DefaultCriteria(DefaultMaxPrice))
	assert.Equal(t, []int64{1, 3}, ids(got))
}

func TestApply_QueryIsCaseInsensitive(t *testing.T) {
	got := Apply(sampleCatalog(), "WOOL", DefaultCriteria(DefaultMaxPrice))
	assert.Equal(t, []int64{2}, ids(got))
}

func TestApply_UnsetCategoryIsOther(t *testing.T) {
	c := DefaultCriteria(DefaultMaxPrice)
	c.Categories = []string{DefaultCategory}
	got := Apply(sampleCatalog(), "", c)
	assert.Equal(t, []int64{3}, ids(got))
}

func TestApply_PriceRangeInclusive(t *testing.T) {
	c := DefaultCriteria(DefaultMaxPrice)
	c.PriceRange = PriceRange{Min: 100, Max: 150}
	got := Apply(sampleCatalog(), "", c)
	assert.Equal(t, []int64{1, 3, 4}, ids(got))
}

func TestApply_PriceRangeAlwaysApplied(t *testing.T) {
	products := []Product{{ID: 1, Price: 75999}}
	got := Apply(products, "", DefaultCriteria(DefaultMaxPrice))
	assert.Empty(t, got)
}

func TestApply_Sorting(t *testing.T) {
	tests := []struct {
		name string
		key  SortKey
		want []int64
	}{
		{"none keeps catalog order", SortNone, []int64{1, 2, 3, 4}},
		{"price ascending is stable", SortPriceLow, []int64{1, 4, 3, 2}},
		{"price descending is stable", SortPriceHigh, []int64{2, 3, 1, 4}},
		{"newest first, missing timestamp last", SortNewest, []int64{2, 4, 1, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultCriteria(DefaultMaxPrice)
			c.SortBy = tt.key
			assert.Equal(t, tt.want, ids(Apply(sampleCatalog(), "", c)))
		})
	}
}

func TestApply_DoesNotModifyInput(t *testing.T) {
	products := sampleCatalog()
	c := DefaultCriteria(DefaultMaxPrice)
	c.SortBy = SortPriceHigh
	_ = Apply(products, "", c)
	assert.Equal(t, []int64{1, 2, 3, 4}, ids(products))
}

func TestApply_EmptyCatalog(t *testing.T) {
	got := Apply(nil, "x", DefaultCriteria(DefaultMaxPrice))
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestLowerQuery(t *testing.T) {
	assert.Equal(t, "silk gown", LowerQuery("Silk GOWN"))
	assert.Equal(t, "", LowerQuery(""))
}

func TestParseSortKey(t *testing.T) {
	for _, in := range []string{"", "none"} {
		k, err := ParseSortKey(in)
		require.NoError(t, err)
		assert.Equal(t, SortNone, k)
	}
	k, err := ParseSortKey("newest")
	require.NoError(t, err)
	assert.Equal(t, SortNewest, k)

	_, err = ParseSortKey("cheapest")
	assert.Error(t, err)
}

func TestCategories(t *testing.T) {
	assert.Equal(t, []string{"A", "B", DefaultCategory}, Categories(sampleCatalog()))
	assert.Empty(t, Categories(nil))
}

func TestPriceCeiling(t *testing.T) {
	assert.Equal(t, 200.0, PriceCeiling(sampleCatalog()))
	assert.Equal(t, 0.0, PriceCeiling(nil))
}

func TestProductUnmarshal_StringPriceAndDate(t *testing.T) {
	var p Product
	err := json.Unmarshal([]byte(`{"id":9,"name":"Gown","description":"d","price":"759.99","stock":3,"image":"x.png","category":null,"createdAt":"2025-10-20"}`), &p)
	require.NoError(t, err)
	assert.Equal(t, int64(9), p.ID)
	assert.InDelta(t, 759.99, p.Price, 1e-9)
	assert.Equal(t, "", p.Category)
	require.NotNil(t, p.CreatedAt)
	assert.Equal(t, 2025, p.CreatedAt.Year())
}

func TestProductUnmarshal_BadTimestampIsAbsent(t *testing.T) {
	var p Product
	require.NoError(t, json.Unmarshal([]byte(`{"id":1,"price":5,"createdAt":"yesterday"}`), &p))
	assert.Nil(t, p.CreatedAt)
}

func TestProductUnmarshal_BadPrice(t *testing.T) {
	var p Product
	assert.Error(t, json.Unmarshal([]byte(`{"id":1,"price":"cheap"}`), &p))
}

func TestCartTotals(t *testing.T) {
	lines := []CartLine{
		{ProductID: 1, Price: 10, Quantity: 2},
		{ProductID: 2, Price: 2.5, Quantity: 4},
	}
	assert.Equal(t, 30.0, CartTotal(lines))
	assert.Equal(t, 6, CartCount(lines))
}
