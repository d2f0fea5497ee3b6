package catalog

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/auracommerce/storefront/internal/models"
)

func testCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := New([]models.Product{
		{ID: "1", Name: "Blazer", Price: 289, Category: "Women", Brand: "Maison Noir", Rating: 4.8, Badge: models.BadgeSale},
		{ID: "2", Name: "Sweater", Price: 195, Category: "Women", Brand: "Lune Studio", Rating: 4.9, Badge: models.BadgeNew},
		{ID: "3", Name: "Boots", Price: 345, Category: "Shoes", Brand: "Artisan & Co", Rating: 4.7},
		{ID: "4", Name: "Necklace", Price: 128, Category: "Accessories", Brand: "Aurum", Rating: 4.6, Badge: models.BadgeNew},
		{ID: "5", Name: "Overcoat", Price: 495, Category: "Men", Brand: "Maison Noir", Rating: 4.9, Badge: models.BadgeSale},
	})
	require.NoError(t, err)
	return c
}

func TestNewRejectsBadCatalogs(t *testing.T) {
	_, err := New([]models.Product{{ID: "1"}, {ID: "1"}})
	require.Error(t, err)

	_, err = New([]models.Product{{ID: "1", Price: -5}})
	require.Error(t, err)

	_, err = New([]models.Product{{Name: "anonymous"}})
	require.Error(t, err)
}

func TestFilterByBrand(t *testing.T) {
	c := testCatalog(t)

	out := c.Search(Filter{Brands: []string{"Maison Noir"}}, SortRelevance)
	require.Len(t, out, 2)
	for _, p := range out {
		require.Equal(t, "Maison Noir", p.Brand)
	}

	// Empty brand selection means no brand filtering at all.
	out = c.Search(Filter{Brands: nil}, SortRelevance)
	require.Len(t, out, c.Len())
}

func TestFilterConjunction(t *testing.T) {
	c := testCatalog(t)

	out := c.Search(Filter{
		Category: "Women",
		Badge:    models.BadgeNew,
		MinPrice: 100,
		MaxPrice: 200,
	}, SortRelevance)

	require.Len(t, out, 1)
	require.Equal(t, "2", out[0].ID)
}

func TestFilterPriceRangeInclusive(t *testing.T) {
	c := testCatalog(t)

	out := c.Search(Filter{MinPrice: 195, MaxPrice: 345}, SortRelevance)
	ids := make([]string, 0, len(out))
	for _, p := range out {
		ids = append(ids, p.ID)
	}
	require.Equal(t, []string{"1", "2", "3"}, ids)
}

func TestSortPriceAsc(t *testing.T) {
	c := testCatalog(t)

	out := c.Search(Filter{}, SortPriceAsc)
	for i := 1; i < len(out); i++ {
		require.LessOrEqual(t, out[i-1].Price, out[i].Price)
	}
}

func TestSortStability(t *testing.T) {
	c, err := New([]models.Product{
		{ID: "a", Price: 100, Rating: 4},
		{ID: "b", Price: 100, Rating: 4},
		{ID: "c", Price: 50, Rating: 4},
	})
	require.NoError(t, err)

	out := c.Search(Filter{}, SortPriceAsc)
	require.Equal(t, "c", out[0].ID)
	require.Equal(t, "a", out[1].ID, "equal prices keep catalog order")
	require.Equal(t, "b", out[2].ID)

	out = c.Search(Filter{}, SortRating)
	require.Equal(t, []string{"a", "b", "c"}, []string{out[0].ID, out[1].ID, out[2].ID})
}

func TestSortNewestPutsNewBadgeFirst(t *testing.T) {
	c := testCatalog(t)

	out := c.Search(Filter{}, SortNewest)
	require.Equal(t, "2", out[0].ID)
	require.Equal(t, "4", out[1].ID)
	// Remaining products keep catalog order.
	require.Equal(t, []string{"1", "3", "5"}, []string{out[2].ID, out[3].ID, out[4].ID})
}

func TestSortRelevanceIsIdentity(t *testing.T) {
	c := testCatalog(t)

	out := c.Search(Filter{}, SortRelevance)
	for i, p := range c.Products() {
		require.Equal(t, p.ID, out[i].ID)
	}
}

func TestGetAndFacets(t *testing.T) {
	c := testCatalog(t)

	p, ok := c.Get("3")
	require.True(t, ok)
	require.Equal(t, "Boots", p.Name)

	_, ok = c.Get("missing")
	require.False(t, ok)

	require.Equal(t, []string{"Maison Noir", "Lune Studio", "Artisan & Co", "Aurum"}, c.Brands())
	require.Equal(t, []string{"Women", "Shoes", "Accessories", "Men"}, c.Categories())
}
