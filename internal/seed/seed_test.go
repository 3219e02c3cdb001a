package seed

import (
	"testing"

	"github.com/smallbiznis/farmstand/pkg/ident"
	"github.com/stretchr/testify/assert"
)

func TestSeedCollectionsAreConsistent(t *testing.T) {
	locations := Locations()
	products := Products()

	counts := map[string]int{}
	for _, p := range products {
		assert.Equal(t, ident.Slugify(p.Title), p.Slug)
		assert.True(t, p.Category.Valid())
		assert.True(t, p.Availability.Valid())
		counts[p.LocationID]++
	}
	for _, loc := range locations {
		assert.Equal(t, ident.Slugify(loc.Name), loc.ID)
		assert.Equal(t, counts[loc.ID], loc.Products, loc.ID)
	}

	slugs := map[string]bool{}
	for _, p := range products {
		slugs[p.Slug] = true
	}
	for _, o := range Orders() {
		assert.True(t, slugs[o.ProductID], o.ID)
		assert.True(t, o.Status.Valid())
	}
}

func TestSeedReturnsFreshValues(t *testing.T) {
	first := Locations()
	first[0].Name = "changed"
	first[0].ProductAvailability[0].Details["harvest"] = "weekly"

	second := Locations()
	assert.Equal(t, "Green Valley Farm", second[0].Name)
	assert.Equal(t, "daily", second[0].ProductAvailability[0].Details["harvest"])
}
