package nawy

import (
	"testing"

	"github.com/stretchr/testify/require"

	"lurl/internal/extract"
)

// Trimmed property cards in the shape nawy search results render after
// full reveal.
const searchMarkup = `
<html><body>
<div class="sc-88b4dfdb-0 cgVQXi">
  <div class="sc-100c08da-0 eeBcMz">
    <div class="area">New Cairo</div>
    <div class="name">Hyde Park</div>
    <h2 class="sc-4b9910fd-0 hyACaB">Apartment with garden view</h2>
    <div class="price-container"><span class="price">6,500,000</span></div>
    <div class="sc-234f71bd-0 bbWDeD"><span class="label">m2</span><span class="value">165</span></div>
    <div class="sc-234f71bd-0 bbWDeD"><span class="label">beds</span><span class="value">3</span></div>
    <div class="sc-234f71bd-0 bbWDeD"><span class="label">baths</span><span class="value">2</span></div>
  </div>
  <div class="sc-100c08da-0 eeBcMz">
    <div class="area">6th of October</div>
    <div class="name">O West</div>
    <div class="sc-234f71bd-0 bbWDeD"><span class="label">m2</span><span class="value">120</span></div>
    <div class="sc-234f71bd-0 bbWDeD"><span class="label">floor</span><span class="value">2</span></div>
  </div>
</div>
</body></html>`

func TestListingSchemaAgainstSearchMarkup(t *testing.T) {
	rs, err := extract.Extract(searchMarkup, listingSchema)
	require.NoError(t, err)

	require.Equal(t,
		[]string{"location", "name", "description", "price", "area_m2", "beds", "baths"},
		rs.Columns)
	require.Len(t, rs.Records, 2)

	full := rs.Records[0]
	require.Equal(t, "New Cairo", full["location"])
	require.Equal(t, "Hyde Park", full["name"])
	require.Equal(t, "Apartment with garden view", full["description"])
	require.Equal(t, "6,500,000", full["price"])
	require.Equal(t, "165", full["area_m2"])
	require.Equal(t, "3", full["beds"])
	require.Equal(t, "2", full["baths"])

	// Promotional card without price or description still yields a record.
	partial := rs.Records[1]
	require.Equal(t, "O West", partial["name"])
	require.Equal(t, "", partial["price"])
	require.Equal(t, "", partial["description"])
	require.Equal(t, "120", partial["area_m2"])
	// "floor" is outside the label vocabulary.
	require.Equal(t, "", partial["beds"])
}
