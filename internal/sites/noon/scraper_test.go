package noon

import (
	"testing"

	"github.com/stretchr/testify/require"

	"lurl/internal/extract"
)

const categoryMarkup = `
<html><body>
<div class="ProductBoxLinkHandler_linkWrapper__b0qZ9">
  <a class="ProductBoxLinkHandler_productBoxLink__FPhjp" href="/egypt-en/laptop-alpha/p"></a>
  <img class="ProductImageCarousel_productImage__jtsOn" data-src="https://cdn.example.com/alpha.jpg">
  <h2 class="ProductDetailsSection_title__JorAV">Laptop Alpha 15</h2>
  <strong class="Price_amount__2sXa7">32,999</strong>
  <span class="RatingPreviewStar_textCtr__sfsJG">4.5</span>
</div>
<div class="ProductBoxLinkHandler_linkWrapper__b0qZ9">
  <a class="ProductBoxLinkHandler_productBoxLink__FPhjp" href="https://www.noon.com/egypt-en/laptop-beta/p"></a>
  <h2 class="ProductDetailsSection_title__JorAV">Laptop Beta 17</h2>
</div>
</body></html>`

func TestProductSchemaAgainstCategoryMarkup(t *testing.T) {
	rs, err := extract.Extract(categoryMarkup, productSchema)
	require.NoError(t, err)

	require.Equal(t,
		[]string{"product_name", "rating", "price", "product_link", "image_link"},
		rs.Columns)
	require.Len(t, rs.Records, 2)

	first := rs.Records[0]
	require.Equal(t, "Laptop Alpha 15", first["product_name"])
	require.Equal(t, "4.5", first["rating"])
	require.Equal(t, "32,999", first["price"])
	// Relative link resolved against the site root.
	require.Equal(t, "https://www.noon.com/egypt-en/laptop-alpha/p", first["product_link"])
	// Lazy image: src missing, data-src takes over.
	require.Equal(t, "https://cdn.example.com/alpha.jpg", first["image_link"])

	// Sparse card keeps its record with the gaps blank.
	second := rs.Records[1]
	require.Equal(t, "Laptop Beta 17", second["product_name"])
	require.Equal(t, "https://www.noon.com/egypt-en/laptop-beta/p", second["product_link"])
	require.Equal(t, "", second["rating"])
	require.Equal(t, "", second["price"])
	require.Equal(t, "", second["image_link"])
}

func TestPageURL(t *testing.T) {
	cases := []struct {
		base string
		page int
		want string
	}{
		{"https://www.noon.com/egypt-en/eg-gaming-laptops/", 1, "https://www.noon.com/egypt-en/eg-gaming-laptops/?page=1"},
		{"https://www.noon.com/egypt-en/eg-gaming-laptops/?sort=price", 3, "https://www.noon.com/egypt-en/eg-gaming-laptops/?page=3&sort=price"},
		{"https://www.noon.com/search?page=9", 2, "https://www.noon.com/search?page=2"},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, pageURL(tc.base, tc.page))
	}
}
