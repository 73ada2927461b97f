package noon

import (
	"fmt"
	"net/url"
	"strconv"
)

// pageURL returns base with its page query parameter set, preserving any
// existing query (e.g. a search or sort filter).
func pageURL(base string, page int) string {
	u, err := url.Parse(base)
	if err != nil {
		return fmt.Sprintf("%s?page=%d", base, page)
	}
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()
	return u.String()
}
