package api

import (
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
)

// Paginated is the envelope of every paginated list.
type Paginated[T any] struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

func pageFromQuery(q types.PageQuery, defaultSize int) service.Page {
	page := service.Page{Number: q.Page, Size: q.Limit}
	if page.Number < 1 {
		page.Number = 1
	}
	if page.Size < 1 {
		page.Size = defaultSize
	}
	return page
}

func paginate[T any](c *gin.Context, page service.Page, total int64, results []T) Paginated[T] {
	if results == nil {
		results = []T{}
	}
	out := Paginated[T]{Count: total, Results: results}
	if int64(page.Number*page.Size) < total {
		next := pageURL(c, page.Number+1)
		out.Next = &next
	}
	if page.Number > 1 {
		prev := pageURL(c, page.Number-1)
		out.Previous = &prev
	}
	return out
}

// pageURL returns the absolute URL of the current request on another page.
func pageURL(c *gin.Context, number int) string {
	u := *c.Request.URL
	q := u.Query()
	if number <= 1 {
		q.Del("page")
	} else {
		q.Set("page", strconv.Itoa(number))
	}
	u.RawQuery = q.Encode()
	return absoluteURL(c, u.RequestURI())
}

// absoluteURL prefixes a path with the scheme and host of the request.
// Values that already carry a scheme are returned unchanged.
func absoluteURL(c *gin.Context, path string) string {
	if path == "" {
		return ""
	}
	if u, err := url.Parse(path); err == nil && u.IsAbs() {
		return path
	}
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return scheme + "://" + c.Request.Host + path
}
