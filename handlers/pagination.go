package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// pageSize matches the fixed page size of all list endpoints.
const pageSize = 10

func pageFromQuery(c *gin.Context) int {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	return page
}

// pageLink builds an absolute URL for the given page, preserving the
// other query parameters of the inbound request.
func pageLink(c *gin.Context, page int) *string {
	u := *c.Request.URL
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()

	// Behind a TLS-terminating proxy the request itself is plain HTTP;
	// the proxy reports the client-facing scheme in X-Forwarded-Proto.
	scheme := "http"
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	} else if c.Request.TLS != nil {
		scheme = "https"
	}
	link := scheme + "://" + c.Request.Host + u.String()
	return &link
}

// paginatedResponse wraps one page of results in the standard list
// envelope: count, next, previous, results. next and previous are null at
// the respective edges.
func paginatedResponse(c *gin.Context, count int64, page int, results interface{}) gin.H {
	var next, previous *string
	if int64(page*pageSize) < count {
		next = pageLink(c, page+1)
	}
	if page > 1 {
		previous = pageLink(c, page-1)
	}
	return gin.H{
		"count":    count,
		"next":     next,
		"previous": previous,
		"results":  results,
	}
}
