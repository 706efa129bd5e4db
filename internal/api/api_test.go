package api

import (
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestContext(t *testing.T, target string) echo.Context {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest("GET", target, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec)
}

func TestParsePagination(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		c := newTestContext(t, "/products")
		page, pageSize := parsePagination(c, 6)
		assert.Equal(t, 1, page)
		assert.Equal(t, 6, pageSize)
	})

	t.Run("explicit values", func(t *testing.T) {
		c := newTestContext(t, "/products?page=3&limit=12")
		page, pageSize := parsePagination(c, 6)
		assert.Equal(t, 3, page)
		assert.Equal(t, 12, pageSize)
	})

	t.Run("invalid values fall back", func(t *testing.T) {
		c := newTestContext(t, "/products?page=zero&limit=-4")
		page, pageSize := parsePagination(c, 6)
		assert.Equal(t, 1, page)
		assert.Equal(t, 6, pageSize)
	})

	t.Run("limit capped at 100", func(t *testing.T) {
		c := newTestContext(t, "/products?limit=500")
		_, pageSize := parsePagination(c, 6)
		assert.Equal(t, 6, pageSize)
	})
}

func TestPageLinks(t *testing.T) {
	// 10 rows at limit 4 is 3 pages
	const totalPage = 3

	t.Run("first page has next only", func(t *testing.T) {
		c := newTestContext(t, "/products?page=1&limit=4")
		prev, next := pageLinks(c, 1, totalPage)
		assert.Nil(t, prev)
		require.NotNil(t, next)
		assert.Contains(t, *next, "page=2")
		assert.Contains(t, *next, "limit=4")
	})

	t.Run("middle page has both", func(t *testing.T) {
		c := newTestContext(t, "/products?page=2&limit=4")
		prev, next := pageLinks(c, 2, totalPage)
		require.NotNil(t, prev)
		require.NotNil(t, next)
		assert.Contains(t, *prev, "page=1")
		assert.Contains(t, *next, "page=3")
	})

	t.Run("last page has prev only", func(t *testing.T) {
		c := newTestContext(t, "/products?page=3&limit=4")
		prev, next := pageLinks(c, 3, totalPage)
		require.NotNil(t, prev)
		assert.Nil(t, next)
		assert.Contains(t, *prev, "page=2")
	})

	t.Run("past the end has no next", func(t *testing.T) {
		c := newTestContext(t, "/products?page=9&limit=4")
		prev, next := pageLinks(c, 9, totalPage)
		require.NotNil(t, prev)
		assert.Nil(t, next)
	})

	t.Run("other query params preserved", func(t *testing.T) {
		c := newTestContext(t, "/products?sort=cheapest&page=1&limit=4")
		_, next := pageLinks(c, 1, totalPage)
		require.NotNil(t, next)
		assert.Contains(t, *next, "sort=cheapest")
	})
}

func TestTotalPageRounding(t *testing.T) {
	cases := []struct {
		total    int64
		pageSize int
		want     int64
	}{
		{10, 4, 3},
		{8, 4, 2},
		{1, 4, 1},
		{0, 4, 0},
	}
	for _, tc := range cases {
		totalPage := tc.total / int64(tc.pageSize)
		if tc.total%int64(tc.pageSize) != 0 {
			totalPage++
		}
		assert.Equal(t, tc.want, totalPage, "total=%s", strconv.FormatInt(tc.total, 10))
	}
}
