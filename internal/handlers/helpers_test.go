package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"constructo/internal/models"
)

func TestIsProductOnSale(t *testing.T) {
	assert.True(t, isProductOnSale(8999, ptr(10999)))
	assert.False(t, isProductOnSale(8999, nil))
	assert.False(t, isProductOnSale(8999, ptr(8999)))
	assert.False(t, isProductOnSale(0, ptr(100)))
}

func TestDecorateProduct(t *testing.T) {
	p := models.Product{Price: 100, OriginalPrice: ptr(120), Stock: 0}
	decorateProduct(&p)

	assert.True(t, p.IsOnSale)
	assert.False(t, p.InStock)
}

func TestParseLimit(t *testing.T) {
	l, err := parseLimit("", 50, 200)
	assert.NoError(t, err)
	assert.Equal(t, int64(50), l)

	l, err = parseLimit("500", 50, 200)
	assert.NoError(t, err)
	assert.Equal(t, int64(200), l)

	_, err = parseLimit("0", 50, 200)
	assert.Error(t, err)
	_, err = parseLimit("abc", 50, 200)
	assert.Error(t, err)
}

func TestSnakeCase(t *testing.T) {
	assert.Equal(t, "address_line1", snakeCase("AddressLine1"))
	assert.Equal(t, "city", snakeCase("City"))
}
