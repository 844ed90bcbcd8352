package handlers

import "constructo/internal/models"

// isProductOnSale reports whether the list price undercuts a known original
// price.
func isProductOnSale(price float64, originalPrice *float64) bool {
	return originalPrice != nil && price > 0 && price < *originalPrice
}

func decorateProduct(p *models.Product) {
	p.IsOnSale = isProductOnSale(p.Price, p.OriginalPrice)
	p.InStock = p.Stock > 0
}

func decorateProducts(products []models.Product) []models.Product {
	for i := range products {
		decorateProduct(&products[i])
	}
	return products
}
