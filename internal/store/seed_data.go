package store

import (
	"time"

	"github.com/google/uuid"

	"constructo/internal/models"
)

type seedProduct struct {
	name, description string
	price, original   float64
	category, sku     string
	brand, image      string
	rating            float64
	reviews, stock    int
}

// DefaultCategories is the starter category set.
func DefaultCategories() []models.Category {
	return []models.Category{
		{ID: "cat-power-tools", Name: "Power Tools", Image: "https://images.pexels.com/photos/30486981/pexels-photo-30486981.jpeg?w=800", Description: "Professional grade power tools"},
		{ID: "cat-paints", Name: "Paints", Image: "https://images.pexels.com/photos/1887946/pexels-photo-1887946.jpeg?w=800", Description: "Interior and exterior paints"},
		{ID: "cat-hand-tools", Name: "Hand Tools", Image: "https://images.pexels.com/photos/46793/taps-thread-drill-milling-46793.jpeg?w=800", Description: "Manual hand tools"},
		{ID: "cat-electrical", Name: "Electrical", Image: "https://images.unsplash.com/photo-1551868561-f2cdee310ecf?w=800", Description: "Electrical supplies"},
		{ID: "cat-plumbing", Name: "Plumbing", Image: "https://images.pexels.com/photos/830899/pexels-photo-830899.jpeg?w=800", Description: "Plumbing materials"},
		{ID: "cat-building", Name: "Building Materials", Image: "https://images.unsplash.com/photo-1585646578973-cbcf2dfd0c8c?w=800", Description: "Construction materials"},
	}
}

var defaultProducts = []seedProduct{
	{
		name:        "Bosch Professional Impact Drill",
		description: "750W powerful impact drill perfect for heavy duty drilling in concrete, wood and metal. Features variable speed control and reverse function.",
		price:       8999, original: 10999,
		category:    "Power Tools", sku: "BOSCH-ID-750", brand: "Bosch",
		image:       "https://images.unsplash.com/photo-1551868561-7b006235bf22?w=800",
		rating:      4.8, reviews: 45, stock: 25,
	},
	{
		name:        "Asian Paints Royal Luxury Emulsion",
		description: "Premium interior wall paint with superior coverage and washable finish. Low VOC formula for healthier indoor air quality.",
		price:       3499, original: 3999,
		category:    "Paints", sku: "AP-RLE-20L", brand: "Asian Paints",
		image:       "https://images.pexels.com/photos/1887946/pexels-photo-1887946.jpeg?w=800",
		rating:      4.7, reviews: 28, stock: 50,
	},
	{
		name:        "Stanley Screwdriver Set 6 Piece",
		description: "Professional 6-piece screwdriver set with ergonomic handles. Includes Phillips and flathead screwdrivers in various sizes.",
		price:       899, original: 1199,
		category:    "Hand Tools", sku: "STN-SD-6PC", brand: "Stanley",
		image:       "https://images.unsplash.com/photo-1585646578973-cbcf2dfd0c8c?w=800",
		rating:      4.3, reviews: 15, stock: 100,
	},
	{
		name:        "Makita Angle Grinder 900W",
		description: "Heavy duty 900W angle grinder with 100mm disc. Features anti-vibration handle and spindle lock for easy disc changes.",
		price:       5499, original: 6499,
		category:    "Power Tools", sku: "MKT-AG-900", brand: "Makita",
		image:       "https://images.unsplash.com/photo-1562886350-d59f89f568ac?w=800",
		rating:      4.8, reviews: 18, stock: 30,
	},
	{
		name:        "Berger Weathercoat Exterior Paint",
		description: "All weather exterior paint with 7 year warranty. Excellent protection against rain, sun and pollution.",
		price:       4299, original: 4999,
		category:    "Paints", sku: "BGR-WC-20L", brand: "Berger",
		image:       "https://images.pexels.com/photos/1887946/pexels-photo-1887946.jpeg?w=800",
		rating:      4.5, reviews: 31, stock: 40,
	},
	{
		name:        "Century Plyboards - Marine Grade",
		description: "8x4 ft marine grade plywood, waterproof and termite resistant. Ideal for kitchen cabinets and bathrooms.",
		price:       4850, original: 5500,
		category:    "Building Materials", sku: "CPLY-MR-8X4", brand: "Century",
		image:       "https://images.unsplash.com/photo-1585646578973-cbcf2dfd0c8c?w=800",
		rating:      4.6, reviews: 9, stock: 20,
	},
	{
		name:        "Jaquar Ceramic Wall Tiles",
		description: "Premium ceramic wall tiles 30x60cm. Glossy finish with elegant design, suitable for bathrooms and kitchens.",
		price:       1850, original: 2200,
		category:    "Building Materials", sku: "JQR-WT-3060", brand: "Jaquar",
		image:       "https://images.pexels.com/photos/7578995/pexels-photo-7578995.jpeg?w=800",
		rating:      4.4, reviews: 22, stock: 200,
	},
	{
		name:        "Havells MCB 32A Single Pole",
		description: "Miniature circuit breaker 32 Amp single pole. ISI marked with high breaking capacity for residential use.",
		price:       349, original: 450,
		category:    "Electrical", sku: "HVL-MCB-32A", brand: "Havells",
		image:       "https://images.unsplash.com/photo-1551868561-f2cdee310ecf?w=800",
		rating:      4.6, reviews: 67, stock: 500,
	},
	{
		name:        "Finolex FR Cable 2.5 sqmm",
		description: "Fire retardant house wire 2.5 sqmm, 90 meters coil. ISI marked with high conductivity copper.",
		price:       3299, original: 3800,
		category:    "Electrical", sku: "FNX-FR-25", brand: "Finolex",
		image:       "https://images.unsplash.com/photo-1551868561-f2cdee310ecf?w=800",
		rating:      4.7, reviews: 89, stock: 150,
	},
	{
		name:        "Cera Wall Hung Commode",
		description: "Premium wall hung toilet with soft close seat. Contemporary design with dual flush mechanism.",
		price:       12999, original: 15000,
		category:    "Plumbing", sku: "CERA-WHC-01", brand: "Cera",
		image:       "https://images.pexels.com/photos/830899/pexels-photo-830899.jpeg?w=800",
		rating:      4.7, reviews: 14, stock: 8,
	},
	{
		name:        "Taparia Combination Plier",
		description: "8 inch combination plier with insulated handle. Heat treated jaws for durability.",
		price:       299, original: 399,
		category:    "Hand Tools", sku: "TAP-CP-8", brand: "Taparia",
		image:       "https://images.unsplash.com/photo-1585646578973-cbcf2dfd0c8c?w=800",
		rating:      4.2, reviews: 42, stock: 200,
	},
	{
		name:        "Dewalt Cordless Drill 18V",
		description: "Powerful 18V cordless drill with lithium-ion battery. Two speed gearbox with LED work light.",
		price:       11999, original: 13999,
		category:    "Power Tools", sku: "DWT-CD-18V", brand: "Dewalt",
		image:       "https://images.unsplash.com/photo-1551868561-7b006235bf22?w=800",
		rating:      4.9, reviews: 56, stock: 15,
	},
}

// DefaultProducts builds the starter catalogue with fresh ids.
func DefaultProducts(now time.Time) []models.Product {
	products := make([]models.Product, 0, len(defaultProducts))
	for _, p := range defaultProducts {
		original := p.original
		products = append(products, models.Product{
			ID:            uuid.NewString(),
			Name:          p.name,
			Description:   p.description,
			Price:         p.price,
			OriginalPrice: &original,
			Category:      p.category,
			SKU:           p.sku,
			Brand:         p.brand,
			Image:         p.image,
			Images:        models.StringList{p.image},
			Rating:        p.rating,
			ReviewCount:   p.reviews,
			Stock:         p.stock,
			CreatedAt:     now,
		})
	}
	return products
}
