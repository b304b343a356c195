package stubapi

import (
	"context"
	"fmt"

	"atelier/internal/storefront/models"
)

// seedProducts is the demo catalog. IDs are stable so deep links and
// persisted snapshots survive restarts.
var seedProducts = []models.Product{
	{ID: "1", Name: "Wool Overcoat", Price: 420, Image: "/img/wool-overcoat.jpg", Gender: "men", Category: "outerwear"},
	{ID: "2", Name: "Silk Slip Dress", Price: 310, Image: "/img/silk-slip-dress.jpg", Gender: "women", Category: "dresses"},
	{ID: "3", Name: "Cashmere Crewneck", Price: 255, Image: "/img/cashmere-crewneck.jpg", Gender: "women", Category: "knitwear"},
	{ID: "4", Name: "Selvedge Denim", Price: 180, Image: "/img/selvedge-denim.jpg", Gender: "men", Category: "trousers"},
	{ID: "5", Name: "Leather Tote", Price: 390, Image: "/img/leather-tote.jpg", Category: "accessories"},
	{ID: "6", Name: "Linen Shirt", Price: 140, Image: "/img/linen-shirt.jpg", Gender: "men", Category: "shirts"},
	{ID: "7", Name: "Pleated Trousers", Price: 210, Image: "/img/pleated-trousers.jpg", Gender: "women", Category: "trousers"},
	{ID: "8", Name: "Suede Loafers", Price: 295, Image: "/img/suede-loafers.jpg", Category: "shoes"},
	{ID: "9", Name: "Merino Scarf", Price: 95, Image: "/img/merino-scarf.jpg", Category: "accessories"},
	{ID: "10", Name: "Trench Coat", Price: 480, Image: "/img/trench-coat.jpg", Gender: "women", Category: "outerwear"},
}

// Seed loads the demo catalog into the product store.
func Seed(ctx context.Context, products ProductStore) error {
	for _, p := range seedProducts {
		if err := products.Put(ctx, p); err != nil {
			return fmt.Errorf("seed product %s: %w", p.ID, err)
		}
	}
	return nil
}
