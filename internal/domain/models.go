package domain

// Product is a read-only catalog record. Price is in minor currency units.
type Product struct {
	ID              int64  `db:"id" json:"id"`
	Name            string `db:"name" json:"name"`
	Description     string `db:"description" json:"description"`
	Price           int64  `db:"price" json:"price"`
	PictureURL      string `db:"picture_url" json:"pictureUrl"`
	Type            string `db:"type" json:"type"`
	Brand           string `db:"brand" json:"brand"`
	QuantityInStock int    `db:"quantity_in_stock" json:"quantityInStock"`
}
