package domain

// Basket is one buyer's cart. Items holds at most one line per product.
type Basket struct {
	ID      int64
	BuyerID string
	Items   []BasketItem
}

// BasketItem references a product; Product is the live catalog row loaded
// alongside the line and is never persisted with it.
type BasketItem struct {
	ProductID int64
	Quantity  int
	Product   Product
}

func NewBasket(buyerID string) *Basket {
	return &Basket{BuyerID: buyerID}
}

// Item returns the line for productID, if any.
func (b *Basket) Item(productID int64) (BasketItem, bool) {
	for _, it := range b.Items {
		if it.ProductID == productID {
			return it, true
		}
	}
	return BasketItem{}, false
}

// AddItem adds qty of p, growing an existing line rather than adding a
// second one. qty must be positive.
func (b *Basket) AddItem(p Product, qty int) {
	for i := range b.Items {
		if b.Items[i].ProductID == p.ID {
			b.Items[i].Quantity += qty
			b.Items[i].Product = p
			return
		}
	}
	b.Items = append(b.Items, BasketItem{ProductID: p.ID, Quantity: qty, Product: p})
}

// RemoveItem takes qty off the product's line and drops the line once it
// reaches zero. It reports whether the basket changed.
func (b *Basket) RemoveItem(productID int64, qty int) bool {
	if qty <= 0 {
		return false
	}
	for i := range b.Items {
		if b.Items[i].ProductID != productID {
			continue
		}
		b.Items[i].Quantity -= qty
		if b.Items[i].Quantity <= 0 {
			b.Items = append(b.Items[:i], b.Items[i+1:]...)
		}
		return true
	}
	return false
}

type BasketView struct {
	ID      int64            `json:"id"`
	BuyerID string           `json:"buyerId"`
	Items   []BasketItemView `json:"items"`
}

type BasketItemView struct {
	ProductID  int64  `json:"productId"`
	Name       string `json:"name"`
	Price      int64  `json:"price"`
	PictureURL string `json:"pictureUrl"`
	Brand      string `json:"brand"`
	Type       string `json:"type"`
	Quantity   int    `json:"quantity"`
}

// View flattens the basket and its products into the response shape.
func (b *Basket) View() BasketView {
	v := BasketView{ID: b.ID, BuyerID: b.BuyerID, Items: make([]BasketItemView, 0, len(b.Items))}
	for _, it := range b.Items {
		v.Items = append(v.Items, BasketItemView{
			ProductID:  it.ProductID,
			Name:       it.Product.Name,
			Price:      it.Product.Price,
			PictureURL: it.Product.PictureURL,
			Brand:      it.Product.Brand,
			Type:       it.Product.Type,
			Quantity:   it.Quantity,
		})
	}
	return v
}
