package handlers

import (
	"github.com/jmoiron/sqlx"

	"storefront/internal/config"
	"storefront/internal/repos"
	"storefront/internal/services"
)

type Deps struct {
	BasketHandler *BasketHandler
	HealthHandler *HealthHandler
}

func NewDeps(db *sqlx.DB, cfg config.Config) *Deps {
	prodRepo := repos.NewCachedProductRepo(repos.NewProductRepo(db), cfg.CacheProductTTL)
	basketRepo := repos.NewBasketRepo(db)

	basketSvc := services.NewBasketService(basketRepo, prodRepo)

	return &Deps{
		BasketHandler: &BasketHandler{
			Basket:       basketSvc,
			CookieTTL:    cfg.BuyerCookieTTL,
			CookieSecure: cfg.CookieSecure,
			MaxQty:       cfg.MaxBasketQuantity,
		},
		HealthHandler: &HealthHandler{DB: db},
	}
}
