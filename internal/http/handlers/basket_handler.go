package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	applog "storefront/internal/log"
	"storefront/internal/services"
	"storefront/internal/validate"
)

const (
	BuyerCookie     = "buyerId"
	GetBasketRoute  = "GetBasket"
	basketFallback  = "/api/basket"
	badParamsDetail = "productId must be a positive integer and quantity between 1 and the allowed maximum"
)

type BasketHandler struct {
	Basket       *services.BasketService
	CookieTTL    time.Duration
	CookieSecure bool
	MaxQty       int
}

// caller builds the request identity. A buyerId cookie we could not have
// issued is expired on the spot and ignored.
func (h *BasketHandler) caller(c *fiber.Ctx) services.Caller {
	caller := services.Caller{UserName: Principal(c)}
	raw := c.Cookies(BuyerCookie)
	if raw == "" {
		return caller
	}
	if tok, ok := validate.BuyerToken(raw); ok {
		caller.BuyerCookie = tok
		return caller
	}
	applog.Security(c, "basket.cookie.stale", nil)
	h.clearBuyerCookie(c)
	return caller
}

// setBuyerCookie issues the anonymous token. It is essential to the basket,
// so it is sent regardless of any consent state, and scripts cannot read it.
func (h *BasketHandler) setBuyerCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     BuyerCookie,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(h.CookieTTL),
		HTTPOnly: true,
		Secure:   h.CookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func (h *BasketHandler) clearBuyerCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     BuyerCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		Secure:   h.CookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func (h *BasketHandler) params(c *fiber.Ctx) (int64, int, bool) {
	productID, ok := validate.ProductID(c.Query("productId"))
	if !ok {
		return 0, 0, false
	}
	qty, ok := validate.Qty(c.Query("quantity"), h.MaxQty)
	if !ok {
		return 0, 0, false
	}
	return productID, qty, true
}

func (h *BasketHandler) Get(c *fiber.Ctx) error {
	b, err := h.Basket.Get(c.UserContext(), h.caller(c))
	if errors.Is(err, services.ErrBasketNotFound) {
		return problem(c, fiber.StatusNotFound, "Basket not found", "")
	}
	if err != nil {
		return err
	}
	return c.JSON(b.View())
}

func (h *BasketHandler) Add(c *fiber.Ctx) error {
	productID, qty, ok := h.params(c)
	if !ok {
		applog.Info(c, "basket.add.invalid", map[string]any{"productId": c.Query("productId"), "quantity": c.Query("quantity")})
		return problem(c, fiber.StatusBadRequest, "Invalid basket request", badParamsDetail)
	}

	res, err := h.Basket.AddItem(c.UserContext(), h.caller(c), productID, qty)
	switch {
	case errors.Is(err, services.ErrProductNotFound):
		return problem(c, fiber.StatusBadRequest, "Product not found", "")
	case errors.Is(err, services.ErrNotSaved):
		applog.Error(c, "basket.add.notsaved", err, map[string]any{"productId": productID})
		return problem(c, fiber.StatusBadRequest, "Problem adding item to basket", "")
	case err != nil:
		return err
	}

	if res.IssuedToken != "" {
		h.setBuyerCookie(c, res.IssuedToken)
	}
	applog.Audit(c, "basket.item.added", map[string]any{
		"basketId":  res.Basket.ID,
		"productId": productID,
		"quantity":  qty,
		"created":   res.IssuedToken != "",
	})

	location, err := c.GetRouteURL(GetBasketRoute, fiber.Map{})
	if err != nil || location == "" {
		location = basketFallback
	}
	c.Location(location)
	return c.Status(fiber.StatusCreated).JSON(res.Basket.View())
}

func (h *BasketHandler) Remove(c *fiber.Ctx) error {
	productID, qty, ok := h.params(c)
	if !ok {
		applog.Info(c, "basket.remove.invalid", map[string]any{"productId": c.Query("productId"), "quantity": c.Query("quantity")})
		return problem(c, fiber.StatusBadRequest, "Invalid basket request", badParamsDetail)
	}

	err := h.Basket.RemoveItem(c.UserContext(), h.caller(c), productID, qty)
	switch {
	case errors.Is(err, services.ErrBasketNotFound):
		return problem(c, fiber.StatusNotFound, "Basket not found", "")
	case errors.Is(err, services.ErrNotSaved):
		applog.Error(c, "basket.remove.notsaved", err, map[string]any{"productId": productID})
		return problem(c, fiber.StatusBadRequest, "Problem removing item from basket", "")
	case err != nil:
		return err
	}

	applog.Audit(c, "basket.item.removed", map[string]any{"productId": productID, "quantity": qty})
	c.Status(fiber.StatusOK)
	return nil
}
