package services

// Caller is who a basket request comes from. UserName is the authenticated
// principal, BuyerCookie the anonymous buyer token; either may be empty.
type Caller struct {
	UserName    string
	BuyerCookie string
}

func (c Caller) Authenticated() bool { return c.UserName != "" }

// BuyerKey picks the key baskets are stored under. The principal name wins
// over any cookie.
func (c Caller) BuyerKey() (string, bool) {
	if c.UserName != "" {
		return c.UserName, true
	}
	if c.BuyerCookie != "" {
		return c.BuyerCookie, true
	}
	return "", false
}
