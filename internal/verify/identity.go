package verify

// Identity represents the normalized result of an interactive Microsoft
// authentication. It contains facts only, no decisions.
type Identity struct {
	Subject       string // provider-scoped unique user identifier (sub)
	Email         string // asserted email / UPN for the signed-in account
	EmailVerified bool   // whether the provider asserts email ownership
	TenantID      string // directory the account authenticated against
}
