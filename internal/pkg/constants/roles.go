package constants

// Business roles issued by the identity provider.
const (
	Buyer    = "BUYER"
	Supplier = "SUPPLIER"
	Admin    = "ADMIN"
)

// ValidRoles is the set of role claims the API accepts.
var ValidRoles = []string{Buyer, Supplier, Admin}

// IsValidRole returns true if role is one of the accepted claims.
func IsValidRole(role string) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}

// Listing defaults.
const (
	DefaultCurrency = "VND"
	DefaultPageSize = 10
	MaxPageSize     = 100
)
