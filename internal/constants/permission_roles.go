package constants

import "streamhub-backend/internal/pkg/constants"

// PermissionRoles maps each permission to roles allowed to perform it.
var PermissionRoles = map[string][]string{
	CreateListing:     {constants.Buyer, constants.Supplier, constants.Admin},
	ModerateListing:   {constants.Admin},
	FeatureListing:    {constants.Admin},
	ApplyToDemand:     {constants.Supplier},
	ApplyToService:    {constants.Buyer},
	RequestRental:     {constants.Buyer, constants.Supplier, constants.Admin},
	CompleteAnyRental: {constants.Admin},
	ReadAnyEvents:     {constants.Admin},
	ViewMetrics:       {constants.Admin},
}

// AllowedRole returns true if role is in the list of allowed roles for the permission.
func AllowedRole(permission, role string) bool {
	roles, ok := PermissionRoles[permission]
	if !ok {
		return false
	}
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
