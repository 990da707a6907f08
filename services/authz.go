package services

import (
	"fmt"

	"github.com/upb/rest-api-modernized/oidc"
)

// AdminRoles are the roles allowed to perform administrative writes
var AdminRoles = []string{"admin", "realm-admin"}

// IsAdmin reports whether user holds any admin role
func IsAdmin(user *oidc.AuthenticatedUser) bool {
	return user != nil && user.HasAnyRole(AdminRoles...)
}

// RequireAdmin returns a forbidden error naming action unless user is an admin.
// Routes already enforce this; services repeat the check for callers outside HTTP.
func RequireAdmin(user *oidc.AuthenticatedUser, action string) error {
	if IsAdmin(user) {
		return nil
	}
	return NewDomainError(ErrorTypeForbidden, fmt.Sprintf("Not authorized to %s.", action), nil)
}
