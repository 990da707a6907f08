package oidc

// AuthenticatedUser is the principal built from a verified access token.
// It is created once per request and must not be modified.
type AuthenticatedUser struct {
	Subject  string   `json:"subject"`
	Username *string  `json:"username"`
	Email    *string  `json:"email"`
	Issuer   string   `json:"issuer"`
	Audience *string  `json:"audience"`
	Roles    []string `json:"roles"`
	Claims   Claims   `json:"-"`
}

// HasRole reports whether the user holds role
func (u *AuthenticatedUser) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// HasAnyRole reports whether the user holds at least one of roles
func (u *AuthenticatedUser) HasAnyRole(roles ...string) bool {
	for _, role := range roles {
		if u.HasRole(role) {
			return true
		}
	}
	return false
}

// RoleList returns a copy of the user's roles
func (u *AuthenticatedUser) RoleList() []string {
	return append([]string{}, u.Roles...)
}

func newAuthenticatedUser(claims Claims, issuer, clientID string) *AuthenticatedUser {
	user := &AuthenticatedUser{
		Issuer: issuer,
		Roles:  ExtractRoles(claims, clientID),
		Claims: claims,
	}

	user.Subject, _ = claims.Text("sub")
	if iss, ok := claims.String("iss"); ok {
		user.Issuer = iss
	}
	if username, ok := claims.Text("preferred_username"); ok {
		user.Username = &username
	}
	if email, ok := claims.Text("email"); ok {
		user.Email = &email
	}
	if aud := claims.Audience(); len(aud) > 0 {
		user.Audience = &aud[0]
	}

	return user
}
