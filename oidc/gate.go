package oidc

import (
	"context"
	"fmt"
	"strings"
)

// Verifier turns a raw bearer token into an authenticated principal
type Verifier interface {
	Verify(ctx context.Context, rawToken string) (*AuthenticatedUser, error)
}

// AuthorizationGate builds role guards on top of a Verifier
type AuthorizationGate struct {
	verifier Verifier
}

// NewAuthorizationGate creates a gate for verifier
func NewAuthorizationGate(verifier Verifier) *AuthorizationGate {
	return &AuthorizationGate{verifier: verifier}
}

// Build returns a guard requiring any one of roles.
// Blank names are ignored; with no roles the guard only authenticates.
func (g *AuthorizationGate) Build(roles ...string) *Guard {
	set := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		if strings.TrimSpace(r) == "" {
			continue
		}
		set[r] = struct{}{}
	}

	return &Guard{
		verifier: g.verifier,
		required: sortedKeys(set),
	}
}

// Guard checks a token and an any-of role requirement
type Guard struct {
	verifier Verifier
	required []string
}

// Required returns the sorted role names this guard accepts
func (g *Guard) Required() []string {
	return append([]string{}, g.required...)
}

// Check verifies rawToken and applies the role requirement
func (g *Guard) Check(ctx context.Context, rawToken string) (*AuthenticatedUser, error) {
	user, err := g.verifier.Verify(ctx, rawToken)
	if err != nil {
		return nil, err
	}
	if err := g.Authorize(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Authorize applies only the role requirement to an already verified user
func (g *Guard) Authorize(user *AuthenticatedUser) error {
	if len(g.required) == 0 {
		return nil
	}
	if user != nil && user.HasAnyRole(g.required...) {
		return nil
	}
	return newError(KindForbidden, fmt.Sprintf("Missing required role(s): %s", formatRoleList(g.required)), nil)
}

// formatRoleList renders roles as ['a', 'b']
func formatRoleList(roles []string) string {
	quoted := make([]string, len(roles))
	for i, r := range roles {
		quoted[i] = "'" + r + "'"
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
