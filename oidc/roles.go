package oidc

import "sort"

// ExtractRoles collects roles from Keycloak-style claims:
// realm_access.roles, resource_access[clientID].roles and a top-level roles list.
// Malformed structures contribute nothing. The result is sorted and deduplicated.
func ExtractRoles(claims Claims, clientID string) []string {
	set := make(map[string]struct{})

	if realm, ok := claims.Object("realm_access"); ok {
		addRoles(set, realm)
	}

	if clientID != "" {
		if resources, ok := claims.Object("resource_access"); ok {
			if client, ok := resources.Object(clientID); ok {
				addRoles(set, client)
			}
		}
	}

	addRoles(set, claims)

	return sortedKeys(set)
}

func addRoles(set map[string]struct{}, holder Claims) {
	roles, ok := holder.List("roles")
	if !ok {
		return
	}
	for _, r := range roles {
		if _, isBool := r.(bool); isBool {
			continue
		}
		if s, ok := scalarString(r); ok {
			set[s] = struct{}{}
		}
	}
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
