// Package oidc verifies OIDC bearer tokens issued by a single provider.
//
// This package provides:
//   - TTL caches for the discovery document and the JWKS
//   - RS256 signature, issuer, audience and expiry checks
//   - Role extraction from realm_access, resource_access and roles claims
//   - Role guards that report unauthenticated, forbidden or unavailable errors
package oidc
