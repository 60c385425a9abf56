package auth

import (
	"context"
	"slices"
)

type contextKey string

const (
	contextKeyRole    contextKey = "auth.role"
	contextKeySubject contextKey = "auth.subject"
	contextKeySites   contextKey = "auth.sites"
)

// WithIdentity stores auth identity details in context.
func WithIdentity(ctx context.Context, role Role, subject string, sites []string) context.Context {
	ctx = context.WithValue(ctx, contextKeyRole, role)
	ctx = context.WithValue(ctx, contextKeySubject, subject)
	ctx = context.WithValue(ctx, contextKeySites, sites)
	return ctx
}

// RoleFromContext extracts role from context.
func RoleFromContext(ctx context.Context) Role {
	if ctx == nil {
		return ""
	}
	if role, ok := ctx.Value(contextKeyRole).(Role); ok {
		return role
	}
	return ""
}

// SubjectFromContext extracts subject from context.
func SubjectFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if subject, ok := ctx.Value(contextKeySubject).(string); ok {
		return subject
	}
	return ""
}

// SitesFromContext extracts the site scope from context. Nil means unscoped.
func SitesFromContext(ctx context.Context) []string {
	if ctx == nil {
		return nil
	}
	sites, _ := ctx.Value(contextKeySites).([]string)
	return sites
}

// EnsureSiteAccess returns ErrSiteForbidden when the identity in ctx is
// scoped to a set of sites that does not include siteID. Requests without an
// identity (auth disabled) and unscoped tokens pass.
func EnsureSiteAccess(ctx context.Context, siteID string) error {
	sites := SitesFromContext(ctx)
	if len(sites) == 0 || RoleFromContext(ctx) == RoleAdmin {
		return nil
	}
	if siteID == "" || !slices.Contains(sites, siteID) {
		return ErrSiteForbidden
	}
	return nil
}
