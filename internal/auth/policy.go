package auth

import (
	"net/http"
	"strings"
)

// Policy determines required roles by request.
type Policy struct {
	ExemptPaths    map[string]struct{}
	ExemptPrefixes []string
}

// NewDefaultPolicy builds a default policy with exemptions.
func NewDefaultPolicy(exemptPaths []string, exemptPrefixes []string) Policy {
	set := make(map[string]struct{}, len(exemptPaths))
	for _, path := range exemptPaths {
		set[path] = struct{}{}
	}
	return Policy{ExemptPaths: set, ExemptPrefixes: exemptPrefixes}
}

// IsExempt returns true when a request should skip auth/RBAC.
func (p Policy) IsExempt(r *http.Request) bool {
	if r == nil {
		return true
	}
	if _, ok := p.ExemptPaths[r.URL.Path]; ok {
		return true
	}
	for _, prefix := range p.ExemptPrefixes {
		if strings.HasPrefix(r.URL.Path, prefix) {
			return true
		}
	}
	return false
}

// RequiredRole resolves the minimum role for the request.
func (p Policy) RequiredRole(r *http.Request) (Role, bool) {
	if r == nil {
		return "", false
	}
	path := r.URL.Path
	method := r.Method

	switch {
	case path == "/api/v1/billing/config":
		if method == http.MethodPost {
			return RoleAdmin, true
		}
		return RoleDirector, true
	case strings.HasPrefix(path, "/api/v1/billing/config/"):
		return RoleDirector, true
	case path == "/api/v1/billing/fees/generate":
		return RoleAdmin, true
	case path == "/api/v1/billing/fees/mark-paid":
		return RoleDirector, true
	case path == "/api/v1/billing/fees/export.pdf":
		return RoleResident, true
	case strings.HasPrefix(path, "/api/v1/billing/fees/export."):
		return RoleDirector, true
	case path == "/api/v1/billing/fees":
		return RoleResident, true
	case path == "/api/v1/residents":
		if method == http.MethodPost {
			return RoleAdmin, true
		}
		return RoleDirector, true
	case strings.HasPrefix(path, "/api/v1/residents/"):
		if method == http.MethodGet {
			// Residents may fetch their own record; the handler
			// enforces the ownership check.
			return RoleResident, true
		}
		return RoleAdmin, true
	case path == "/api/v1/notices" && method == http.MethodPost:
		return RoleDirector, true
	case strings.HasPrefix(path, "/api/v1/notices"):
		return RoleResident, true
	case path == "/api/v1/documents" && method == http.MethodPost:
		return RoleDirector, true
	case strings.HasPrefix(path, "/api/v1/documents"):
		return RoleResident, true
	}

	if strings.HasPrefix(path, "/api/") {
		if method == http.MethodGet || method == http.MethodHead || method == http.MethodOptions {
			return RoleResident, true
		}
		return RoleDirector, true
	}
	return "", false
}
