// Package guard holds the authentication and maintenance middleware.
package guard

import (
	"context"
	"net/http"
	"slices"
	"strings"

	"github.com/Tim1593/shop-db2/internal/auth"
	"github.com/Tim1593/shop-db2/internal/http/respond"
	"github.com/Tim1593/shop-db2/internal/maintenance"
	"github.com/Tim1593/shop-db2/internal/shoperr"
)

type ctxKey struct{}

// Credential returns the bearer token of r. The legacy "token" header is
// accepted as well.
func Credential(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}

	return r.Header.Get("token")
}

// Admin returns the administrator attached by RequireAdmin or OptionalAdmin.
func Admin(ctx context.Context) (auth.Admin, bool) {
	admin, ok := ctx.Value(ctxKey{}).(auth.Admin)
	return admin, ok
}

func withAdmin(ctx context.Context, admin auth.Admin) context.Context {
	return context.WithValue(ctx, ctxKey{}, admin)
}

// RequireAdmin rejects requests without a valid administrator token.
func RequireAdmin(authorizer auth.Authorizer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			admin, err := authorizer.RequireAdmin(r.Context(), Credential(r))
			if err != nil {
				respond.Error(w, r, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(withAdmin(r.Context(), admin)))
		})
	}
}

// OptionalAdmin attaches the administrator when the caller is one and passes
// everybody else through anonymously.
func OptionalAdmin(authorizer auth.Authorizer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			admin, err := authorizer.Resolve(r.Context(), Credential(r))
			if err != nil {
				respond.Error(w, r, err)
				return
			}

			if admin != nil {
				r = r.WithContext(withAdmin(r.Context(), *admin))
			}

			next.ServeHTTP(w, r)
		})
	}
}

// Maintenance rejects every request while maintenance mode is on, except the
// full paths in exempt. Administrators use those to log in and switch it off.
func Maintenance(mode *maintenance.Mode, exempt ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if mode.Enabled() && !isExempt(r.URL.Path, exempt) {
				respond.Error(w, r, shoperr.ErrMaintenanceMode)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// isExempt compares full request paths. A trailing slash is ignored.
func isExempt(path string, exempt []string) bool {
	path = strings.TrimSuffix(path, "/")

	return slices.Contains(exempt, path)
}
