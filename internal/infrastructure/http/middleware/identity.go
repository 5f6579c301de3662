package middleware

import (
	"net/http"

	"github.com/amirhosseinghanipour/todorpc/internal/application/ports"
	"github.com/rs/zerolog"
)

// Identity builds a RequestContext for every request. It never rejects: an unresolvable
// Authorization header leaves UserID empty and procedures decide.
type Identity struct {
	resolver ports.IdentityResolver
	log      zerolog.Logger
}

func NewIdentity(resolver ports.IdentityResolver, log zerolog.Logger) *Identity {
	return &Identity{resolver: resolver, log: log}
}

func (m *Identity) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rc := &RequestContext{Headers: r.Header.Clone()}
		if authz := r.Header.Get("Authorization"); authz != "" && m.resolver != nil {
			uid, err := m.resolver.ResolveUserID(authz)
			if err != nil {
				m.log.Debug().Err(err).Msg("authorization not accepted")
			} else {
				rc.UserID = uid
			}
		}
		next.ServeHTTP(w, r.WithContext(WithRequestContext(r.Context(), rc)))
	})
}
