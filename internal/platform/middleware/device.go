package middleware

import (
	"net/http"
	"strings"

	"github.com/mssola/useragent"

	"reclaim/pkg/requestcontext"
)

// ClientInfo captures a compact browser/OS description from the User-Agent
// header. Audit entries carry it as forensic context for admin review.
func ClientInfo(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get("User-Agent")
		if raw == "" {
			next.ServeHTTP(w, r)
			return
		}

		ua := useragent.New(raw)
		name, version := ua.Browser()
		parts := make([]string, 0, 3)
		if name != "" {
			if version != "" {
				parts = append(parts, name+" "+version)
			} else {
				parts = append(parts, name)
			}
		}
		if os := ua.OS(); os != "" {
			parts = append(parts, "on "+os)
		}
		if ua.Bot() {
			parts = append(parts, "(bot)")
		}
		if len(parts) == 0 {
			next.ServeHTTP(w, r)
			return
		}

		ctx := requestcontext.WithClientInfo(r.Context(), strings.Join(parts, " "))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
