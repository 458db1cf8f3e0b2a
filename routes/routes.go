package routes

import (
	"net/http"
	"net/url"
	"strings"

	"transportbilling/handlers"
	"transportbilling/metrics"
)

// CORS middleware
func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		// Handle preflight request
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func wrap(h http.HandlerFunc) http.Handler {
	return withCORS(http.HandlerFunc(handlers.RecoverWrapper(h)))
}

// NewRouter wires every endpoint onto a fresh mux.
func NewRouter(lrHandler *handlers.LRHandler, billingHandler *handlers.BillingHandler) *http.ServeMux {
	mux := http.NewServeMux()

	mux.Handle("/healthz", wrap(handlers.Health))
	mux.Handle("/metrics", metrics.Handler())

	mux.Handle("/bills/generate", wrap(billingHandler.GenerateBills))

	mux.Handle("/lr", wrap(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		lrHandler.ListLR(w, r)
	}))

	// LR ids may contain slashes, so everything after the prefix is the id.
	mux.Handle("/lr/", wrap(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		id, err := url.PathUnescape(strings.TrimPrefix(r.URL.EscapedPath(), "/lr/"))
		if err != nil || id == "" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		lrHandler.GetLR(w, r, id)
	}))

	return mux
}
