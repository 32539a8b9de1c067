package app

import (
	"net/http"

	"github.com/damon-houk/fx-inflation-monitor/internal/infrastructure/handler"
	"github.com/damon-houk/fx-inflation-monitor/internal/infrastructure/middleware"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Router builds the HTTP routes of the monitor
func (w *Wire) Router() *mux.Router {
	router := mux.NewRouter()

	chain := []mux.MiddlewareFunc{
		chimw.RealIP,
		chimw.Recoverer,
		middleware.RequestIDMiddleware,
		middleware.LoggingMiddleware(w.Logger),
	}
	if w.Metrics != nil {
		chain = append(chain, middleware.MetricsMiddleware(w.Metrics))
		router.Handle("/metrics", promhttp.HandlerFor(w.Registry, promhttp.HandlerOpts{})).Methods("GET")
	}
	router.Use(chain...)

	// mux skips Use middleware when no route matches
	router.NotFoundHandler = wrap(http.NotFoundHandler(), chain)
	router.MethodNotAllowedHandler = wrap(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(http.StatusMethodNotAllowed)
	}), chain)

	handler.NewMarketHandler(w.Service, w.Logger).RegisterRoutes(router)

	return router
}

func wrap(h http.Handler, chain []mux.MiddlewareFunc) http.Handler {
	for i := len(chain) - 1; i >= 0; i-- {
		h = chain[i](h)
	}
	return h
}

// HTTPServer returns a server for Router configured from the HTTP settings
func (w *Wire) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         w.Config.Addr(),
		Handler:      w.Router(),
		ReadTimeout:  w.Config.HTTPServer.Timeout,
		WriteTimeout: w.Config.WriteTimeout(),
		IdleTimeout:  w.Config.HTTPServer.IdleTimeout,
	}
}
