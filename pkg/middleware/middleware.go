package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/apexev/workshop/pkg/composables"
	"github.com/apexev/workshop/pkg/configuration"
)

// ProvidePool puts the database pool into every request context so that
// repositories and composables.InTx can reach it.
func ProvidePool(pool *pgxpool.Pool) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(composables.WithPool(r.Context(), pool)))
		})
	}
}

// RequestLogger attaches a request-scoped logrus entry and logs completion.
func RequestLogger(logger *logrus.Logger) mux.MiddlewareFunc {
	conf := configuration.Use()
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := strings.TrimSpace(r.Header.Get(conf.RequestIDHeader))
			if requestID == "" {
				requestID = uuid.New().String()
			}
			entry := logger.WithFields(logrus.Fields{
				"request_id": requestID,
				"method":     r.Method,
				"path":       r.URL.Path,
			})
			ctx := composables.WithRequestID(r.Context(), requestID)
			ctx = composables.WithLogger(ctx, entry)

			start := time.Now()
			next.ServeHTTP(w, r.WithContext(ctx))
			entry.WithField("duration", time.Since(start).String()).Info("request completed")
		})
	}
}

// ProvideActor reads the authenticated actor handed over by the upstream
// authentication context. Requests without a valid actor proceed without one
// and fail authorization at the service layer.
func ProvideActor() mux.MiddlewareFunc {
	conf := configuration.Use()
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := uuid.Parse(strings.TrimSpace(r.Header.Get(conf.ActorIDHeader)))
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			role, ok := composables.ParseRole(strings.TrimSpace(r.Header.Get(conf.ActorRoleHeader)))
			if !ok {
				next.ServeHTTP(w, r)
				return
			}
			ctx := composables.WithActor(r.Context(), composables.Actor{ID: id, Role: role})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
