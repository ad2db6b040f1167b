// Package httpapi serves the create preview page and the sweep endpoint.
package httpapi

import (
	"context"
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-tugboat/pkg/page"
	"github.com/goliatone/go-tugboat/pkg/preview"
	"github.com/goliatone/go-tugboat/pkg/renderers/vanilla"
)

// PreviewService is the preview workflow the handlers drive.
type PreviewService interface {
	CreateForm(ctx context.Context, req preview.FormRequest) (page.Data, error)
	Submit(ctx context.Context, sub preview.Submission) (preview.Result, error)
	Sweep(ctx context.Context, now time.Time) ([]string, error)
}

// PageRenderer renders the create page around a form.
type PageRenderer interface {
	Render(ctx context.Context, data page.Data) ([]byte, error)
}

// Option configures the router.
type Option func(*handler)

// WithLogger sets the request and handler logger.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(h *handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithClock replaces time.Now for the sweep endpoint.
func WithClock(now func() time.Time) Option {
	return func(h *handler) {
		if now != nil {
			h.now = now
		}
	}
}

// WithTheme selects the theme and variant passed to the form builder.
func WithTheme(name, variant string) Option {
	return func(h *handler) {
		h.themeName = name
		h.themeVariant = variant
	}
}

// WithAssets replaces the files served under /assets/.
func WithAssets(files fs.FS) Option {
	return func(h *handler) {
		h.assets = files
	}
}

// WithCSRFKey sets the key signing CSRF cookies. Without it a random key is
// generated, so tokens do not survive a restart.
func WithCSRFKey(key []byte) Option {
	return func(h *handler) {
		h.csrfKey = key
	}
}

// WithSecureCookies marks the CSRF cookie Secure.
func WithSecureCookies(secure bool) Option {
	return func(h *handler) {
		h.secureCookies = secure
	}
}

// NewRouter wires the routes and middleware.
func NewRouter(svc PreviewService, pages PageRenderer, opts ...Option) http.Handler {
	h := &handler{
		svc:    svc,
		pages:  pages,
		logger: logrus.StandardLogger(),
		now:    time.Now,
		assets: vanilla.AssetsFS(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	h.csrf = newCSRFGuard(h.csrfKey, h.secureCookies)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(h.logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/previews", func(r chi.Router) {
		r.Get("/create", h.showCreate)
		r.With(h.csrf.verify).Post("/create", h.submitCreate)
		r.With(h.csrf.verify).Post("/sweep", h.sweep)
	})

	if h.assets != nil {
		r.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServer(http.FS(h.assets))))
	}

	return r
}

func requestLogger(logger logrus.FieldLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				logger.WithFields(logrus.Fields{
					"request_id": middleware.GetReqID(r.Context()),
					"method":     r.Method,
					"path":       r.URL.Path,
					"status":     ww.Status(),
					"bytes":      ww.BytesWritten(),
					"duration":   time.Since(start),
				}).Info("request")
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
