// Package preview implements the create preview workflow: building the create
// form, submitting it to Tugboat and sweeping expired previews.
package preview

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	internalLoader "github.com/goliatone/go-tugboat/internal/openapi/loader"
	"github.com/goliatone/go-tugboat/pkg/model"
	pkgopenapi "github.com/goliatone/go-tugboat/pkg/openapi"
	"github.com/goliatone/go-tugboat/pkg/orchestrator"
	"github.com/goliatone/go-tugboat/pkg/page"
	"github.com/goliatone/go-tugboat/pkg/render"
	"github.com/goliatone/go-tugboat/pkg/tugboat"
)

// CreateOperationID is the OpenAPI operation the create form is built from.
const CreateOperationID = "createPreview"

// DefaultBaseRef is used when Config.BaseRef is empty.
const DefaultBaseRef = "main"

// Client is the subset of the Tugboat API the service needs.
type Client interface {
	CreatePreview(ctx context.Context, req tugboat.CreatePreviewRequest) (tugboat.Preview, error)
	ListPreviews(ctx context.Context, repo string) ([]tugboat.Preview, error)
	DeletePreview(ctx context.Context, id string) error
}

// Config holds the repository-level settings.
type Config struct {
	// Repo is the Tugboat repository id previews are created in.
	Repo string
	// BaseRef is the default ref of the form and is never swept.
	BaseRef string
	// DeleteAge is the age after which Sweep deletes a preview. Zero disables
	// sweeping.
	DeleteAge time.Duration
	// Endpoint overrides the form action URL.
	Endpoint string
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithOrchestratorOptions appends options to the form orchestrator, for
// example a theme manifest or UI schema overlay.
func WithOrchestratorOptions(opts ...orchestrator.Option) Option {
	return func(s *Service) {
		s.orchestratorOpts = append(s.orchestratorOpts, opts...)
	}
}

// Service coordinates the create form and the Tugboat API.
type Service struct {
	client           Client
	cfg              Config
	logger           logrus.FieldLogger
	orchestratorOpts []orchestrator.Option
	orch             *orchestrator.Orchestrator
}

// NewService builds a Service. Repo is required.
func NewService(client Client, cfg Config, opts ...Option) (*Service, error) {
	if client == nil {
		return nil, errors.New("preview: client is required")
	}
	cfg.Repo = strings.TrimSpace(cfg.Repo)
	if cfg.Repo == "" {
		return nil, errors.New("preview: repo is required")
	}
	cfg.BaseRef = strings.TrimSpace(cfg.BaseRef)
	if cfg.BaseRef == "" {
		cfg.BaseRef = DefaultBaseRef
	}
	if cfg.DeleteAge < 0 {
		return nil, fmt.Errorf("preview: delete age must not be negative, got %s", cfg.DeleteAge)
	}

	s := &Service{
		client: client,
		cfg:    cfg,
		logger: logrus.StandardLogger(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	base := []orchestrator.Option{
		orchestrator.WithLoader(internalLoader.New(pkgopenapi.NewLoaderOptions(
			pkgopenapi.WithFileSystem(SchemaFS()),
		))),
		orchestrator.WithSchemaTransformer(orchestrator.TransformerFunc(s.applyDefaults)),
	}
	if cfg.Endpoint != "" {
		base = append(base, orchestrator.WithEndpointOverrides(orchestrator.EndpointOverride{
			OperationID: CreateOperationID,
			Endpoint:    cfg.Endpoint,
		}))
	}
	s.orch = orchestrator.New(append(base, s.orchestratorOpts...)...)
	return s, nil
}

// Config returns the normalised configuration.
func (s *Service) Config() Config {
	return s.cfg
}

// Orchestrator exposes the form pipeline, e.g. to look up renderers.
func (s *Service) Orchestrator() *orchestrator.Orchestrator {
	return s.orch
}

// FormRequest carries per-request form state.
type FormRequest struct {
	Values       map[string]any
	Errors       map[string][]string
	HiddenFields map[string]string
	ThemeName    string
	ThemeVariant string
}

// CreateForm builds the create preview form with the base ref as the default
// ref.
func (s *Service) CreateForm(ctx context.Context, req FormRequest) (page.Data, error) {
	form, opts, err := s.orch.BuildForm(ctx, orchestrator.Request{
		Source:       pkgopenapi.SourceFromFS(SchemaFile),
		OperationID:  CreateOperationID,
		ThemeName:    req.ThemeName,
		ThemeVariant: req.ThemeVariant,
		RenderOptions: render.RenderOptions{
			Values:       req.Values,
			Errors:       req.Errors,
			HiddenFields: req.HiddenFields,
		},
	})
	if err != nil {
		return page.Data{}, fmt.Errorf("preview: build create form: %w", err)
	}
	opts.Errors = fieldErrors(form, opts.Errors)
	return page.Data{Form: form, Options: opts}, nil
}

// fieldErrors maps error keys onto form field paths; unknown keys become
// form-level messages under "".
func fieldErrors(form model.FormModel, payload map[string][]string) map[string][]string {
	if len(payload) == 0 {
		return payload
	}
	mapping := render.MapErrorPayload(form, payload)
	out := make(map[string][]string, len(mapping.Fields)+1)
	for path, messages := range mapping.Fields {
		out[path] = messages
	}
	if len(mapping.Form) > 0 {
		out[""] = mapping.Form
	}
	return out
}

func (s *Service) applyDefaults(_ context.Context, form *model.FormModel) error {
	field, ok := form.FieldByName("ref")
	if !ok {
		return errors.New("preview: create form has no ref field")
	}
	field.Default = s.cfg.BaseRef
	return nil
}

// Result describes a created preview.
type Result struct {
	Preview tugboat.Preview
	// Message is a status line with an HTML link to the preview.
	Message string
}

// Submit validates sub and creates the preview. Invalid input returns a
// *ValidationError; API failures are returned wrapped.
func (s *Service) Submit(ctx context.Context, sub Submission) (Result, error) {
	req, err := sub.normalise()
	if err != nil {
		return Result{}, err
	}
	req.Repo = s.cfg.Repo

	created, err := s.client.CreatePreview(ctx, req)
	if err != nil {
		s.logger.WithError(err).WithField("ref", req.Ref).Warn("create preview failed")
		return Result{}, fmt.Errorf("preview: create preview: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"preview": created.ID,
		"ref":     req.Ref,
		"type":    req.Type,
	}).Info("preview created")

	return Result{Preview: created, Message: createdMessage(created, req.Name)}, nil
}

func createdMessage(p tugboat.Preview, fallbackName string) string {
	if p.URL == "" {
		name := p.Name
		if name == "" {
			name = fallbackName
		}
		return "Preview created: " + html.EscapeString(name)
	}
	escaped := html.EscapeString(p.URL)
	return fmt.Sprintf(`Preview created: <a href="%s">%s</a>`, escaped, escaped)
}

// Sweep deletes previews created more than DeleteAge before now. Previews of
// the base ref, anchored previews and previews without a creation time are
// kept. It returns the deleted ids; failures are joined into the error and do
// not stop the sweep.
func (s *Service) Sweep(ctx context.Context, now time.Time) ([]string, error) {
	if s.cfg.DeleteAge == 0 {
		return nil, nil
	}

	previews, err := s.client.ListPreviews(ctx, s.cfg.Repo)
	if err != nil {
		return nil, fmt.Errorf("preview: list previews: %w", err)
	}

	var (
		deleted []string
		errs    []error
	)
	for _, p := range previews {
		if !s.expired(p, now) {
			continue
		}
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if err := s.client.DeletePreview(ctx, p.ID); err != nil {
			if tugboat.IsNotFound(err) {
				continue
			}
			errs = append(errs, fmt.Errorf("preview: delete %s: %w", p.ID, err))
			continue
		}
		s.logger.WithFields(logrus.Fields{
			"preview": p.ID,
			"ref":     p.Ref,
			"age":     now.Sub(p.CreatedAt).Round(time.Second),
		}).Info("expired preview deleted")
		deleted = append(deleted, p.ID)
	}

	return deleted, errors.Join(errs...)
}

func (s *Service) expired(p tugboat.Preview, now time.Time) bool {
	if p.Anchor || p.Ref == s.cfg.BaseRef || p.CreatedAt.IsZero() {
		return false
	}
	return now.Sub(p.CreatedAt) > s.cfg.DeleteAge
}
