package render_test

import (
	"context"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-tugboat/pkg/model"
	"github.com/goliatone/go-tugboat/pkg/render"
)

func TestRegistry_RegisterAndGet(t *testing.T) {
	registry := render.NewRegistry()
	registry.MustRegister(namedRenderer("vanilla"))
	registry.MustRegister(namedRenderer("debug"))

	if err := registry.Register(namedRenderer("vanilla")); err == nil {
		t.Fatal("expected duplicate registration to fail")
	}
	if err := registry.Register(nil); err == nil {
		t.Fatal("expected nil renderer to fail")
	}
	if err := registry.Register(namedRenderer("")); err == nil {
		t.Fatal("expected unnamed renderer to fail")
	}

	got, err := registry.Get("vanilla")
	if err != nil || got.Name() != "vanilla" {
		t.Fatalf("get: %v %v", got, err)
	}
	if _, err := registry.Get("preact"); err == nil {
		t.Fatal("expected unknown renderer to fail")
	}
	if !registry.Has("debug") || registry.Has("preact") {
		t.Fatal("unexpected Has result")
	}
	if diff := cmp.Diff([]string{"debug", "vanilla"}, registry.List()); diff != "" {
		t.Fatalf("list mismatch (-want +got):\n%s", diff)
	}
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	registry := render.NewRegistry()
	var wg sync.WaitGroup
	for _, name := range []string{"a", "b", "c", "d"} {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			_ = registry.Register(namedRenderer(name))
			_ = registry.List()
		}(name)
	}
	wg.Wait()

	if got := len(registry.List()); got != 4 {
		t.Fatalf("expected 4 renderers, got %d", got)
	}
}

type namedRenderer string

func (n namedRenderer) Name() string        { return string(n) }
func (n namedRenderer) ContentType() string { return "text/html" }
func (n namedRenderer) Render(context.Context, model.FormModel, render.RenderOptions) ([]byte, error) {
	return []byte(n), nil
}
