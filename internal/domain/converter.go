package domain

import (
	"context"

	"algomate.dev/pkg/algomate/internal/adapter"
	m "algomate.dev/pkg/algomate/internal/model"
)

// Settings configures one conversion run.
type Settings struct {
	Layout  m.Layout
	Markers m.MarkerNames
	Stub    m.StubTemplate
}

// DefaultSettings returns the exercise conventions.
func DefaultSettings() Settings {
	return Settings{
		Layout:  m.DefaultLayout(),
		Markers: m.DefaultMarkerNames(),
		Stub:    m.DefaultStubTemplate(),
	}
}

// Converter runs the redaction pipeline over one repository:
// discovery, model build, classification, redaction, import resolution
// and emission, strictly in that order.
type Converter interface {
	// Plan runs every stage up to rendering and leaves the repository untouched.
	Plan(ctx context.Context, root m.Path) (m.Report, error)
	// Convert runs the whole pipeline and rewrites the repository in place.
	Convert(ctx context.Context, root m.Path) (m.Report, error)
}

type converter struct {
	settings  Settings
	discovery *Discovery
	builder   *Builder
	renderer  *Renderer
	emitter   *Emitter
}

// NewConverter wires the pipeline stages over the given adapters.
func NewConverter(fs adapter.SourceFSAdapter, java adapter.JavaFileAdapter, settings Settings) (Converter, error) {
	discovery, err := NewDiscovery(fs, settings.Layout)
	if err != nil {
		return nil, err
	}

	return &converter{
		settings:  settings,
		discovery: discovery,
		builder:   NewBuilder(fs, java),
		renderer:  NewRenderer(NewImportResolver(java)),
		emitter:   NewEmitter(fs),
	}, nil
}

func (c *converter) Plan(ctx context.Context, root m.Path) (m.Report, error) {
	return c.run(context.WithoutCancel(ctx), root, true)
}

func (c *converter) Convert(ctx context.Context, root m.Path) (m.Report, error) {
	return c.run(context.WithoutCancel(ctx), root, false)
}

// run executes one conversion. ctx carries values only; once started a run
// completes or fails.
func (c *converter) run(ctx context.Context, root m.Path, dryRun bool) (m.Report, error) {
	report := m.Report{Root: root, DryRun: dryRun}

	files, err := c.discovery.Discover(ctx, root)
	if err != nil {
		return report, err
	}

	program, err := c.builder.Build(ctx, c.discovery.SourceDir(ctx, root), files)
	if err != nil {
		return report, err
	}

	classification := Classify(program, c.settings.Markers)
	report.Plan = Redact(program, classification, c.settings.Stub)

	results, err := c.renderer.Render(ctx, program, report.Plan)
	if err != nil {
		return report, err
	}

	report.Files = results

	if dryRun {
		return report, nil
	}

	if err := c.emitter.Emit(ctx, results); err != nil {
		return report, err
	}

	return report, nil
}
