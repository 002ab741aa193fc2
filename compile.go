// Package conjure compiles definition source files into a validated
// definition graph.
//
// Compilation runs in four steps: the source is parsed, names and type
// references are resolved (following conjure-imports), the definitions are
// assembled into one ir.Definition, and the validator suite checks the
// result. The first failure stops compilation and is returned as an *Error.
//
//	def, err := conjure.New().WithStrict(true).CompileFile("api.yml")
package conjure

import (
	"context"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/txtar"

	"github.com/broady/conjure/internal/errs"
	"github.com/broady/conjure/internal/metrics"
	"github.com/broady/conjure/internal/parser"
	"github.com/broady/conjure/internal/resolve"
	"github.com/broady/conjure/ir"
	"github.com/broady/conjure/validator"
)

// Compiler compiles source files. A Compiler holds no state between calls
// and is safe for concurrent use once configured.
type Compiler struct {
	opts   Options
	logger *slog.Logger
}

// New returns a Compiler with default options.
func New() *Compiler {
	return &Compiler{}
}

// WithOptions replaces all options.
func (c *Compiler) WithOptions(opts Options) *Compiler {
	c.opts = opts
	return c
}

// WithLogger sets the logger that receives warnings.
// If not set, slog.Default() will be used.
func (c *Compiler) WithLogger(logger *slog.Logger) *Compiler {
	c.logger = logger
	return c
}

// WithSafetyDeclarations sets whether log safety must be declared.
func (c *Compiler) WithSafetyDeclarations(mode SafetyMode) *Compiler {
	c.opts.SafetyDeclarations = mode
	return c
}

// WithStrict makes legacy names errors instead of warnings.
func (c *Compiler) WithStrict(strict bool) *Compiler {
	c.opts.Strict = strict
	return c
}

// Options returns the current options.
func (c *Compiler) Options() Options { return c.opts }

func (c *Compiler) log() *slog.Logger {
	if c.logger != nil {
		return c.logger
	}
	return slog.Default()
}

// Compile compiles one source file given its name and contents. The file
// may not use conjure-imports, since there is nothing to load them from.
func (c *Compiler) Compile(name string, data []byte) (*ir.Definition, error) {
	f, err := parser.Parse(name, data)
	if err != nil {
		return nil, c.done(nil, err)
	}
	if f.Types.ConjureImports.Len() > 0 {
		return nil, c.done(nil, errs.Errorf(errs.CodeParse, "%s: conjure-imports require CompileFile", name))
	}
	f.Imported = map[string]*parser.File{}
	return c.compile(f)
}

// CompileFile loads path and every file it imports and compiles them into
// one definition.
func (c *Compiler) CompileFile(path string) (*ir.Definition, error) {
	f, err := parser.Load(path)
	if err != nil {
		return nil, c.done(nil, err)
	}
	return c.compile(f)
}

// CompileArchive compiles the named file of a txtar archive. Imports are
// loaded from the same archive.
func (c *Compiler) CompileArchive(a *txtar.Archive, name string) (*ir.Definition, error) {
	f, err := parser.LoadArchive(a, name)
	if err != nil {
		return nil, c.done(nil, err)
	}
	return c.compile(f)
}

// CompileFiles compiles each path independently and in parallel. The
// results are in the order of paths. The first error cancels the remaining
// work and is returned.
func (c *Compiler) CompileFiles(ctx context.Context, paths ...string) ([]*ir.Definition, error) {
	defs := make([]*ir.Definition, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			def, err := c.CompileFile(path)
			if err != nil {
				return err
			}
			defs[i] = def
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return defs, nil
}

func (c *Compiler) compile(f *parser.File) (*ir.Definition, error) {
	scope, err := resolve.New(f)
	if err != nil {
		return nil, c.done(nil, err)
	}
	a := &assembler{
		opts:   c.opts,
		logger: c.log().With(slog.String("file", f.Path)),
		def:    &ir.Definition{Version: c.opts.version()},
	}
	for _, s := range scope.Scopes() {
		if err := a.addScope(s, s == scope); err != nil {
			return nil, c.done(nil, err)
		}
	}
	err = validator.Validate(a.def, validator.Options{RequireSafety: c.opts.requireSafety()})
	if err := c.done(a.def, err); err != nil {
		return nil, err
	}
	return a.def, nil
}

// done records the outcome and normalizes the error.
func (c *Compiler) done(def *ir.Definition, err error) error {
	if err != nil {
		e := errs.From(err)
		metrics.CountCompilation(string(e.Code))
		c.log().Debug("compilation failed", slog.String("code", string(e.Code)), slog.String("rule", e.Rule))
		return e
	}
	metrics.CountCompilation("ok")
	c.log().Debug("compiled definition",
		slog.Int("types", len(def.Types)),
		slog.Int("errors", len(def.Errors)),
		slog.Int("services", len(def.Services)),
		slog.Int("warnings", len(def.Warnings)))
	return nil
}
