package check

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/broady/conjure"
	"github.com/broady/conjure/cmd/conjure/internal/inputs"
)

type Cmd struct {
	Inputs  []string          `arg:"" help:"Source files or directories of .yml files." type:"path"`
	Option  map[string]string `help:"Compiler option as key=value (safety-declarations, strict, version)." short:"O"`
	Watch   bool              `help:"Watch for changes and check again." short:"w"`
	Verbose bool              `help:"Log debug output." short:"v"`

	stdout io.Writer `kong:"-"`
	stderr io.Writer `kong:"-"`
}

func (c *Cmd) Run() error {
	if c.stdout == nil {
		c.stdout = os.Stdout
	}
	if c.stderr == nil {
		c.stderr = os.Stderr
	}
	logger := inputs.Logger(c.stderr, c.Verbose)
	compiler, err := inputs.Compiler(c.Option, logger)
	if err != nil {
		return err
	}

	err = c.check(compiler)
	if !c.Watch {
		return err
	}
	if err != nil {
		fmt.Fprintf(c.stderr, "✗ %v\n", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	w, err := newWatcher(c.Inputs, logger)
	if err != nil {
		return err
	}
	defer w.Close()
	return w.Run(ctx, func() {
		if err := c.check(compiler); err != nil {
			fmt.Fprintf(c.stderr, "✗ %v\n", err)
		}
	})
}

// check compiles every input and prints a summary line per file.
func (c *Cmd) check(compiler *conjure.Compiler) error {
	files, err := inputs.Expand(c.Inputs)
	if err != nil {
		return err
	}
	var failed int
	for _, file := range files {
		def, err := compiler.CompileFile(file)
		if err != nil {
			failed++
			fmt.Fprintf(c.stdout, "✗ %s: %v\n", file, err)
			continue
		}
		var endpoints int
		for _, s := range def.Services {
			endpoints += len(s.Endpoints)
		}
		fmt.Fprintf(c.stdout, "✓ %s: %d types, %d errors, %d services, %d endpoints\n",
			file, len(def.Types), len(def.Errors), len(def.Services), endpoints)
		for _, w := range def.Warnings {
			fmt.Fprintf(c.stdout, "  ! %s: %s\n", w.Code, w.Message)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(files))
	}
	return nil
}
