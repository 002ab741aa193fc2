package compile

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/broady/conjure/cmd/conjure/internal/inputs"
	"github.com/broady/conjure/sink"
)

type Cmd struct {
	Inputs  []string          `arg:"" help:"Source files or directories of .yml files." type:"path"`
	Out     string            `help:"Output directory for .conjure.json files." short:"o" default:"."`
	Option  map[string]string `help:"Compiler option as key=value (safety-declarations, strict, version)." short:"O"`
	Force   bool              `help:"Overwrite existing output files." short:"f"`
	Verbose bool              `help:"Log debug output." short:"v"`

	stdout io.Writer `kong:"-"`
	stderr io.Writer `kong:"-"`
}

func (c *Cmd) Run() error {
	stdout, stderr := c.stdout, c.stderr
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}

	files, err := inputs.Expand(c.Inputs)
	if err != nil {
		return err
	}
	names, err := outputNames(files)
	if err != nil {
		return err
	}
	compiler, err := inputs.Compiler(c.Option, inputs.Logger(stderr, c.Verbose))
	if err != nil {
		return err
	}

	ctx := context.Background()
	defs, err := compiler.CompileFiles(ctx, files...)
	if err != nil {
		return err
	}

	out := sink.NewFilesystemSink(c.Out)
	out.Overwrite = c.Force
	for i, file := range files {
		name := names[i]
		if err := sink.WriteDefinition(ctx, out, name, defs[i]); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
		fmt.Fprintf(stdout, "✓ %s -> %s\n", file, filepath.Join(c.Out, name+sink.Ext))
	}
	return nil
}

// outputNames maps each input to its output name and rejects inputs that
// would write the same file.
func outputNames(files []string) ([]string, error) {
	names := make([]string, len(files))
	owner := make(map[string]string, len(files))
	for i, file := range files {
		name := sink.OutputName(filepath.Base(file))
		if prev, ok := owner[name]; ok {
			return nil, fmt.Errorf("inputs %s and %s both write %s%s", prev, file, name, sink.Ext)
		}
		owner[name] = file
		names[i] = name
	}
	return names, nil
}
