package parser

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/tools/txtar"
	"gopkg.in/yaml.v3"

	"github.com/broady/conjure/internal/errs"
)

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Parse decodes one source file. Imported files are not loaded.
func Parse(name string, data []byte) (*File, error) {
	f := &File{Path: name}
	if err := yaml.Unmarshal(data, f); err != nil {
		return nil, errs.Wrap(errs.CodeParse, fmt.Errorf("%s: %w", name, err))
	}
	if err := f.check(); err != nil {
		return nil, errs.Wrap(errs.CodeParse, fmt.Errorf("%s: %w", name, err))
	}
	return f, nil
}

// check validates the struct tags of every element, reporting the first
// failure with the path of the offending element.
func (f *File) check() error {
	for _, e := range f.Types.ConjureImports.Entries {
		if e.Value == "" {
			return fmt.Errorf("conjure-imports %s: path is required", e.Key)
		}
	}
	for _, e := range f.Types.Imports.Entries {
		if err := check("imports "+e.Key, &e.Value); err != nil {
			return err
		}
	}
	for _, e := range f.Types.Definitions.Objects.Entries {
		ctx := "objects " + e.Key
		if err := check(ctx, &e.Value); err != nil {
			return err
		}
		if _, err := e.Value.Kind(); err != nil {
			return fmt.Errorf("%s: %w", ctx, err)
		}
		for _, fe := range e.Value.Fields.entries() {
			if err := check(ctx+"."+fe.Key, &fe.Value); err != nil {
				return err
			}
		}
		for _, fe := range e.Value.Union.entries() {
			if err := check(ctx+"."+fe.Key, &fe.Value); err != nil {
				return err
			}
		}
		for _, v := range e.Value.Values {
			if err := check(ctx, &v); err != nil {
				return err
			}
		}
	}
	for _, e := range f.Types.Definitions.Errors.Entries {
		ctx := "errors " + e.Key
		if err := check(ctx, &e.Value); err != nil {
			return err
		}
		for _, a := range slices.Concat(e.Value.SafeArgs.Entries, e.Value.UnsafeArgs.Entries) {
			if err := check(ctx+"."+a.Key, &a.Value); err != nil {
				return err
			}
		}
	}
	for _, s := range f.Services.Entries {
		for _, ep := range s.Value.Endpoints.Entries {
			ctx := "services " + s.Key + "." + ep.Key
			if err := check(ctx, &ep.Value); err != nil {
				return err
			}
			for _, a := range ep.Value.Args.Entries {
				if err := check(ctx+"."+a.Key, &a.Value); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (m *OrderedMap[V]) entries() []Entry[V] {
	if m == nil {
		return nil
	}
	return m.Entries
}

// check validates the tags of v. Nested ordered maps are validated by the
// caller so that errors name the offending key.
func check(ctx string, v any) error {
	err := validate.StructFiltered(v, func(ns []byte) bool {
		// Skip fields inside ordered maps; they are checked per entry.
		return strings.Contains(string(ns), ".Entries")
	})
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%s: %w", ctx, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fe.Field()+" "+formatValidationError(fe))
	}
	return fmt.Errorf("%s: %s", ctx, strings.Join(msgs, "; "))
}

// formatValidationError converts a validator.FieldError to a human-readable message.
func formatValidationError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	default:
		if fe.Param() != "" {
			return fmt.Sprintf("failed %s=%s validation", fe.Tag(), fe.Param())
		}
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

// Loader reads source files and follows conjure-imports. Each file is
// parsed at most once.
type Loader struct {
	read  func(name string) ([]byte, error)
	files map[string]*File
}

// NewLoader returns a Loader that reads files with read.
func NewLoader(read func(name string) ([]byte, error)) *Loader {
	return &Loader{read: read, files: make(map[string]*File)}
}

// Load parses name and, recursively, every file it imports. The returned
// file's Imported map is keyed by namespace.
func (l *Loader) Load(name string) (*File, error) {
	name = filepath.Clean(name)
	if f, ok := l.files[name]; ok {
		return f, nil
	}
	data, err := l.read(name)
	if err != nil {
		return nil, errs.Wrap(errs.CodeParse, err)
	}
	f, err := Parse(name, data)
	if err != nil {
		return nil, err
	}
	// Register before following imports so that mutual imports terminate.
	l.files[name] = f
	f.Imported = make(map[string]*File, f.Types.ConjureImports.Len())
	for _, e := range f.Types.ConjureImports.Entries {
		imp, err := l.Load(filepath.Join(filepath.Dir(name), e.Value))
		if err != nil {
			return nil, fmt.Errorf("%s: conjure-imports %s: %w", name, e.Key, err)
		}
		f.Imported[e.Key] = imp
	}
	return f, nil
}

// Load parses the named file from disk along with its imports.
func Load(name string) (*File, error) {
	return NewLoader(os.ReadFile).Load(name)
}

// LoadArchive parses the named file from a txtar archive. Imports are
// resolved against other files in the same archive.
func LoadArchive(a *txtar.Archive, name string) (*File, error) {
	files := make(map[string][]byte, len(a.Files))
	for _, f := range a.Files {
		files[filepath.Clean(f.Name)] = f.Data
	}
	return NewLoader(func(n string) ([]byte, error) {
		data, ok := files[n]
		if !ok {
			return nil, fmt.Errorf("open %s: %w", n, os.ErrNotExist)
		}
		return data, nil
	}).Load(name)
}
