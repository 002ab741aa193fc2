package ir

// Definition is the complete, validated graph handed to generators.
type Definition struct {
	// Version is the definition format version. Always SupportedVersion once
	// validated.
	Version int `json:"version"`

	// Types contains every named type, local and imported, in source order
	// with imports first.
	Types []TypeDefinition `json:"types"`

	// Errors contains every error definition.
	Errors []ErrorDefinition `json:"errors"`

	// Services contains every service in source order.
	Services []ServiceDefinition `json:"services"`

	// Warnings contains non-fatal issues encountered during compilation.
	Warnings []Warning `json:"-"`
}

// FindType looks up a type by name. Returns nil if not found.
func (d *Definition) FindType(name TypeName) TypeDefinition {
	for _, t := range d.Types {
		if t.TypeName() == name {
			return t
		}
	}
	return nil
}

// FindError looks up an error by name. Returns nil if not found.
func (d *Definition) FindError(name TypeName) *ErrorDefinition {
	for i := range d.Errors {
		if d.Errors[i].Name == name {
			return &d.Errors[i]
		}
	}
	return nil
}

// FindService looks up a service by its unqualified name. Returns nil if
// not found.
func (d *Definition) FindService(name string) *ServiceDefinition {
	for i := range d.Services {
		if d.Services[i].Name.Name.String() == name {
			return &d.Services[i]
		}
	}
	return nil
}

// TypeIndex returns a fresh map from name to definition.
func (d *Definition) TypeIndex() map[TypeName]TypeDefinition {
	idx := make(map[TypeName]TypeDefinition, len(d.Types))
	for _, t := range d.Types {
		idx[t.TypeName()] = t
	}
	return idx
}

// AddWarning adds a warning to the definition.
func (d *Definition) AddWarning(w Warning) {
	d.Warnings = append(d.Warnings, w)
}
