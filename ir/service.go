package ir

import (
	"fmt"

	"github.com/broady/conjure/names"
)

// HTTPMethod is the HTTP verb of an endpoint.
type HTTPMethod string

const (
	MethodGet    HTTPMethod = "GET"
	MethodPost   HTTPMethod = "POST"
	MethodPut    HTTPMethod = "PUT"
	MethodDelete HTTPMethod = "DELETE"
)

// HTTPMethods lists the supported methods.
var HTTPMethods = []HTTPMethod{MethodGet, MethodPost, MethodPut, MethodDelete}

// AuthKind identifies how a request carries its credentials.
type AuthKind int

const (
	AuthHeader AuthKind = iota // Authorization: Bearer token
	AuthCookie                 // Token in a named cookie
)

// AuthType describes endpoint authentication. A nil *AuthType means none.
type AuthType struct {
	Kind       AuthKind `json:"-"`
	CookieName string   `json:"cookieName,omitempty"`
}

// HeaderAuth returns header authentication.
func HeaderAuth() *AuthType { return &AuthType{Kind: AuthHeader} }

// CookieAuth returns cookie authentication using the named cookie.
func CookieAuth(name string) *AuthType { return &AuthType{Kind: AuthCookie, CookieName: name} }

func (a *AuthType) String() string {
	switch {
	case a == nil:
		return "none"
	case a.Kind == AuthCookie:
		return "cookie:" + a.CookieName
	default:
		return "header"
	}
}

// ParameterType is the wire location of an argument. Query and header
// parameters carry the wire id.
type ParameterType struct {
	Kind names.ParamKind   `json:"type"`
	ID   names.ParameterID `json:"paramId"`
}

func BodyParam() ParameterType { return ParameterType{Kind: names.ParamBody} }
func PathParam() ParameterType { return ParameterType{Kind: names.ParamPath} }

// QueryParam returns a query parameter with the given id.
func QueryParam(id names.ParameterID) ParameterType {
	return ParameterType{Kind: names.ParamQuery, ID: id}
}

// HeaderParam returns a header parameter with the given id.
func HeaderParam(id names.ParameterID) ParameterType {
	return ParameterType{Kind: names.ParamHeader, ID: id}
}

func (p ParameterType) IsBody() bool   { return p.Kind == names.ParamBody }
func (p ParameterType) IsPath() bool   { return p.Kind == names.ParamPath }
func (p ParameterType) IsQuery() bool  { return p.Kind == names.ParamQuery }
func (p ParameterType) IsHeader() bool { return p.Kind == names.ParamHeader }

// ArgumentDefinition is one endpoint argument.
type ArgumentDefinition struct {
	Name      names.ArgumentName `json:"argName"`
	Type      Type               `json:"type"`
	ParamType ParameterType      `json:"paramType"`
	Safety    *LogSafety         `json:"safety,omitempty"`
	Markers   []Type             `json:"markers,omitempty"`
	Tags      []string           `json:"tags,omitempty"`
	Docs      Documentation      `json:"docs"`
}

// EndpointDefinition is one HTTP operation of a service.
type EndpointDefinition struct {
	Name   names.EndpointName `json:"endpointName"`
	Method HTTPMethod         `json:"httpMethod"`

	// Path is the full path template, including the service base path.
	Path string `json:"httpPath"`

	Auth    *AuthType            `json:"auth,omitempty"`
	Args    []ArgumentDefinition `json:"args"`
	Returns Type                 `json:"returns,omitempty"`

	// ReturnSafety is the declared log safety of the return value.
	ReturnSafety *LogSafety `json:"returnSafety,omitempty"`

	Markers []Type        `json:"markers,omitempty"`
	Errors  []TypeName    `json:"errors,omitempty"`
	Tags    []string      `json:"tags,omitempty"`
	Docs    Documentation `json:"docs"`
}

// Describe renders the endpoint for diagnostics.
func (e *EndpointDefinition) Describe() string {
	return fmt.Sprintf("%s{http: %s %s}", e.Name, e.Method, e.Path)
}

// ServiceDefinition is a named group of endpoints.
type ServiceDefinition struct {
	Name TypeName `json:"serviceName"`

	// DisplayName is the human-readable name, if declared.
	DisplayName string `json:"name,omitempty"`

	// BasePath prefixes every endpoint path. Defaults to "/".
	BasePath string `json:"basePath"`

	// DefaultAuth applies to endpoints that declare no auth of their own.
	DefaultAuth *AuthType `json:"defaultAuth,omitempty"`

	Endpoints []EndpointDefinition `json:"endpoints"`
	Docs      Documentation        `json:"docs"`
}

// FindEndpoint looks up an endpoint by name. Returns nil if not found.
func (s *ServiceDefinition) FindEndpoint(name string) *EndpointDefinition {
	for i := range s.Endpoints {
		if s.Endpoints[i].Name.String() == name {
			return &s.Endpoints[i]
		}
	}
	return nil
}
