package validator

import (
	"fmt"
	"slices"
	"strings"

	"github.com/broady/conjure/internal/errs"
	"github.com/broady/conjure/internal/httppath"
	"github.com/broady/conjure/ir"
)

// ServiceRules run once per service, before the endpoint rules of that
// service.
var ServiceRules = []Rule[*ir.ServiceDefinition]{
	{"TypeName", func(_ *Context, s *ir.ServiceDefinition) error { return typeNameFormat(s.Name) }},
	{"Package", func(_ *Context, s *ir.ServiceDefinition) error { return packageFormat(s.Name) }},
	{"IllegalServiceSuffix", checkServiceSuffix},
	{"HttpPath", checkBasePath},
	{"UniquePathMethods", checkUniquePathMethods},
}

func checkServiceSuffix(_ *Context, s *ir.ServiceDefinition) error {
	if strings.HasSuffix(s.Name.Name.String(), "Retrofit") {
		return fail("Service name must not end in 'Retrofit', this suffix is reserved for generated clients: %s", s.Name.Name)
	}
	return nil
}

func checkBasePath(_ *Context, s *ir.ServiceDefinition) error {
	if s.BasePath == "" {
		return nil
	}
	_, err := httppath.Parse(s.BasePath)
	return err
}

// checkUniquePathMethods reports every method and normalized path that is
// claimed by more than one endpoint of the service.
func checkUniquePathMethods(_ *Context, s *ir.ServiceDefinition) error {
	var claims []pathClaim
	for _, ep := range s.Endpoints {
		if key, ok := pathKey(&ep); ok {
			claims = append(claims, pathClaim{key: key, endpoint: ep.Name.String()})
		}
	}
	return pathCollisions(claims)
}

// checkUniquePathMethodsAcrossServices reports a method and normalized path
// claimed by endpoints of different services. Collisions within one
// service are left to the service rule.
func checkUniquePathMethodsAcrossServices(_ *Context, def *ir.Definition) error {
	var claims []pathClaim
	for _, s := range def.Services {
		for _, ep := range s.Endpoints {
			if key, ok := pathKey(&ep); ok {
				claims = append(claims, pathClaim{
					key:      key,
					endpoint: s.Name.Name.String() + "." + ep.Name.String(),
					service:  s.Name.String(),
				})
			}
		}
	}
	services := make(map[string]map[string]bool)
	for _, c := range claims {
		if services[c.key] == nil {
			services[c.key] = make(map[string]bool)
		}
		services[c.key][c.service] = true
	}
	claims = slices.DeleteFunc(claims, func(c pathClaim) bool { return len(services[c.key]) < 2 })
	return pathCollisions(claims)
}

type pathClaim struct {
	key      string
	endpoint string
	service  string
}

// pathKey returns "METHOD /normalized/{arg}". Unparseable paths are
// reported by HttpPath on the endpoint.
func pathKey(ep *ir.EndpointDefinition) (string, bool) {
	p, err := httppath.Parse(ep.Path)
	if err != nil {
		return "", false
	}
	return fmt.Sprintf("%s %s", ep.Method, p.Normalized()), true
}

func pathCollisions(claims []pathClaim) error {
	byKey := make(map[string][]string)
	var order []string
	for _, c := range claims {
		if _, ok := byKey[c.key]; !ok {
			order = append(order, c.key)
		}
		byKey[c.key] = append(byKey[c.key], c.endpoint)
	}

	var msgs, dups []string
	for _, key := range order {
		eps := byKey[key]
		if len(eps) < 2 {
			continue
		}
		slices.Sort(eps)
		msgs = append(msgs, fmt.Sprintf("Endpoint %q is defined by multiple endpoints: %s", key, strings.Join(eps, ", ")))
		dups = append(dups, eps...)
	}
	if len(msgs) > 0 {
		return errs.New(errs.CodeValidation, strings.Join(msgs, "; "), dups...)
	}
	return nil
}
