package truthpack

import "time"

// DocMeta is the header every truthpack category document carries
type DocMeta struct {
	Version     string            `json:"version"`
	GeneratedAt time.Time         `json:"generated_at"`
	Summary     map[string]string `json:"summary,omitempty"`
}

// Route is one verified HTTP route
type Route struct {
	Path   string   `json:"path"`
	Method string   `json:"method"`
	Auth   string   `json:"auth,omitempty"`  // Auth requirement ("" = unauthenticated)
	Roles  []string `json:"roles,omitempty"` // Required roles, if any
	File   string   `json:"file,omitempty"`
	Line   int      `json:"line,omitempty"`
}

// RoutesDoc is the routes category document
type RoutesDoc struct {
	DocMeta
	Routes []Route `json:"routes"`
}

// EnvVar is one verified environment variable declaration
type EnvVar struct {
	Name      string `json:"name"`
	Required  bool   `json:"required"`
	Sensitive bool   `json:"sensitive,omitempty"`
	File      string `json:"file,omitempty"`
}

// EnvDoc is the environment-variable category document
type EnvDoc struct {
	DocMeta
	Vars []EnvVar `json:"vars"`
}

// AuthDoc is the auth-configuration category document
type AuthDoc struct {
	DocMeta
	Providers []string `json:"providers,omitempty"`
	Roles     []string `json:"roles,omitempty"`
	Protected []string `json:"protected,omitempty"` // Protected resource path prefixes
}

// Contract is one recorded API contract
type Contract struct {
	Path     string         `json:"path"`
	Method   string         `json:"method"`
	Request  map[string]any `json:"request,omitempty"`  // Request shape (field -> type)
	Response map[string]any `json:"response,omitempty"` // Response shape
}

// ContractsDoc is the API-contract category document
type ContractsDoc struct {
	DocMeta
	Contracts []Contract `json:"contracts"`
}
