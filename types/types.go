package types

import "encoding/json"

// RedirectURI is the loopback redirect used by installed-app flows.
const RedirectURI = "http://localhost"

// WebCredentials is the client secret file google issues for a web application.
type WebCredentials struct {
	Web ClientConfig `json:"web"`
}

// ClientConfig holds the fields shared by the web and installed shapes.
// Values are kept raw and copied as found; a key present with a null value
// still decodes to the bytes "null", so only absent keys are left nil.
type ClientConfig struct {
	ClientId                json.RawMessage `json:"client_id" validate:"required"`
	ProjectId               json.RawMessage `json:"project_id" validate:"required"`
	AuthURI                 json.RawMessage `json:"auth_uri" validate:"required"`
	TokenURI                json.RawMessage `json:"token_uri" validate:"required"`
	AuthProviderx509CertURL json.RawMessage `json:"auth_provider_x509_cert_url" validate:"required"`
	ClientSecret            json.RawMessage `json:"client_secret" validate:"required"`
}

// InstalledCredentials is the client secret file shape expected by desktop flows.
type InstalledCredentials struct {
	Installed InstalledConfig `json:"installed"`
}

type InstalledConfig struct {
	ClientId                json.RawMessage `json:"client_id"`
	ProjectId               json.RawMessage `json:"project_id"`
	AuthURI                 json.RawMessage `json:"auth_uri"`
	TokenURI                json.RawMessage `json:"token_uri"`
	AuthProviderx509CertURL json.RawMessage `json:"auth_provider_x509_cert_url"`
	ClientSecret            json.RawMessage `json:"client_secret"`
	RedirectUris            []string        `json:"redirect_uris"`
}
