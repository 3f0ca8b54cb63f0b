// Package config defines the typed configuration structs consumed by the
// Armature backend factories.
//
// Each backend gets one flat, immutable parameter bag plus, where the
// backend supports more than one mode, an enumerated selector (database
// engine, API auth mode, SFTP auth mode). Configs carry no lifecycle of
// their own: a factory reads one once, builds a client, and the config is
// done. Validation is explicit via Validate and is always performed by the
// factories before any network I/O.
//
// Example usage:
//
//	cfg := &config.DBConfig{
//	    Type:     config.DatabasePostgres,
//	    Host:     "localhost",
//	    Port:     5432,
//	    User:     "pguser",
//	    Password: "pgpass",
//	    Database: "pgdb",
//	}
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
package config

import (
	"fmt"
	"time"
)

// DatabaseType enumerates the supported relational engines.
type DatabaseType string

const (
	// DatabasePostgres selects the pgx driver
	DatabasePostgres DatabaseType = "postgres"
	// DatabaseMySQL selects the go-sql-driver/mysql driver
	DatabaseMySQL DatabaseType = "mysql"
	// DatabaseMSSQL selects the go-mssqldb driver
	DatabaseMSSQL DatabaseType = "mssql"
	// DatabaseOracle selects the go-ora driver
	DatabaseOracle DatabaseType = "oracle"
	// DatabaseSnowflake selects the gosnowflake driver; Host carries the
	// account identifier
	DatabaseSnowflake DatabaseType = "snowflake"
)

// DBConfig describes a relational database connection.
type DBConfig struct {
	// Type selects the engine and therefore the driver and DSN form
	Type DatabaseType `yaml:"type" json:"type"`
	// Host is the server host, or the account identifier for snowflake
	Host string `yaml:"host" json:"host"`
	// Port is the server port; 0 means the engine default
	Port int `yaml:"port" json:"port"`
	// User is the login user
	User string `yaml:"user" json:"user"`
	// Password is the login password
	Password string `yaml:"password" json:"password"`
	// Database names the database, or the service name for oracle
	Database string `yaml:"database" json:"database"`
	// Extra options are forwarded verbatim as DSN parameters; for mssql the
	// "dsn" key replaces the assembled DSN entirely
	Extra map[string]string `yaml:"extra,omitempty" json:"extra,omitempty"`
}

// Validate checks required fields.
func (c *DBConfig) Validate() error {
	if c.Type == "" {
		return fmt.Errorf("type is required")
	}
	if c.Host == "" {
		return fmt.Errorf("host is required")
	}
	if c.Database == "" {
		return fmt.Errorf("database is required")
	}
	return nil
}

// APIAuthType enumerates the HTTP authentication strategies.
type APIAuthType string

const (
	// APIAuthNone performs no authentication
	APIAuthNone APIAuthType = "none"
	// APIAuthBasic sends transport-level basic auth
	APIAuthBasic APIAuthType = "basic"
	// APIAuthBearer sends a static bearer token
	APIAuthBearer APIAuthType = "bearer"
	// APIAuthKeyHeader sends the API key as a request header
	APIAuthKeyHeader APIAuthType = "api_key_header"
	// APIAuthKeyQuery sends the API key as a query parameter
	APIAuthKeyQuery APIAuthType = "api_key_query"
	// APIAuthOAuth2ClientCredentials exchanges client credentials for a
	// bearer token at session build time
	APIAuthOAuth2ClientCredentials APIAuthType = "oauth2_client_credentials"
)

// APIConfig describes an HTTP API endpoint and how to authenticate to it.
type APIConfig struct {
	// BaseURL is the root of the API, e.g. https://api.example.com
	BaseURL string `yaml:"base_url" json:"base_url"`
	// AuthType selects the authentication strategy; defaults to none
	AuthType APIAuthType `yaml:"auth_type" json:"auth_type"`

	// Basic auth
	Username string `yaml:"username,omitempty" json:"username,omitempty"`
	Password string `yaml:"password,omitempty" json:"password,omitempty"`

	// Bearer auth
	Token string `yaml:"token,omitempty" json:"token,omitempty"`

	// API key auth (header or query)
	APIKeyName  string `yaml:"api_key_name,omitempty" json:"api_key_name,omitempty"`
	APIKeyValue string `yaml:"api_key_value,omitempty" json:"api_key_value,omitempty"`

	// OAuth2 client credentials
	OAuth2TokenURL     string `yaml:"oauth2_token_url,omitempty" json:"oauth2_token_url,omitempty"`
	OAuth2ClientID     string `yaml:"oauth2_client_id,omitempty" json:"oauth2_client_id,omitempty"`
	OAuth2ClientSecret string `yaml:"oauth2_client_secret,omitempty" json:"oauth2_client_secret,omitempty"`

	// DefaultHeaders are applied to every request
	DefaultHeaders map[string]string `yaml:"default_headers,omitempty" json:"default_headers,omitempty"`

	// Timeout bounds each request; 0 means 30s
	Timeout time.Duration `yaml:"timeout,omitempty" json:"timeout,omitempty"`
}

// AuthMode returns the configured auth type, defaulting to none.
func (c *APIConfig) AuthMode() APIAuthType {
	if c.AuthType == "" {
		return APIAuthNone
	}
	return c.AuthType
}

// Validate checks that the fields required by the selected auth mode are
// present. Unknown auth modes are rejected here so construction fails before
// any request is made.
func (c *APIConfig) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base_url is required")
	}

	switch c.AuthMode() {
	case APIAuthNone, APIAuthKeyHeader, APIAuthKeyQuery:
		// api_key modes tolerate empty name/value: they degrade to no-ops,
		// matching the documented contract
	case APIAuthBasic:
		if c.Username == "" {
			return fmt.Errorf("username is required for basic auth")
		}
	case APIAuthBearer:
		if c.Token == "" {
			return fmt.Errorf("token is required for bearer auth")
		}
	case APIAuthOAuth2ClientCredentials:
		if c.OAuth2TokenURL == "" || c.OAuth2ClientID == "" || c.OAuth2ClientSecret == "" {
			return fmt.Errorf("oauth2 client credentials require oauth2_token_url, oauth2_client_id and oauth2_client_secret")
		}
	default:
		return fmt.Errorf("unsupported auth_type: %s", c.AuthType)
	}
	return nil
}

// SFTPAuthType enumerates SFTP authentication strategies.
type SFTPAuthType string

const (
	// SFTPAuthPassword authenticates with a password only
	SFTPAuthPassword SFTPAuthType = "password"
	// SFTPAuthPrivateKey authenticates with a private key only
	SFTPAuthPrivateKey SFTPAuthType = "private_key"
	// SFTPAuthPasswordAndKey offers both methods
	SFTPAuthPasswordAndKey SFTPAuthType = "password_and_key"
)

// SFTPConfig describes an SFTP server connection.
type SFTPConfig struct {
	Host     string `yaml:"host" json:"host"`
	Port     int    `yaml:"port" json:"port"` // defaults to 22
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password,omitempty" json:"password,omitempty"`
	// PrivateKeyPath points at a PEM-encoded private key file
	PrivateKeyPath string `yaml:"private_key_path,omitempty" json:"private_key_path,omitempty"`
	// PrivateKeyPassphrase decrypts the key file when set
	PrivateKeyPassphrase string `yaml:"private_key_passphrase,omitempty" json:"private_key_passphrase,omitempty"`
	// KnownHostsPath enables host key verification when set; when empty the
	// host key is accepted without verification
	KnownHostsPath string       `yaml:"known_hosts_path,omitempty" json:"known_hosts_path,omitempty"`
	AuthType       SFTPAuthType `yaml:"auth_type" json:"auth_type"` // defaults to password
}

// AuthMode returns the configured auth type, defaulting to password.
func (c *SFTPConfig) AuthMode() SFTPAuthType {
	if c.AuthType == "" {
		return SFTPAuthPassword
	}
	return c.AuthType
}

// Addr returns host:port with the default port applied.
func (c *SFTPConfig) Addr() string {
	port := c.Port
	if port == 0 {
		port = 22
	}
	return fmt.Sprintf("%s:%d", c.Host, port)
}

// Validate checks required fields for the selected auth mode.
func (c *SFTPConfig) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("host is required")
	}
	switch c.AuthMode() {
	case SFTPAuthPassword:
	case SFTPAuthPrivateKey, SFTPAuthPasswordAndKey:
		if c.PrivateKeyPath == "" {
			return fmt.Errorf("private_key_path is required for auth_type %s", c.AuthMode())
		}
	default:
		return fmt.Errorf("unsupported auth_type: %s", c.AuthType)
	}
	return nil
}

// MongoConfig describes a MongoDB deployment.
type MongoConfig struct {
	// URI is the mongodb:// connection string
	URI string `yaml:"uri" json:"uri"`
	// Username and Password are attached only when both are set
	Username string `yaml:"username,omitempty" json:"username,omitempty"`
	Password string `yaml:"password,omitempty" json:"password,omitempty"`
	// AuthSource names the authentication database
	AuthSource string `yaml:"auth_source,omitempty" json:"auth_source,omitempty"`
}

// Validate checks required fields.
func (c *MongoConfig) Validate() error {
	if c.URI == "" {
		return fmt.Errorf("uri is required")
	}
	return nil
}

// VaultConfig describes a HashiCorp Vault server and how to authenticate.
// Token takes precedence; otherwise a GCP-signed JWT plus role performs a
// gcp login. With neither, the returned client is unauthenticated.
type VaultConfig struct {
	URL  string `yaml:"url" json:"url"`
	Role string `yaml:"role,omitempty" json:"role,omitempty"`
	// JWT is a GCP-signed identity token for the gcp auth method
	JWT string `yaml:"jwt,omitempty" json:"jwt,omitempty"`
	// Token is a direct Vault token
	Token string `yaml:"token,omitempty" json:"token,omitempty"`
}

// Validate checks required fields.
func (c *VaultConfig) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("url is required")
	}
	if c.Token == "" && c.JWT != "" && c.Role == "" {
		return fmt.Errorf("role is required for jwt auth")
	}
	return nil
}

// GCPConfig carries the project and credentials used by all Google Cloud
// factories. When CredentialsPath is set, GOOGLE_APPLICATION_CREDENTIALS is
// also pointed at it (only if unset) so transitive SDK lookups agree.
type GCPConfig struct {
	ProjectID string `yaml:"project_id" json:"project_id"`
	// CredentialsPath points at a service account JSON file; empty means
	// application default credentials
	CredentialsPath string `yaml:"credentials_path,omitempty" json:"credentials_path,omitempty"`
}

// Validate checks required fields.
func (c *GCPConfig) Validate() error {
	if c.ProjectID == "" {
		return fmt.Errorf("project_id is required")
	}
	return nil
}

// S3Config describes an S3 (or S3-compatible) endpoint.
type S3Config struct {
	Region string `yaml:"region" json:"region"`
	// Static credentials; when empty the default AWS credential chain is used
	AccessKeyID     string `yaml:"access_key_id,omitempty" json:"access_key_id,omitempty"`
	SecretAccessKey string `yaml:"secret_access_key,omitempty" json:"secret_access_key,omitempty"`
	SessionToken    string `yaml:"session_token,omitempty" json:"session_token,omitempty"`
	// Endpoint overrides the service endpoint, e.g. for MinIO or tests
	Endpoint string `yaml:"endpoint,omitempty" json:"endpoint,omitempty"`
	// UsePathStyle forces path-style addressing, required by most
	// S3-compatible servers
	UsePathStyle bool `yaml:"use_path_style,omitempty" json:"use_path_style,omitempty"`
}

// Validate checks required fields.
func (c *S3Config) Validate() error {
	if c.Region == "" {
		return fmt.Errorf("region is required")
	}
	if (c.AccessKeyID == "") != (c.SecretAccessKey == "") {
		return fmt.Errorf("access_key_id and secret_access_key must be set together")
	}
	return nil
}
