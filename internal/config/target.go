package config

import "strings"

// DefaultBaseURL is the public practice storefront the suite targets when
// BASE_URL is unset.
const DefaultBaseURL = "https://automationteststore.com/"

// TargetConfig describes the storefront under test.
type TargetConfig struct {
	BaseURL   string
	LoginName string
	Password  string
}

// LoadTargetConfig loads the storefront location and optional credentials
func LoadTargetConfig(getenv func(string) string) TargetConfig {
	base := strings.TrimSpace(getenv("BASE_URL"))
	if base == "" {
		base = DefaultBaseURL
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return TargetConfig{
		BaseURL:   base,
		LoginName: getenv("VALID_LOGIN_NAME"),
		Password:  getenv("VALID_PASSWORD"),
	}
}

// HasCredentials reports whether a pre-existing account was supplied.
func (c TargetConfig) HasCredentials() bool {
	return c.LoginName != "" && c.Password != ""
}
