package fstore

import (
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"errors"
	"fmt"
	"strings"
)

// tokenURI is the OAuth2 token endpoint written into generated service account files.
const tokenURI = "https://oauth2.googleapis.com/token"

// Credentials are the three values identifying a Firebase service account.
type Credentials struct {
	ProjectID   string
	PrivateKey  string
	ClientEmail string
}

// Complete reports whether all three credential values are present.
func (c Credentials) Complete() bool {
	return c.ProjectID != "" && c.PrivateKey != "" && c.ClientEmail != ""
}

// Key returns the private key with escaped newlines ("\n" as two characters,
// as found in .env files) turned into real ones.
func (c Credentials) Key() string {
	return strings.ReplaceAll(c.PrivateKey, `\n`, "\n")
}

// Validate checks that all values are present and that the private key is a
// PEM encoded RSA key (PKCS#8 or PKCS#1).
func (c Credentials) Validate() error {
	if !c.Complete() {
		return errors.New("incomplete credentials: project id, private key and client email are required")
	}
	block, _ := pem.Decode([]byte(c.Key()))
	if block == nil {
		return errors.New("private key is not PEM encoded")
	}
	if _, err := x509.ParsePKCS8PrivateKey(block.Bytes); err == nil {
		return nil
	}
	if _, err := x509.ParsePKCS1PrivateKey(block.Bytes); err != nil {
		return fmt.Errorf("failed to parse private key: %w", err)
	}
	return nil
}

// serviceAccountJSON renders the credentials as a Google service account key file.
func (c Credentials) serviceAccountJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type        string `json:"type"`
		ProjectID   string `json:"project_id"`
		PrivateKey  string `json:"private_key"`
		ClientEmail string `json:"client_email"`
		TokenURI    string `json:"token_uri"`
	}{
		Type:        "service_account",
		ProjectID:   c.ProjectID,
		PrivateKey:  c.Key(),
		ClientEmail: c.ClientEmail,
		TokenURI:    tokenURI,
	})
}

// String renders the credentials without exposing the private key.
func (c Credentials) String() string {
	key := "<unset>"
	if c.PrivateKey != "" {
		key = "<redacted>"
	}
	return fmt.Sprintf("project=%q email=%q key=%s", c.ProjectID, c.ClientEmail, key)
}
