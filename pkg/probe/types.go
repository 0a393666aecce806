package probe

import (
	"encoding/json"
	"errors"
	"fmt"
)

var ErrMissingStoreID = errors.New("response has no encrypted_response.store_id")

// SecretRef points at an encrypted value held by the external store.
type SecretRef struct {
	StoreID    string
	SecretName string
}

// Secret is the decrypted payload returned by the retrieval service.
type Secret struct {
	// Value is the "secret" field; HasValue tells an empty secret from a missing one.
	Value    string
	HasValue bool
	Raw      json.RawMessage
}

// Text is what the CLI prints: the secret field if present, otherwise the raw JSON.
func (s Secret) Text() string {
	if s.HasValue {
		return s.Value
	}
	return string(s.Raw)
}

// StatusError reports any status other than 200 with the server's raw body.
type StatusError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d: %s", e.Op, e.StatusCode, e.Body)
}

type submitRequest struct {
	Input string `json:"input"`
}

type submitResponse struct {
	EncryptedResponse struct {
		StoreID    string `json:"store_id"`
		SecretName string `json:"secret_name"`
	} `json:"encrypted_response"`
}

type retrieveResponse struct {
	Secret json.RawMessage `json:"secret"`
}
