package probe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	opSubmit   = "submit input"
	opRetrieve = "retrieve secret"

	seedParam       = "retrieve_as_nillion_user_seed"
	secretNameParam = "secret_name"
)

// Config is the fixed set of endpoints and credentials the probe uses.
type Config struct {
	ServerURL  string `validate:"required,url"`
	DecryptURL string `validate:"required,url"`
	Seed       string `validate:"required"`
	// SecretName is used when the server response does not name the secret.
	SecretName string `validate:"required"`
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// Client runs the submit-then-retrieve sequence against two remote services.
type Client struct {
	cfg  Config
	http *http.Client
}

var validate = validator.New()

func NewClient(cfg Config, opts ...Option) (*Client, error) {
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid probe config: %w", err)
	}

	c := &Client{cfg: cfg, http: http.DefaultClient}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Run submits text and retrieves the resulting secret. A failed submit never reaches the retrieval service.
func (c *Client) Run(ctx context.Context, input string) (Secret, error) {
	ref, err := c.SubmitInput(ctx, input)
	if err != nil {
		return Secret{}, err
	}
	return c.RetrieveSecret(ctx, ref)
}

// SubmitInput POSTs {"input": text} to the server and extracts the secret reference.
func (c *Client) SubmitInput(ctx context.Context, input string) (SecretRef, error) {
	body, err := json.Marshal(submitRequest{Input: input})
	if err != nil {
		return SecretRef{}, fmt.Errorf("%s: encode body: %w", opSubmit, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.ServerURL, bytes.NewReader(body))
	if err != nil {
		return SecretRef{}, fmt.Errorf("%s: build request: %w", opSubmit, err)
	}
	req.Header.Set("Content-Type", "application/json")

	respBody, err := c.do(req, opSubmit)
	if err != nil {
		return SecretRef{}, err
	}

	var parsed submitResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return SecretRef{}, fmt.Errorf("%s: decode response: %w", opSubmit, err)
	}
	if parsed.EncryptedResponse.StoreID == "" {
		return SecretRef{}, fmt.Errorf("%s: %w", opSubmit, ErrMissingStoreID)
	}

	ref := SecretRef{
		StoreID:    parsed.EncryptedResponse.StoreID,
		SecretName: parsed.EncryptedResponse.SecretName,
	}
	if ref.SecretName == "" {
		ref.SecretName = c.cfg.SecretName
	}
	return ref, nil
}

// RetrieveSecret asks the decrypt service for the value behind ref using the configured seed.
func (c *Client) RetrieveSecret(ctx context.Context, ref SecretRef) (Secret, error) {
	if ref.StoreID == "" {
		return Secret{}, fmt.Errorf("%s: %w", opRetrieve, ErrMissingStoreID)
	}

	name := ref.SecretName
	if name == "" {
		name = c.cfg.SecretName
	}

	params := url.Values{}
	params.Set(seedParam, c.cfg.Seed)
	params.Set(secretNameParam, name)
	endpoint := strings.TrimRight(c.cfg.DecryptURL, "/") + "/" + url.PathEscape(ref.StoreID) + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Secret{}, fmt.Errorf("%s: build request: %w", opRetrieve, err)
	}
	req.Header.Set("Accept", "application/json")

	respBody, err := c.do(req, opRetrieve)
	if err != nil {
		return Secret{}, err
	}

	if !json.Valid(respBody) {
		return Secret{}, fmt.Errorf("%s: response is not valid JSON: %s", opRetrieve, respBody)
	}

	secret := Secret{Raw: json.RawMessage(respBody)}

	var parsed retrieveResponse
	if err := json.Unmarshal(respBody, &parsed); err == nil && len(parsed.Secret) > 0 && string(parsed.Secret) != "null" {
		secret.HasValue = true
		var s string
		if err := json.Unmarshal(parsed.Secret, &s); err == nil {
			secret.Value = s
		} else {
			secret.Value = string(parsed.Secret)
		}
	}
	return secret, nil
}

func (c *Client) do(req *http.Request, op string) ([]byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: read body: %w", op, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Op: op, StatusCode: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}
