package clients

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/yashbavkar26/agri-backend/api"
	"github.com/yashbavkar26/agri-backend/cryptoutils"
	"github.com/yashbavkar26/agri-backend/interfaces"
)

// CertificateClient talks to a running advisory certificate service over
// HTTP. It is used by the certclient binary and by integration tests.
type CertificateClient struct {
	// ServerAddr is the base URL of the certificate service.
	ServerAddr string

	// AuthToken, when set, is sent as a bearer token so the service can
	// derive the requester identity.
	AuthToken string

	// HTTPClient defaults to http.DefaultClient when nil.
	HTTPClient *http.Client
}

// Issue requests a signed certificate for the given exchange.
func (c *CertificateClient) Issue(req api.IssuanceRequest) (*api.IssuanceResponse, error) {
	var resp api.IssuanceResponse
	if err := c.postJSON("/api/v1/certificates", req, &resp); err != nil {
		return nil, fmt.Errorf("could not request issuance endpoint: %w", err)
	}
	return &resp, nil
}

// Verify checks a signed certificate against the service's public key.
func (c *CertificateClient) Verify(cert interfaces.SignedCertificate) (bool, error) {
	var resp api.VerificationResponse
	if err := c.postJSON("/api/v1/certificates/verify", cert, &resp); err != nil {
		return false, fmt.Errorf("could not request verification endpoint: %w", err)
	}
	return resp.Valid, nil
}

// SigningKey fetches the service's public verification key in PEM encoding.
func (c *CertificateClient) SigningKey() (cryptoutils.PublicKeyPEM, error) {
	httpResp, err := c.do(http.MethodGet, "/api/v1/certificates/signing-key", nil)
	if err != nil {
		return nil, fmt.Errorf("could not request signing key endpoint: %w", err)
	}
	defer httpResp.Body.Close()

	var resp api.SigningKeyResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("could not parse signing key response: %w", err)
	}

	key := cryptoutils.PublicKeyPEM(resp.PublicKey)
	if err := key.Validate(); err != nil {
		return nil, fmt.Errorf("service returned an invalid signing key: %w", err)
	}
	return key, nil
}

// Artifact fetches a rendered certificate document by its reference.
func (c *CertificateClient) Artifact(ref string) ([]byte, error) {
	httpResp, err := c.do(http.MethodGet, "/api/v1/artifacts/"+ref, nil)
	if err != nil {
		return nil, fmt.Errorf("could not request artifact endpoint: %w", err)
	}
	defer httpResp.Body.Close()

	return io.ReadAll(httpResp.Body)
}

func (c *CertificateClient) postJSON(path string, body any, out any) error {
	encoded, err := json.Marshal(body)
	if err != nil {
		return err
	}

	httpResp, err := c.do(http.MethodPost, path, bytes.NewReader(encoded))
	if err != nil {
		return err
	}
	defer httpResp.Body.Close()

	return json.NewDecoder(httpResp.Body).Decode(out)
}

func (c *CertificateClient) do(method, path string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequest(method, c.ServerAddr+path, body)
	if err != nil {
		return nil, err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.AuthToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.AuthToken)
	}

	client := c.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	} else if resp.StatusCode != http.StatusOK {
		bodyBytes, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			return nil, fmt.Errorf("endpoint returned non-200 response: %d", resp.StatusCode)
		}
		return nil, fmt.Errorf("endpoint returned error %d: %s", resp.StatusCode, string(bodyBytes))
	}

	return resp, nil
}
