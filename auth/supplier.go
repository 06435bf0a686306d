package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/golang-jwt/jwt/v5"

	"shareaudit/logging"
)

// ErrNoCredentials means no usable application credential is configured.
var ErrNoCredentials = errors.New("no credentials configured")

const graphScope = "https://graph.microsoft.com/.default"

// refreshSkew is how long before expiry a cached token is refreshed.
const refreshSkew = 5 * time.Minute

// Credentials holds the Azure AD application credential.
type Credentials struct {
	TenantID     string `json:"tenant_id"`
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
}

// Validate checks that all fields required for client-credential auth are set.
func (c Credentials) Validate() error {
	if c.TenantID == "" || c.ClientID == "" || c.ClientSecret == "" {
		return fmt.Errorf("%w: tenant_id, client_id and client_secret are all required", ErrNoCredentials)
	}
	return nil
}

// azureCredential is the slice of the azcore credential surface we consume.
type azureCredential interface {
	GetToken(ctx context.Context, opts policy.TokenRequestOptions) (azcore.AccessToken, error)
}

// Supplier provides bearer tokens for Graph calls, caching the token until
// shortly before its expiry. Invalidate forces the next Token call to fetch
// a fresh one; the executor calls it after the first 401 of a request.
type Supplier struct {
	cred azureCredential

	mu      sync.Mutex
	cached  azcore.AccessToken
	invalid bool

	logger *logging.Logger
}

// NewSupplier creates a token supplier from an application credential.
func NewSupplier(creds Credentials) (*Supplier, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}
	cred, err := azidentity.NewClientSecretCredential(creds.TenantID, creds.ClientID, creds.ClientSecret, nil)
	if err != nil {
		return nil, fmt.Errorf("build client secret credential: %w", err)
	}
	return &Supplier{
		cred:   cred,
		logger: logging.Default().WithComponent("token_supplier"),
	}, nil
}

// newSupplierWithCredential is the seam used by tests.
func newSupplierWithCredential(cred azureCredential) *Supplier {
	return &Supplier{
		cred:   cred,
		logger: logging.Default().WithComponent("token_supplier"),
	}
}

// Token returns a bearer token, reusing the cached one while it has at least
// refreshSkew of life left and has not been invalidated.
func (s *Supplier) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.invalid && s.cached.Token != "" && time.Until(s.cached.ExpiresOn) > refreshSkew {
		return s.cached.Token, nil
	}

	tok, err := s.cred.GetToken(ctx, policy.TokenRequestOptions{Scopes: []string{graphScope}})
	if err != nil {
		return "", fmt.Errorf("acquire token: %w", err)
	}
	s.cached = tok
	s.invalid = false
	s.logger.Debug("acquired token", "expires_on", tok.ExpiresOn.Format(time.RFC3339))
	return tok.Token, nil
}

// Invalidate marks the cached token stale so the next Token call refreshes.
func (s *Supplier) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invalid = true
}

// TenantIDFromToken extracts the "tid" claim from a bearer token.
// The token signature is not verified: the token was just handed to us by
// Azure AD itself, and the claim is only used for labelling output. This is
// NOT safe for authenticating incoming requests.
func TenantIDFromToken(token string) (string, error) {
	parser := new(jwt.Parser)
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return "", fmt.Errorf("parse token: %w", err)
	}
	tid, ok := claims["tid"].(string)
	if !ok {
		return "", errors.New("no 'tid' claim in token")
	}
	return tid, nil
}
