// internal/infra/secret/provider_sm.go
package secret

import (
	"context"
	"errors"
	"fmt"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"github.com/googleapis/gax-go/v2"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var (
	ErrSecretNotConfigured = errors.New("secret_provider: not configured")
	ErrSecretNotFound      = errors.New("secret_provider: secret not found")
)

// accessor は *secretmanager.Client のうち使う部分だけ。
type accessor interface {
	AccessSecretVersion(ctx context.Context, req *secretmanagerpb.AccessSecretVersionRequest, opts ...gax.CallOption) (*secretmanagerpb.AccessSecretVersionResponse, error)
	Close() error
}

// ProviderSM は Secret Manager の最新バージョンを文字列で返します（SendGrid API キーなど）。
type ProviderSM struct {
	client    accessor
	ProjectID string
}

func NewProviderSM(ctx context.Context, projectID string, opts ...option.ClientOption) (*ProviderSM, error) {
	pid := strings.TrimSpace(projectID)
	if pid == "" {
		return nil, fmt.Errorf("%w: projectID is empty", ErrSecretNotConfigured)
	}
	c, err := secretmanager.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("secret_provider: new client: %w", err)
	}
	return &ProviderSM{client: c, ProjectID: pid}, nil
}

// Get は secretID（短い名前 or projects/.../secrets/... の完全名）の latest を読みます。
func (p *ProviderSM) Get(ctx context.Context, secretID string) (string, error) {
	if p == nil || p.client == nil {
		return "", ErrSecretNotConfigured
	}
	id := strings.TrimSpace(secretID)
	if id == "" {
		return "", fmt.Errorf("%w: secret id is empty", ErrSecretNotConfigured)
	}

	res, err := p.client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{
		Name: p.versionName(id),
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return "", fmt.Errorf("%w: %s", ErrSecretNotFound, id)
		}
		return "", fmt.Errorf("secret_provider: access %s: %w", id, err)
	}
	if res == nil || res.Payload == nil {
		return "", fmt.Errorf("%w: %s", ErrSecretNotFound, id)
	}

	s := strings.TrimSpace(string(res.Payload.Data))
	if s == "" {
		return "", fmt.Errorf("%w: %s is empty", ErrSecretNotFound, id)
	}
	return s, nil
}

func (p *ProviderSM) Close() error {
	if p == nil || p.client == nil {
		return nil
	}
	return p.client.Close()
}

func (p *ProviderSM) versionName(id string) string {
	if strings.HasPrefix(id, "projects/") {
		if strings.Contains(id, "/versions/") {
			return id
		}
		return id + "/versions/latest"
	}
	return fmt.Sprintf("projects/%s/secrets/%s/versions/latest", p.ProjectID, id)
}
