package secret

import (
	"context"
	"testing"

	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"github.com/googleapis/gax-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type fakeAccessor struct {
	data  map[string]string
	names []string
}

func (f *fakeAccessor) AccessSecretVersion(_ context.Context, req *secretmanagerpb.AccessSecretVersionRequest, _ ...gax.CallOption) (*secretmanagerpb.AccessSecretVersionResponse, error) {
	f.names = append(f.names, req.GetName())
	v, ok := f.data[req.GetName()]
	if !ok {
		return nil, status.Error(codes.NotFound, "no such secret")
	}
	return &secretmanagerpb.AccessSecretVersionResponse{
		Payload: &secretmanagerpb.SecretPayload{Data: []byte(v)},
	}, nil
}

func (f *fakeAccessor) Close() error { return nil }

func TestProviderSM_Get(t *testing.T) {
	fa := &fakeAccessor{data: map[string]string{
		"projects/pos/secrets/sendgrid-api-key/versions/latest": " SG.key \n",
		"projects/other/secrets/x/versions/3":                   "v3",
		"projects/pos/secrets/blank/versions/latest":            "  ",
	}}
	p := &ProviderSM{client: fa, ProjectID: "pos"}
	ctx := context.Background()

	v, err := p.Get(ctx, "sendgrid-api-key")
	require.NoError(t, err)
	assert.Equal(t, "SG.key", v)

	v, err = p.Get(ctx, "projects/other/secrets/x/versions/3")
	require.NoError(t, err)
	assert.Equal(t, "v3", v)

	_, err = p.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrSecretNotFound)

	_, err = p.Get(ctx, "blank")
	assert.ErrorIs(t, err, ErrSecretNotFound)

	_, err = p.Get(ctx, " ")
	assert.ErrorIs(t, err, ErrSecretNotConfigured)
}

func TestProviderSM_NotConfigured(t *testing.T) {
	var p *ProviderSM
	_, err := p.Get(context.Background(), "x")
	assert.ErrorIs(t, err, ErrSecretNotConfigured)

	_, err = NewProviderSM(context.Background(), "")
	assert.ErrorIs(t, err, ErrSecretNotConfigured)
}
