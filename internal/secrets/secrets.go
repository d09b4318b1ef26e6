package secrets

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"google.golang.org/api/option"
)

const scheme = "sm://"

var ErrInvalidRef = errors.New("invalid secret reference")

type accessFunc func(ctx context.Context, name string) ([]byte, error)

// Reader loads small payloads such as cookie files either from disk or from
// Secret Manager (sm://projects/P/secrets/S[/versions/V]).
type Reader struct {
	access accessFunc
}

func NewReader(opts ...option.ClientOption) *Reader {
	return &Reader{access: secretManagerAccess(opts)}
}

func (r *Reader) Read(ctx context.Context, ref string) ([]byte, error) {
	if !strings.HasPrefix(ref, scheme) {
		data, err := os.ReadFile(ref)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", ref, err)
		}
		return data, nil
	}

	name, err := VersionName(ref)
	if err != nil {
		return nil, err
	}

	data, err := r.access(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to access secret %s: %w", name, err)
	}
	return data, nil
}

// VersionName turns an sm:// reference into a secret version resource name,
// defaulting to the latest version.
func VersionName(ref string) (string, error) {
	name := strings.Trim(strings.TrimPrefix(ref, scheme), "/")
	parts := strings.Split(name, "/")

	switch {
	case len(parts) == 4 && parts[0] == "projects" && parts[2] == "secrets":
		name += "/versions/latest"
	case len(parts) == 6 && parts[0] == "projects" && parts[2] == "secrets" && parts[4] == "versions":
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidRef, ref)
	}

	for _, p := range parts {
		if p == "" {
			return "", fmt.Errorf("%w: %q", ErrInvalidRef, ref)
		}
	}
	return name, nil
}

func secretManagerAccess(opts []option.ClientOption) accessFunc {
	return func(ctx context.Context, name string) ([]byte, error) {
		client, err := secretmanager.NewClient(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create secret manager client: %w", err)
		}
		defer func() { _ = client.Close() }()

		resp, err := client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{Name: name})
		if err != nil {
			return nil, err
		}
		return resp.GetPayload().GetData(), nil
	}
}
