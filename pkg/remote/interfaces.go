package remote

import "context"

// CredentialProvider produces the current API secret. Making this a
// capability instead of a captured string keeps late-bound and rotating
// credentials first-class: the provider is consulted on every call.
type CredentialProvider interface {
	Credential(ctx context.Context) (string, error)
}

// StaticCredentials is a CredentialProvider over a fixed API key.
type StaticCredentials string

// Credential implements CredentialProvider.
func (s StaticCredentials) Credential(context.Context) (string, error) {
	return string(s), nil
}

// CredentialProviderFunc adapts a function to the CredentialProvider interface.
type CredentialProviderFunc func(ctx context.Context) (string, error)

// Credential implements CredentialProvider.
func (f CredentialProviderFunc) Credential(ctx context.Context) (string, error) {
	return f(ctx)
}
