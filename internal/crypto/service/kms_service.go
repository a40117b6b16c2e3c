package service

import (
	"context"
	"fmt"

	"gocloud.dev/secrets"

	cryptoDomain "github.com/saferoute/vault/internal/crypto/domain"

	// Register all KMS provider drivers
	_ "gocloud.dev/secrets/awskms"
	_ "gocloud.dev/secrets/azurekeyvault"
	_ "gocloud.dev/secrets/gcpkms"
	_ "gocloud.dev/secrets/hashivault"
	_ "gocloud.dev/secrets/localsecrets"
)

// kmsService implements KMSService using gocloud.dev/secrets.
type kmsService struct{}

// NewKMSService creates a new KMS service instance.
func NewKMSService() KMSService {
	return &kmsService{}
}

// OpenKeeper opens a secrets.Keeper for the configured KMS provider using the keyURI.
// Supports: gcpkms://, awskms://, azurekeyvault://, hashivault://, base64key://
func (k *kmsService) OpenKeeper(ctx context.Context, keyURI string) (cryptoDomain.KMSKeeper, error) {
	keeper, err := secrets.OpenKeeper(ctx, keyURI)
	if err != nil {
		return nil, fmt.Errorf("failed to open KMS keeper: %w", err)
	}
	return keeper, nil
}

// MasterKeySource describes where the master key comes from.
type MasterKeySource struct {
	// Value is the MASTER_KEY environment value.
	Value string
	// Encoding applies when no KMS is configured.
	Encoding cryptoDomain.KeyEncoding
	// KMSKeyURI, when set, means Value is base64 KMS ciphertext to unwrap with this keeper.
	KMSKeyURI string
}

// LoadMasterKey resolves src into a MasterKey, opening and closing a KMS keeper when needed.
func LoadMasterKey(ctx context.Context, kms KMSService, src MasterKeySource) (*cryptoDomain.MasterKey, error) {
	if src.KMSKeyURI == "" {
		return cryptoDomain.ParseMasterKey(src.Value, src.Encoding)
	}

	keeper, err := kms.OpenKeeper(ctx, src.KMSKeyURI)
	if err != nil {
		return nil, err
	}
	defer func() { _ = keeper.Close() }()

	return cryptoDomain.UnwrapMasterKey(ctx, keeper, src.Value)
}
