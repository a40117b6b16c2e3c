package commands

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"

	cryptoDomain "github.com/saferoute/vault/internal/crypto/domain"
	cryptoService "github.com/saferoute/vault/internal/crypto/service"
)

// keyEncrypter is implemented by *secrets.Keeper.
type keyEncrypter interface {
	Encrypt(ctx context.Context, plaintext []byte) ([]byte, error)
}

// masterKeyOutput is the JSON shape of create-master-key.
type masterKeyOutput struct {
	MasterKey         string `json:"master_key"`
	MasterKeyEncoding string `json:"master_key_encoding,omitempty"`
	KMSProvider       string `json:"kms_provider,omitempty"`
	KMSKeyURI         string `json:"kms_key_uri,omitempty"`
}

// RunCreateMasterKey generates a cryptographically secure 32-byte vault master key.
//
// Without KMS parameters the key is printed base64 encoded, to be used with
// MASTER_KEY_ENCODING=base64. With kmsProvider and kmsKeyURI the key is encrypted by the
// KMS first and the printed value is the base64 ciphertext. Key material is zeroed after use.
//
// For local development, use kmsProvider="localsecrets" with kmsKeyURI="base64key://...".
func RunCreateMasterKey(
	ctx context.Context,
	kmsService cryptoService.KMSService,
	logger *slog.Logger,
	writer io.Writer,
	kmsProvider string,
	kmsKeyURI string,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}
	if (kmsProvider == "") != (kmsKeyURI == "") {
		return fmt.Errorf(
			"--kms-provider and --kms-key-uri are required together\n\nFor local development, use:\n  --kms-provider=localsecrets --kms-key-uri=\"base64key://<32-byte-base64-key>\"",
		)
	}

	masterKey := make([]byte, cryptoDomain.KeySize)
	if _, err := rand.Read(masterKey); err != nil {
		return fmt.Errorf("failed to generate master key: %w", err)
	}
	defer cryptoDomain.Zero(masterKey)

	output := masterKeyOutput{}
	if kmsKeyURI == "" {
		output.MasterKey = base64.StdEncoding.EncodeToString(masterKey)
		output.MasterKeyEncoding = string(cryptoDomain.KeyEncodingBase64)
	} else {
		ciphertext, err := encryptWithKMS(ctx, kmsService, logger, kmsKeyURI, masterKey)
		if err != nil {
			return err
		}
		output.MasterKey = base64.StdEncoding.EncodeToString(ciphertext)
		output.KMSProvider = kmsProvider
		output.KMSKeyURI = kmsKeyURI
	}

	logger.Info("master key generated", slog.String("kms_provider", kmsProvider))

	if format == "json" {
		return writeJSON(writer, output)
	}
	return writeMasterKeyText(writer, output)
}

func encryptWithKMS(
	ctx context.Context,
	kmsService cryptoService.KMSService,
	logger *slog.Logger,
	kmsKeyURI string,
	masterKey []byte,
) ([]byte, error) {
	keeper, err := kmsService.OpenKeeper(ctx, kmsKeyURI)
	if err != nil {
		return nil, fmt.Errorf("failed to open KMS keeper: %w", err)
	}
	defer func() {
		if closeErr := keeper.Close(); closeErr != nil {
			logger.Warn("failed to close KMS keeper", slog.Any("error", closeErr))
		}
	}()

	encrypter, ok := keeper.(keyEncrypter)
	if !ok {
		return nil, fmt.Errorf("KMS keeper does not support encryption")
	}

	ciphertext, err := encrypter.Encrypt(ctx, masterKey)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt master key with KMS: %w", err)
	}
	return ciphertext, nil
}

func writeMasterKeyText(w io.Writer, output masterKeyOutput) error {
	lines := []string{
		"# Vault Master Key Configuration",
		"# Copy these environment variables to your .env file or secrets manager",
		"",
	}
	if output.KMSKeyURI != "" {
		lines = append(lines,
			fmt.Sprintf("KMS_PROVIDER=%q", output.KMSProvider),
			fmt.Sprintf("KMS_KEY_URI=%q", output.KMSKeyURI),
		)
	} else {
		lines = append(lines, fmt.Sprintf("MASTER_KEY_ENCODING=%q", output.MasterKeyEncoding))
	}
	lines = append(lines, fmt.Sprintf("MASTER_KEY=%q", output.MasterKey))

	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
