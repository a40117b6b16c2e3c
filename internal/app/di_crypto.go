package app

import (
	"context"
	"fmt"
	"log/slog"

	cryptoDomain "github.com/saferoute/vault/internal/crypto/domain"
	cryptoService "github.com/saferoute/vault/internal/crypto/service"
)

// KMSService returns the KMS service.
func (c *Container) KMSService() cryptoService.KMSService {
	c.kmsServiceInit.Do(func() {
		c.kmsService = cryptoService.NewKMSService()
	})
	return c.kmsService
}

// AEADManager returns the AEAD manager service.
func (c *Container) AEADManager() cryptoService.AEADManager {
	c.aeadManagerInit.Do(func() {
		c.aeadManager = cryptoService.NewAEADManager()
	})
	return c.aeadManager
}

// MasterKey returns the process-wide master key, unwrapping it through the KMS when configured.
func (c *Container) MasterKey() (*cryptoDomain.MasterKey, error) {
	var err error
	c.masterKeyInit.Do(func() {
		c.masterKey, err = c.initMasterKey()
		if err != nil {
			c.initErrors["masterKey"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["masterKey"]; exists {
		return nil, storedErr
	}
	return c.masterKey, nil
}

// Cipher returns the AEAD that seals every stored record.
func (c *Container) Cipher() (cryptoService.AEAD, error) {
	var err error
	c.cipherInit.Do(func() {
		c.cipher, err = c.initCipher()
		if err != nil {
			c.initErrors["cipher"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["cipher"]; exists {
		return nil, storedErr
	}
	return c.cipher, nil
}

// initMasterKey loads the master key with fail-fast validation.
func (c *Container) initMasterKey() (*cryptoDomain.MasterKey, error) {
	masterKey, err := cryptoService.LoadMasterKey(context.Background(), c.KMSService(), cryptoService.MasterKeySource{
		Value:     c.config.MasterKey,
		Encoding:  cryptoDomain.KeyEncoding(c.config.MasterKeyEncoding),
		KMSKeyURI: c.config.KMSKeyURI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load master key: %w", err)
	}

	source := "env"
	if c.config.KMSKeyURI != "" {
		source = c.config.KMSProvider
	}
	c.Logger().Info("master key loaded", slog.String("key_source", source))
	return masterKey, nil
}

// initCipher creates the configured AEAD under the master key.
func (c *Container) initCipher() (cryptoService.AEAD, error) {
	masterKey, err := c.MasterKey()
	if err != nil {
		return nil, fmt.Errorf("failed to get master key for cipher: %w", err)
	}

	alg, err := cryptoDomain.ParseAlgorithm(c.config.Algorithm)
	if err != nil {
		return nil, fmt.Errorf("failed to parse vault algorithm: %w", err)
	}

	cipher, err := c.AEADManager().CreateCipher(masterKey.Bytes(), alg)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	return cipher, nil
}
