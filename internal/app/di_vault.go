package app

import (
	"fmt"

	"github.com/saferoute/vault/internal/metrics"
	vaultHTTP "github.com/saferoute/vault/internal/vault/http"
	vaultRepository "github.com/saferoute/vault/internal/vault/repository"
	vaultService "github.com/saferoute/vault/internal/vault/service"
	vaultUseCase "github.com/saferoute/vault/internal/vault/usecase"
)

// EntityCodec returns the codec that serializes entity batches before encryption.
func (c *Container) EntityCodec() (vaultService.EntityCodec, error) {
	var err error
	c.codecInit.Do(func() {
		c.codec, err = vaultService.NewCBORCodec()
		if err != nil {
			c.initErrors["codec"] = fmt.Errorf("failed to create entity codec: %w", err)
		}
	})
	if storedErr, exists := c.initErrors["codec"]; exists {
		return nil, storedErr
	}
	return c.codec, nil
}

// RecordRepository returns the in-memory record store.
func (c *Container) RecordRepository() *vaultRepository.MemoryRecordRepository {
	c.recordRepoInit.Do(func() {
		c.recordRepo = vaultRepository.NewMemoryRecordRepository(
			vaultRepository.WithShardCount(c.config.StoreShards),
		)
	})
	return c.recordRepo
}

// VaultUseCase returns the vault use case instance.
func (c *Container) VaultUseCase() (vaultUseCase.VaultUseCase, error) {
	var err error
	c.vaultUseCaseInit.Do(func() {
		c.vaultUseCase, err = c.initVaultUseCase()
		if err != nil {
			c.initErrors["vaultUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["vaultUseCase"]; exists {
		return nil, storedErr
	}
	return c.vaultUseCase, nil
}

// Reaper returns the background purger of expired records.
func (c *Container) Reaper() (vaultUseCase.ReaperUseCase, error) {
	var err error
	c.reaperInit.Do(func() {
		c.reaper, err = c.initReaper()
		if err != nil {
			c.initErrors["reaper"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["reaper"]; exists {
		return nil, storedErr
	}
	return c.reaper, nil
}

// VaultHandler returns the HTTP handler for vault operations.
func (c *Container) VaultHandler() (*vaultHTTP.VaultHandler, error) {
	var err error
	c.vaultHandlerInit.Do(func() {
		c.vaultHandler, err = c.initVaultHandler()
		if err != nil {
			c.initErrors["vaultHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["vaultHandler"]; exists {
		return nil, storedErr
	}
	return c.vaultHandler, nil
}

// initVaultUseCase creates the vault use case with all its dependencies.
func (c *Container) initVaultUseCase() (vaultUseCase.VaultUseCase, error) {
	cipher, err := c.Cipher()
	if err != nil {
		return nil, fmt.Errorf("failed to get cipher for vault use case: %w", err)
	}

	codec, err := c.EntityCodec()
	if err != nil {
		return nil, fmt.Errorf("failed to get entity codec for vault use case: %w", err)
	}

	baseUseCase := vaultUseCase.NewVaultUseCase(
		vaultUseCase.Config{TTL: c.config.TTL},
		c.RecordRepository(),
		cipher,
		codec,
		c.Logger(),
	)

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for vault use case: %w", err)
		}
		return vaultUseCase.NewVaultUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

// initReaper creates the reaper, exporting the live record gauge when metrics are enabled.
func (c *Container) initReaper() (vaultUseCase.ReaperUseCase, error) {
	repo := c.RecordRepository()

	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for reaper: %w", err)
	}

	storeMetrics := metrics.NewNoOpStoreMetrics()
	if provider != nil {
		storeMetrics, err = metrics.NewStoreMetrics(provider.MeterProvider(), c.config.MetricsNamespace, repo.Len)
		if err != nil {
			return nil, fmt.Errorf("failed to create store metrics for reaper: %w", err)
		}
	}

	return vaultUseCase.NewReaper(c.config.ReaperInterval, repo, storeMetrics, c.Logger()), nil
}

// initVaultHandler creates the vault HTTP handler.
func (c *Container) initVaultHandler() (*vaultHTTP.VaultHandler, error) {
	useCase, err := c.VaultUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get vault use case for vault handler: %w", err)
	}
	return vaultHTTP.NewVaultHandler(useCase, c.Logger()), nil
}
