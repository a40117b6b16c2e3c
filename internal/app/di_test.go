package app

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/base64"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocloud.dev/secrets"

	"github.com/saferoute/vault/internal/config"
	cryptoDomain "github.com/saferoute/vault/internal/crypto/domain"
	vaultDomain "github.com/saferoute/vault/internal/vault/domain"
)

const testMasterKey = "0123456789abcdef0123456789abcdef"

func testConfig() *config.Config {
	return &config.Config{
		ServerHost:        "127.0.0.1",
		ServerPort:        8082,
		LogLevel:          "error",
		MasterKey:         testMasterKey,
		MasterKeyEncoding: string(cryptoDomain.KeyEncodingRaw),
		TTL:               time.Minute,
		ReaperInterval:    10 * time.Second,
		Algorithm:         string(cryptoDomain.AESGCM),
		StoreShards:       32,
		ShutdownTimeout:   5 * time.Second,
		MetricsNamespace:  "vault_test",
		MetricsPort:       8083,
	}
}

// TestNewContainer verifies that a new container can be created with a valid configuration.
func TestNewContainer(t *testing.T) {
	cfg := testConfig()

	container := NewContainer(cfg, "test")

	if container == nil {
		t.Fatal("expected non-nil container")
	}

	if container.Config() != cfg {
		t.Error("container config does not match provided config")
	}
}

// TestContainerLogger verifies that the logger is created once and reused.
func TestContainerLogger(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error", "invalid"} {
		t.Run(level, func(t *testing.T) {
			cfg := testConfig()
			cfg.LogLevel = level

			container := NewContainer(cfg, "test")
			logger := container.Logger()

			if logger == nil {
				t.Fatal("expected non-nil logger")
			}
			if logger != container.Logger() {
				t.Error("expected same logger instance on multiple calls")
			}
		})
	}
}

// TestContainerLazyInitialization verifies that components are only initialized when accessed.
func TestContainerLazyInitialization(t *testing.T) {
	container := NewContainer(testConfig(), "test")

	if container.masterKey != nil || container.recordRepo != nil {
		t.Error("expected components to be nil before first access")
	}

	_, err := container.VaultUseCase()
	require.NoError(t, err)

	assert.NotNil(t, container.masterKey)
	assert.NotNil(t, container.recordRepo)
	assert.Nil(t, container.httpServer)
}

func TestContainer_VaultRoundTrip(t *testing.T) {
	for _, alg := range []cryptoDomain.Algorithm{cryptoDomain.AESGCM, cryptoDomain.ChaCha20} {
		t.Run(string(alg), func(t *testing.T) {
			ctx := context.Background()
			cfg := testConfig()
			cfg.Algorithm = string(alg)
			container := NewContainer(cfg, "test")

			useCase, err := container.VaultUseCase()
			require.NoError(t, err)

			entities := []vaultDomain.Entity{
				{Original: "a@x.com", Token: "[EMAIL_1]", Type: "EMAIL", Position: 3},
			}
			_, err = useCase.Store(ctx, "r1", entities)
			require.NoError(t, err)

			got, err := useCase.Retrieve(ctx, "r1")
			require.NoError(t, err)
			assert.Equal(t, entities, got)

			cipher, err := container.Cipher()
			require.NoError(t, err)
			assert.Equal(t, alg, cipher.Algorithm())
		})
	}
}

func TestContainer_MasterKeyErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(cfg *config.Config)
	}{
		{name: "short key", mutate: func(cfg *config.Config) { cfg.MasterKey = "short" }},
		{name: "bad base64", mutate: func(cfg *config.Config) {
			cfg.MasterKeyEncoding = string(cryptoDomain.KeyEncodingBase64)
			cfg.MasterKey = "!!!"
		}},
		{name: "unknown kms", mutate: func(cfg *config.Config) { cfg.KMSKeyURI = "invalid://uri" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(cfg)
			container := NewContainer(cfg, "test")

			_, err := container.HTTPServer()
			require.Error(t, err)

			// The failure is remembered rather than retried.
			_, err2 := container.MasterKey()
			assert.Error(t, err2)
		})
	}
}

func TestContainer_MasterKeyFromKMS(t *testing.T) {
	ctx := context.Background()

	kek := make([]byte, 32)
	_, err := rand.Read(kek)
	require.NoError(t, err)
	keyURI := "base64key://" + base64.URLEncoding.EncodeToString(kek)

	keeper, err := secrets.OpenKeeper(ctx, keyURI)
	require.NoError(t, err)
	defer func() { _ = keeper.Close() }()

	wrapped, err := keeper.Encrypt(ctx, []byte(testMasterKey))
	require.NoError(t, err)

	cfg := testConfig()
	cfg.KMSProvider = "localsecrets"
	cfg.KMSKeyURI = keyURI
	cfg.MasterKey = base64.StdEncoding.EncodeToString(wrapped)

	container := NewContainer(cfg, "test")
	masterKey, err := container.MasterKey()
	require.NoError(t, err)
	assert.Equal(t, []byte(testMasterKey), masterKey.Bytes())
}

func TestContainer_MasterKeyLogsSource(t *testing.T) {
	tests := []struct {
		name     string
		provider string
		expected string
	}{
		{name: "env key", expected: `"key_source":"env"`},
		{name: "kms key", provider: "localsecrets", expected: `"key_source":"localsecrets"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			cfg := testConfig()

			if tt.provider != "" {
				kek := make([]byte, 32)
				_, err := rand.Read(kek)
				require.NoError(t, err)
				keyURI := "base64key://" + base64.URLEncoding.EncodeToString(kek)

				keeper, err := secrets.OpenKeeper(ctx, keyURI)
				require.NoError(t, err)
				defer func() { _ = keeper.Close() }()

				wrapped, err := keeper.Encrypt(ctx, []byte(testMasterKey))
				require.NoError(t, err)

				cfg.KMSProvider = tt.provider
				cfg.KMSKeyURI = keyURI
				cfg.MasterKey = base64.StdEncoding.EncodeToString(wrapped)
			}

			var buf bytes.Buffer
			container := NewContainer(cfg, "test")
			container.loggerInit.Do(func() {
				container.logger = slog.New(slog.NewJSONHandler(&buf, nil))
			})

			_, err := container.MasterKey()
			require.NoError(t, err)

			assert.Contains(t, buf.String(), `"msg":"master key loaded"`)
			assert.Contains(t, buf.String(), tt.expected)
			assert.NotContains(t, buf.String(), testMasterKey)
		})
	}
}

func TestContainer_MetricsDisabled(t *testing.T) {
	container := NewContainer(testConfig(), "test")

	provider, err := container.MetricsProvider()
	require.NoError(t, err)
	assert.Nil(t, provider)

	metricsServer, err := container.MetricsServer()
	require.NoError(t, err)
	assert.Nil(t, metricsServer)

	server, err := container.HTTPServer()
	require.NoError(t, err)
	assert.NotNil(t, server.Handler())

	reaper, err := container.Reaper()
	require.NoError(t, err)
	assert.NotNil(t, reaper)
}

func TestContainer_MetricsEnabled(t *testing.T) {
	cfg := testConfig()
	cfg.MetricsEnabled = true
	container := NewContainer(cfg, "test")

	metricsServer, err := container.MetricsServer()
	require.NoError(t, err)
	require.NotNil(t, metricsServer)

	_, err = container.Reaper()
	require.NoError(t, err)

	_, err = container.HTTPServer()
	require.NoError(t, err)

	assert.NoError(t, container.Shutdown(context.Background()))
}

// TestContainerShutdown verifies that shutdown drops stored records and wipes the master key.
func TestContainerShutdown(t *testing.T) {
	ctx := context.Background()

	t.Run("nothing initialized", func(t *testing.T) {
		container := NewContainer(testConfig(), "test")
		assert.NoError(t, container.Shutdown(ctx))
	})

	t.Run("clears store and key", func(t *testing.T) {
		container := NewContainer(testConfig(), "test")
		useCase, err := container.VaultUseCase()
		require.NoError(t, err)

		_, err = useCase.Store(ctx, "r1", []vaultDomain.Entity{{Original: "o", Token: "t", Type: "T"}})
		require.NoError(t, err)

		masterKey, err := container.MasterKey()
		require.NoError(t, err)
		keyBytes := masterKey.Bytes()

		require.NoError(t, container.Shutdown(ctx))

		count, err := container.RecordRepository().Len(ctx)
		require.NoError(t, err)
		assert.Zero(t, count)
		assert.Equal(t, make([]byte, cryptoDomain.KeySize), keyBytes)
		assert.Nil(t, masterKey.Bytes())
	})
}
