package http

import (
	"bytes"
	"crypto/rand"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/saferoute/vault/internal/crypto/domain"
	cryptoService "github.com/saferoute/vault/internal/crypto/service"
	vaultDomain "github.com/saferoute/vault/internal/vault/domain"
	"github.com/saferoute/vault/internal/vault/http/dto"
	"github.com/saferoute/vault/internal/vault/repository"
	vaultService "github.com/saferoute/vault/internal/vault/service"
	vaultUseCase "github.com/saferoute/vault/internal/vault/usecase"
	"github.com/saferoute/vault/internal/vault/usecase/mocks"
)

func createTestContext(method, path string, body interface{}) (*gin.Context, *httptest.ResponseRecorder) {
	var bodyReader io.Reader
	if body != nil {
		bodyBytes, _ := json.Marshal(body)
		bodyReader = bytes.NewReader(bodyBytes)
	}
	return createRawTestContext(method, path, bodyReader)
}

func createRawTestContext(method, path string, body io.Reader) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	return c, w
}

// setupTestVaultHandler creates a test handler with a mocked use case.
func setupTestVaultHandler(t *testing.T) (*VaultHandler, *mocks.MockVaultUseCase) {
	t.Helper()

	gin.SetMode(gin.TestMode)

	mockUseCase := &mocks.MockVaultUseCase{}
	t.Cleanup(func() { mockUseCase.AssertExpectations(t) })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewVaultHandler(mockUseCase, logger), mockUseCase
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestVaultHandler_StoreHandler(t *testing.T) {
	t.Run("Success_StoreEntities", func(t *testing.T) {
		handler, mockUseCase := setupTestVaultHandler(t)

		request := dto.StoreRequest{
			RequestID: "r1",
			Entities: []dto.EntityRequest{
				{Original: "john@x.com", Token: "[EMAIL_1]", Type: "EMAIL", Position: 0},
			},
		}
		expiresAt := time.Date(2026, 6, 1, 0, 1, 0, 0, time.UTC)

		mockUseCase.On("Store", mock.Anything, "r1", []vaultDomain.Entity{
			{Original: "john@x.com", Token: "[EMAIL_1]", Type: "EMAIL", Position: 0},
		}).Return(&vaultDomain.StoreResult{RequestID: "r1", EntityCount: 1, ExpiresAt: expiresAt}, nil).Once()

		c, w := createTestContext(http.MethodPost, "/store", request)
		handler.StoreHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var response dto.StoreResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.True(t, response.Success)
		assert.Equal(t, "r1", response.RequestID)
		assert.Equal(t, expiresAt.Unix(), response.ExpiresAt)
	})

	t.Run("Success_EmptyAndBlankEntityFields", func(t *testing.T) {
		handler, mockUseCase := setupTestVaultHandler(t)

		body := `{"request_id":"r1","entities":[` +
			`{"original":"","token":"[X_1]","type":"EMAIL","position":0},` +
			`{"original":"a","token":" ","type":"","position":2}]}`
		expiresAt := time.Date(2026, 6, 1, 0, 1, 0, 0, time.UTC)

		mockUseCase.On("Store", mock.Anything, "r1", []vaultDomain.Entity{
			{Original: "", Token: "[X_1]", Type: "EMAIL", Position: 0},
			{Original: "a", Token: " ", Type: "", Position: 2},
		}).Return(&vaultDomain.StoreResult{RequestID: "r1", EntityCount: 2, ExpiresAt: expiresAt}, nil).Once()

		c, w := createRawTestContext(http.MethodPost, "/store", strings.NewReader(body))
		handler.StoreHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("Error_MalformedJSON", func(t *testing.T) {
		handler, _ := setupTestVaultHandler(t)

		c, w := createRawTestContext(http.MethodPost, "/store", strings.NewReader(`{"request_id":`))
		handler.StoreHandler(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "bad_request", decodeError(t, w)["error"])
	})

	t.Run("Error_NegativePosition", func(t *testing.T) {
		handler, _ := setupTestVaultHandler(t)

		body := `{"request_id":"r1","entities":[{"original":"a","token":"[A]","type":"T","position":-1}]}`
		c, w := createRawTestContext(http.MethodPost, "/store", strings.NewReader(body))
		handler.StoreHandler(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Error_ValidationFailed", func(t *testing.T) {
		handler, _ := setupTestVaultHandler(t)

		c, w := createTestContext(http.MethodPost, "/store", dto.StoreRequest{
			Entities: []dto.EntityRequest{{Original: "a", Token: "[A]", Type: "T"}},
		})
		handler.StoreHandler(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		body := decodeError(t, w)
		assert.Equal(t, "validation_error", body["error"])
		assert.Contains(t, body["message"], "request_id")
	})

	t.Run("Error_EncryptionFailed", func(t *testing.T) {
		handler, mockUseCase := setupTestVaultHandler(t)

		mockUseCase.On("Store", mock.Anything, "r1", mock.Anything).
			Return(nil, cryptoDomain.ErrEncryptionFailed).
			Once()

		c, w := createTestContext(http.MethodPost, "/store", dto.StoreRequest{RequestID: "r1"})
		handler.StoreHandler(c)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "internal_error", decodeError(t, w)["error"])
	})

	t.Run("Error_SerializationFailed", func(t *testing.T) {
		handler, mockUseCase := setupTestVaultHandler(t)

		mockUseCase.On("Store", mock.Anything, "r1", mock.Anything).
			Return(nil, vaultDomain.ErrSerializationFailed).
			Once()

		c, w := createTestContext(http.MethodPost, "/store", dto.StoreRequest{RequestID: "r1"})
		handler.StoreHandler(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestVaultHandler_RetrieveHandler(t *testing.T) {
	t.Run("Success_RetrieveEntities", func(t *testing.T) {
		handler, mockUseCase := setupTestVaultHandler(t)

		entities := []vaultDomain.Entity{
			{Original: "john@x.com", Token: "[EMAIL_1]", Type: "EMAIL", Position: 0},
			{Original: "Jane", Token: "[PERSON_1]", Type: "PERSON", Position: 12},
		}
		mockUseCase.On("Retrieve", mock.Anything, "r1").Return(entities, nil).Once()

		c, w := createTestContext(http.MethodGet, "/retrieve/r1", nil)
		c.Params = gin.Params{{Key: "request_id", Value: "r1"}}
		handler.RetrieveHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"entities":[
			{"original":"john@x.com","token":"[EMAIL_1]","type":"EMAIL","position":0},
			{"original":"Jane","token":"[PERSON_1]","type":"PERSON","position":12}
		]}`, w.Body.String())
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		handler, mockUseCase := setupTestVaultHandler(t)

		mockUseCase.On("Retrieve", mock.Anything, "gone").Return(nil, vaultDomain.ErrRecordNotFound).Once()

		c, w := createTestContext(http.MethodGet, "/retrieve/gone", nil)
		c.Params = gin.Params{{Key: "request_id", Value: "gone"}}
		handler.RetrieveHandler(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "not_found", decodeError(t, w)["error"])
	})

	t.Run("Error_Corrupted", func(t *testing.T) {
		handler, mockUseCase := setupTestVaultHandler(t)

		mockUseCase.On("Retrieve", mock.Anything, "r1").
			Return(nil, errors.Join(vaultDomain.ErrRecordCorrupted, cryptoDomain.ErrDecryptionFailed)).
			Once()

		c, w := createTestContext(http.MethodGet, "/retrieve/r1", nil)
		c.Params = gin.Params{{Key: "request_id", Value: "r1"}}
		handler.RetrieveHandler(c)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("Error_InvalidRequestID", func(t *testing.T) {
		handler, _ := setupTestVaultHandler(t)

		c, w := createTestContext(http.MethodGet, "/retrieve/", nil)
		c.Params = gin.Params{{Key: "request_id", Value: strings.Repeat("x", 257)}}
		handler.RetrieveHandler(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestVaultHandler_StatsHandler(t *testing.T) {
	t.Run("Success_Stats", func(t *testing.T) {
		handler, mockUseCase := setupTestVaultHandler(t)

		mockUseCase.On("Stats", mock.Anything).
			Return(&vaultDomain.Stats{EntriesStored: 3, TTL: time.Minute}, nil).
			Once()

		c, w := createTestContext(http.MethodGet, "/metrics", nil)
		handler.StatsHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"entries_stored":3,"ttl_seconds":60}`, w.Body.String())
	})

	t.Run("Error_StatsFailed", func(t *testing.T) {
		handler, mockUseCase := setupTestVaultHandler(t)

		mockUseCase.On("Stats", mock.Anything).Return(nil, errors.New("boom")).Once()

		c, w := createTestContext(http.MethodGet, "/metrics", nil)
		handler.StatsHandler(c)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

// newVaultRouter wires the handler to a real use case, store and cipher.
func newVaultRouter(t *testing.T, ttl time.Duration, now func() time.Time) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	key := make([]byte, cryptoDomain.KeySize)
	_, err := rand.Read(key)
	require.NoError(t, err)

	cipher, err := cryptoService.NewAESGCM(key)
	require.NoError(t, err)
	codec, err := vaultService.NewCBORCodec()
	require.NoError(t, err)

	repo := repository.NewMemoryRecordRepository(repository.WithClock(now))
	useCase := vaultUseCase.NewVaultUseCase(vaultUseCase.Config{TTL: ttl, Now: now}, repo, cipher, codec, nil)
	handler := NewVaultHandler(useCase, slog.New(slog.NewTextHandler(io.Discard, nil)))

	router := gin.New()
	router.POST("/store", handler.StoreHandler)
	router.GET("/retrieve/:request_id", handler.RetrieveHandler)
	router.GET("/metrics", handler.StatsHandler)
	return router
}

func doJSON(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestVaultRoutes_KeyIsolationScenario(t *testing.T) {
	router := newVaultRouter(t, time.Minute, time.Now)

	e1 := []dto.EntityRequest{{Original: "one@x.com", Token: "[EMAIL_1]", Type: "EMAIL", Position: 0}}
	e2 := []dto.EntityRequest{{Original: "two@x.com", Token: "[EMAIL_1]", Type: "EMAIL", Position: 5}}
	e1b := []dto.EntityRequest{{Original: "three@x.com", Token: "[EMAIL_1]", Type: "EMAIL", Position: 9}}

	require.Equal(t, http.StatusOK, doJSON(router, http.MethodPost, "/store", dto.StoreRequest{RequestID: "r1", Entities: e1}).Code)
	require.Equal(t, http.StatusOK, doJSON(router, http.MethodPost, "/store", dto.StoreRequest{RequestID: "r2", Entities: e2}).Code)
	require.Equal(t, http.StatusOK, doJSON(router, http.MethodPost, "/store", dto.StoreRequest{RequestID: "r1", Entities: e1b}).Code)

	w := doJSON(router, http.MethodGet, "/retrieve/r2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"entities":[{"original":"two@x.com","token":"[EMAIL_1]","type":"EMAIL","position":5}]}`, w.Body.String())

	w = doJSON(router, http.MethodGet, "/retrieve/r1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"entities":[{"original":"three@x.com","token":"[EMAIL_1]","type":"EMAIL","position":9}]}`, w.Body.String())

	w = doJSON(router, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"entries_stored":2,"ttl_seconds":60}`, w.Body.String())
}

func TestVaultRoutes_ExpiredIsNotFound(t *testing.T) {
	current := time.Now()
	now := func() time.Time { return current }
	router := newVaultRouter(t, time.Minute, now)

	w := doJSON(router, http.MethodPost, "/store", dto.StoreRequest{
		RequestID: "r1",
		Entities:  []dto.EntityRequest{{Original: "a", Token: "[A]", Type: "T"}},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var stored dto.StoreResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stored))
	assert.Equal(t, current.Add(time.Minute).Unix(), stored.ExpiresAt)

	current = current.Add(59 * time.Second)
	assert.Equal(t, http.StatusOK, doJSON(router, http.MethodGet, "/retrieve/r1", nil).Code)

	current = current.Add(2 * time.Second)
	assert.Equal(t, http.StatusNotFound, doJSON(router, http.MethodGet, "/retrieve/r1", nil).Code)
	assert.Equal(t, http.StatusNotFound, doJSON(router, http.MethodGet, "/retrieve/never", nil).Code)
}

func TestVaultRoutes_EmptyBatchRoundTrip(t *testing.T) {
	router := newVaultRouter(t, time.Minute, time.Now)

	require.Equal(t, http.StatusOK, doJSON(router, http.MethodPost, "/store", map[string]any{"request_id": "empty"}).Code)

	w := doJSON(router, http.MethodGet, "/retrieve/empty", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"entities":[]}`, w.Body.String())
}

func TestVaultRoutes_EmptyOriginalRoundTrip(t *testing.T) {
	router := newVaultRouter(t, time.Minute, time.Now)

	w := doJSON(router, http.MethodPost, "/store", dto.StoreRequest{
		RequestID: "r1",
		Entities:  []dto.EntityRequest{{Original: "", Token: "[X_1]", Type: "EMAIL", Position: 0}},
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, http.MethodGet, "/retrieve/r1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"entities":[{"original":"","token":"[X_1]","type":"EMAIL","position":0}]}`, w.Body.String())
}
