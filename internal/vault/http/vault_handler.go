// Package http provides the gin handlers of the vault API.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/saferoute/vault/internal/httputil"
	"github.com/saferoute/vault/internal/vault/http/dto"
	vaultUseCase "github.com/saferoute/vault/internal/vault/usecase"
	customValidation "github.com/saferoute/vault/internal/validation"
)

// VaultHandler handles HTTP requests for storing and retrieving entity batches.
type VaultHandler struct {
	vaultUseCase vaultUseCase.VaultUseCase
	logger       *slog.Logger
}

// NewVaultHandler creates a new vault handler with required dependencies.
func NewVaultHandler(vaultUseCase vaultUseCase.VaultUseCase, logger *slog.Logger) *VaultHandler {
	return &VaultHandler{
		vaultUseCase: vaultUseCase,
		logger:       logger,
	}
}

// StoreHandler encrypts and stores a batch of entities under the caller's request id.
// POST /store - Returns 200 OK with the request id and the unix expiry time.
func (h *VaultHandler) StoreHandler(c *gin.Context) {
	var req dto.StoreRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	result, err := h.vaultUseCase.Store(c.Request.Context(), req.RequestID, req.ToDomain())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.logger.Info("stored entities",
		slog.String("request_id", result.RequestID),
		slog.Int("entity_count", result.EntityCount),
	)

	c.JSON(http.StatusOK, dto.MapStoreResultToResponse(result))
}

// RetrieveHandler returns the entities stored under a request id in their original order.
// GET /retrieve/:request_id - Returns 404 Not Found for unknown and expired ids alike.
func (h *VaultHandler) RetrieveHandler(c *gin.Context) {
	requestID := c.Param("request_id")

	if err := dto.ValidateRequestID(requestID); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	entities, err := h.vaultUseCase.Retrieve(c.Request.Context(), requestID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapEntitiesToRetrieveResponse(entities))
}

// StatsHandler reports the live record count and the configured TTL.
// GET /metrics
func (h *VaultHandler) StatsHandler(c *gin.Context) {
	stats, err := h.vaultUseCase.Stats(c.Request.Context())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapStatsToResponse(stats))
}
