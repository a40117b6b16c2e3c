package dto

import (
	vaultDomain "github.com/saferoute/vault/internal/vault/domain"
)

// StoreResponse is returned by POST /store.
type StoreResponse struct {
	Success   bool   `json:"success"`
	RequestID string `json:"request_id"`
	ExpiresAt int64  `json:"expires_at"` // Unix seconds
}

// MapStoreResultToResponse converts a store result to its response.
func MapStoreResultToResponse(result *vaultDomain.StoreResult) StoreResponse {
	return StoreResponse{
		Success:   true,
		RequestID: result.RequestID,
		ExpiresAt: result.ExpiresAt.Unix(),
	}
}

// EntityResponse is one entity in a retrieve response.
type EntityResponse struct {
	Original string `json:"original"`
	Token    string `json:"token"`
	Type     string `json:"type"`
	Position uint   `json:"position"`
}

// RetrieveResponse is returned by GET /retrieve/:request_id.
type RetrieveResponse struct {
	Entities []EntityResponse `json:"entities"`
}

// MapEntitiesToRetrieveResponse converts entities in order. An empty batch encodes as [].
func MapEntitiesToRetrieveResponse(entities []vaultDomain.Entity) RetrieveResponse {
	items := make([]EntityResponse, 0, len(entities))
	for _, e := range entities {
		items = append(items, EntityResponse{
			Original: e.Original,
			Token:    e.Token,
			Type:     e.Type,
			Position: e.Position,
		})
	}
	return RetrieveResponse{Entities: items}
}

// StatsResponse is returned by GET /metrics on the API server.
type StatsResponse struct {
	EntriesStored int64 `json:"entries_stored"`
	TTLSeconds    int64 `json:"ttl_seconds"`
}

// MapStatsToResponse converts vault stats to their response.
func MapStatsToResponse(stats *vaultDomain.Stats) StatsResponse {
	return StatsResponse{
		EntriesStored: stats.EntriesStored,
		TTLSeconds:    int64(stats.TTL.Seconds()),
	}
}
