// Package dto provides data transfer objects for the vault HTTP API.
package dto

import (
	validation "github.com/jellydator/validation"

	vaultDomain "github.com/saferoute/vault/internal/vault/domain"
	customValidation "github.com/saferoute/vault/internal/validation"
)

// MaxEntitiesPerRequest bounds the size of a single stored batch.
const MaxEntitiesPerRequest = 10000

// EntityRequest is one entity in a store request. Every field is stored as given,
// including empty strings.
type EntityRequest struct {
	Original string `json:"original"`
	Token    string `json:"token"`
	Type     string `json:"type"`
	Position uint   `json:"position"`
}

// StoreRequest contains the batch to store under RequestID.
type StoreRequest struct {
	RequestID string          `json:"request_id"`
	Entities  []EntityRequest `json:"entities"`
}

// Validate checks the request id and the batch size. Entity contents are not validated,
// and an empty entity list is allowed.
func (r *StoreRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.RequestID,
			validation.Required,
			customValidation.NotBlank,
			customValidation.RequestID,
		),
		validation.Field(&r.Entities, validation.Length(0, MaxEntitiesPerRequest)),
	)
}

// ToDomain converts the request entities, preserving their order.
func (r *StoreRequest) ToDomain() []vaultDomain.Entity {
	entities := make([]vaultDomain.Entity, len(r.Entities))
	for i, e := range r.Entities {
		entities[i] = vaultDomain.Entity{
			Original: e.Original,
			Token:    e.Token,
			Type:     e.Type,
			Position: e.Position,
		}
	}
	return entities
}

// ValidateRequestID checks a request id taken from the URL path.
func ValidateRequestID(requestID string) error {
	return validation.Validate(requestID,
		validation.Required,
		customValidation.RequestID,
	)
}
