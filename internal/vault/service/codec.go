// Package service provides the canonical byte encoding of entity batches.
package service

import (
	"fmt"
	"unicode/utf8"

	"github.com/fxamacker/cbor/v2"

	vaultDomain "github.com/saferoute/vault/internal/vault/domain"
)

// EntityCodec converts an ordered entity batch to and from bytes.
type EntityCodec interface {
	// Encode returns the canonical encoding of entities, preserving their order.
	Encode(entities []vaultDomain.Entity) ([]byte, error)

	// Decode reverses Encode.
	Decode(data []byte) ([]vaultDomain.Entity, error)
}

// CBORCodec encodes entity batches as deterministic CBOR (RFC 8949 core deterministic
// encoding), so equal batches always produce equal bytes.
type CBORCodec struct {
	enc cbor.EncMode
	dec cbor.DecMode
}

// NewCBORCodec builds the codec's encode and decode modes.
func NewCBORCodec() (*CBORCodec, error) {
	enc, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		return nil, fmt.Errorf("failed to create cbor encode mode: %w", err)
	}

	dec, err := cbor.DecOptions{
		DupMapKey: cbor.DupMapKeyEnforcedAPF,
		UTF8:      cbor.UTF8RejectInvalid,
	}.DecMode()
	if err != nil {
		return nil, fmt.Errorf("failed to create cbor decode mode: %w", err)
	}

	return &CBORCodec{enc: enc, dec: dec}, nil
}

// Encode rejects strings that are not valid UTF-8, since CBOR text strings must be.
// Errors wrap ErrSerializationFailed.
func (c *CBORCodec) Encode(entities []vaultDomain.Entity) ([]byte, error) {
	for i := range entities {
		e := &entities[i]
		if !utf8.ValidString(e.Original) || !utf8.ValidString(e.Token) || !utf8.ValidString(e.Type) {
			return nil, fmt.Errorf("%w: entity %d contains invalid UTF-8", vaultDomain.ErrSerializationFailed, i)
		}
	}

	if entities == nil {
		entities = []vaultDomain.Entity{}
	}

	data, err := c.enc.Marshal(entities)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", vaultDomain.ErrSerializationFailed, err)
	}
	return data, nil
}

// Decode returns a non-nil slice for an empty batch. Errors wrap ErrRecordCorrupted.
func (c *CBORCodec) Decode(data []byte) ([]vaultDomain.Entity, error) {
	var entities []vaultDomain.Entity
	if err := c.dec.Unmarshal(data, &entities); err != nil {
		return nil, fmt.Errorf("%w: %v", vaultDomain.ErrRecordCorrupted, err)
	}
	if entities == nil {
		entities = []vaultDomain.Entity{}
	}
	return entities, nil
}
