// Package mocks provides mock implementations of vault use case interfaces and their dependencies.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	cryptoDomain "github.com/saferoute/vault/internal/crypto/domain"
	vaultDomain "github.com/saferoute/vault/internal/vault/domain"
)

// MockRecordRepository is a mock implementation of RecordRepository for testing.
type MockRecordRepository struct {
	mock.Mock
}

// Put mocks the Put method of RecordRepository.
func (m *MockRecordRepository) Put(
	ctx context.Context,
	requestID string,
	record *vaultDomain.EncryptedRecord,
) error {
	args := m.Called(ctx, requestID, record)
	return args.Error(0)
}

// Get mocks the Get method of RecordRepository.
func (m *MockRecordRepository) Get(ctx context.Context, requestID string) (*vaultDomain.EncryptedRecord, error) {
	args := m.Called(ctx, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vaultDomain.EncryptedRecord), args.Error(1)
}

// DeleteExpired mocks the DeleteExpired method of RecordRepository.
func (m *MockRecordRepository) DeleteExpired(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// Len mocks the Len method of RecordRepository.
func (m *MockRecordRepository) Len(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// Clear mocks the Clear method of RecordRepository.
func (m *MockRecordRepository) Clear(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockVaultUseCase is a mock implementation of VaultUseCase for testing.
type MockVaultUseCase struct {
	mock.Mock
}

// Store mocks the Store method of VaultUseCase.
func (m *MockVaultUseCase) Store(
	ctx context.Context,
	requestID string,
	entities []vaultDomain.Entity,
) (*vaultDomain.StoreResult, error) {
	args := m.Called(ctx, requestID, entities)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vaultDomain.StoreResult), args.Error(1)
}

// Retrieve mocks the Retrieve method of VaultUseCase.
func (m *MockVaultUseCase) Retrieve(ctx context.Context, requestID string) ([]vaultDomain.Entity, error) {
	args := m.Called(ctx, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]vaultDomain.Entity), args.Error(1)
}

// Stats mocks the Stats method of VaultUseCase.
func (m *MockVaultUseCase) Stats(ctx context.Context) (*vaultDomain.Stats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vaultDomain.Stats), args.Error(1)
}

// MockAEAD is a mock implementation of the crypto service AEAD for testing.
type MockAEAD struct {
	mock.Mock
}

// Encrypt mocks the Encrypt method of AEAD.
func (m *MockAEAD) Encrypt(plaintext []byte) ([]byte, []byte, error) {
	args := m.Called(plaintext)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]byte), args.Get(1).([]byte), args.Error(2)
}

// Decrypt mocks the Decrypt method of AEAD.
func (m *MockAEAD) Decrypt(ciphertext, nonce []byte) ([]byte, error) {
	args := m.Called(ciphertext, nonce)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// Algorithm mocks the Algorithm method of AEAD.
func (m *MockAEAD) Algorithm() cryptoDomain.Algorithm {
	args := m.Called()
	return args.Get(0).(cryptoDomain.Algorithm)
}
