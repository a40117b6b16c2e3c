package domain

// Algorithm represents the AEAD cipher used to seal vault records.
//
// Both algorithms use a 256-bit key, a 96-bit nonce and a 128-bit tag, so records
// sealed by either one have the same shape.
type Algorithm string

const (
	// AESGCM represents AES-256-GCM. Preferred on CPUs with AES-NI.
	AESGCM Algorithm = "aes-gcm"

	// ChaCha20 represents ChaCha20-Poly1305. Preferred where AES hardware support is missing.
	ChaCha20 Algorithm = "chacha20-poly1305"
)

const (
	// KeySize is the required length of the master key in bytes.
	KeySize = 32

	// NonceSize is the length of the random nonce drawn for every encryption.
	NonceSize = 12

	// TagSize is the length of the authentication tag appended to the ciphertext.
	TagSize = 16
)

// ParseAlgorithm converts a configuration string into an Algorithm.
// Returns ErrUnsupportedAlgorithm for anything other than the known names.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch Algorithm(s) {
	case AESGCM, ChaCha20:
		return Algorithm(s), nil
	default:
		return "", ErrUnsupportedAlgorithm
	}
}
