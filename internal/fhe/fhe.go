// Package fhe is the boundary to the encryption runtime.
//
// The ledger only ever holds opaque handles to encrypted values. All
// arithmetic on amounts is homomorphic (add, subtract) and access to the
// plaintext is controlled by an additive (handle, principal) grant
// relation: grants can be issued, never revoked.
package fhe

import "errors"

// SelfPrincipal identifies the ledger core itself in the grant relation.
// Aggregation results keep a self-grant so they stay usable as inputs to
// further homomorphic operations.
const SelfPrincipal = "ledger:self"

var (
	ErrProofVerification = errors.New("the inclusion proof for the supplied ciphertext could not be verified")
	ErrNotAuthorized     = errors.New("you do not have a decrypt capability for this value")
	ErrValueNotFound     = errors.New("there is no encrypted value matching your request")
)

// Service is the capability surface the ledger consumes.
//
// Encrypted integers are fixed-width unsigned values; Add and Sub wrap
// on overflow, so a net-negative result is not discernible as negative
// without decrypting and interpreting it with the same width semantics.
type Service interface {
	// FromExternal verifies the inclusion proof for externally supplied
	// ciphertext and stores it, returning the handle of the new value.
	FromExternal(ciphertext, proof []byte) (string, error)

	// Zero returns the handle of a fresh encrypted zero.
	Zero() (string, error)

	// Add returns the handle of a new value holding a + b.
	Add(a, b string) (string, error)

	// Sub returns the handle of a new value holding a - b.
	Sub(a, b string) (string, error)

	// Grant allows the principal to decrypt the value behind the handle.
	// Granting an existing capability again is a no-op, never an error.
	Grant(handle, principal string) error

	// GrantSelf issues a grant to the ledger core itself.
	GrantSelf(handle string) error

	// UserDecrypt recovers the plaintext for a principal that holds a
	// grant on the handle. It fails with ErrNotAuthorized otherwise.
	UserDecrypt(handle, principal string) (uint64, error)
}

// Svc is the service used by the backend. It is set by Setup.
var Svc Service
