package fhe

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SealedValue is one ciphertext in the local store, addressed by its
// handle. Rows are append-only.
type SealedValue struct {
	Handle     string `gorm:"primaryKey"`
	Ciphertext []byte
	CreatedAt  time.Time
}

// Grant is one entry of the (handle, principal) decrypt relation.
// Rows are only ever inserted; there is no revoke.
type Grant struct {
	ID        uint64
	Handle    string `gorm:"uniqueIndex:grant_handle_principal"`
	Principal string `gorm:"uniqueIndex:grant_handle_principal"`
	CreatedAt time.Time
}

// Local implements Service with values sealed under a service key.
//
// It stands in for an external FHE runtime: callers only see handles, and
// the plaintext is only ever reconstructed inside this package. Inclusion
// proofs are an HMAC over the ciphertext under a separate proof key, the
// way the external runtime would attest correctly formed ciphertext.
type Local struct {
	db       *gorm.DB
	aead     cipher.AEAD
	proofKey []byte
}

// KeySize is the size in bytes of the seal and proof keys.
const KeySize = 32

// Setup initializes a Local service on the database, migrates its tables
// and sets Svc.
func Setup(db *gorm.DB, sealKey, proofKey []byte) (*Local, error) {
	if len(sealKey) != KeySize || len(proofKey) != KeySize {
		return nil, fmt.Errorf("seal and proof keys must be %d bytes", KeySize)
	}

	err := db.AutoMigrate(SealedValue{}, Grant{})
	if err != nil {
		return nil, fmt.Errorf("error during DB migration: %w", err)
	}

	block, err := aes.NewCipher(sealKey)
	if err != nil {
		return nil, err
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	l := &Local{
		db:       db,
		aead:     aead,
		proofKey: proofKey,
	}

	Svc = l
	return l, nil
}

// NewKey returns a random key for Setup.
func NewKey() ([]byte, error) {
	key := make([]byte, KeySize)
	_, err := rand.Read(key)
	if err != nil {
		return nil, err
	}

	return key, nil
}

// seal encrypts a plaintext value. The nonce is prepended to the
// ciphertext.
func (l *Local) seal(value uint64) ([]byte, error) {
	plaintext := make([]byte, 8)
	binary.BigEndian.PutUint64(plaintext, value)

	nonce := make([]byte, l.aead.NonceSize())
	_, err := rand.Read(nonce)
	if err != nil {
		return nil, err
	}

	return l.aead.Seal(nonce, nonce, plaintext, nil), nil
}

// open decrypts a sealed value.
func (l *Local) open(ciphertext []byte) (uint64, error) {
	if len(ciphertext) < l.aead.NonceSize()+8 {
		return 0, ErrProofVerification
	}

	nonce := ciphertext[:l.aead.NonceSize()]
	plaintext, err := l.aead.Open(nil, nonce, ciphertext[l.aead.NonceSize():], nil)
	if err != nil || len(plaintext) != 8 {
		return 0, ErrProofVerification
	}

	return binary.BigEndian.Uint64(plaintext), nil
}

// prove computes the inclusion proof for a ciphertext.
func (l *Local) prove(ciphertext []byte) []byte {
	mac := hmac.New(sha256.New, l.proofKey)
	mac.Write(ciphertext)
	return mac.Sum(nil)
}

// store persists a ciphertext and returns its new handle.
func (l *Local) store(ciphertext []byte) (string, error) {
	value := SealedValue{
		Handle:     uuid.NewString(),
		Ciphertext: ciphertext,
	}

	err := l.db.Create(&value).Error
	if err != nil {
		return "", err
	}

	return value.Handle, nil
}

// load fetches the ciphertext behind a handle.
func (l *Local) load(handle string) (SealedValue, error) {
	var value SealedValue

	err := l.db.First(&value, "handle = ?", handle).Error
	if err != nil {
		return SealedValue{}, ErrValueNotFound
	}

	return value, nil
}

func (l *Local) FromExternal(ciphertext, proof []byte) (string, error) {
	if !hmac.Equal(proof, l.prove(ciphertext)) {
		return "", ErrProofVerification
	}

	// Reject proofs over malformed ciphertext
	_, err := l.open(ciphertext)
	if err != nil {
		return "", err
	}

	return l.store(ciphertext)
}

func (l *Local) Zero() (string, error) {
	ciphertext, err := l.seal(0)
	if err != nil {
		return "", err
	}

	return l.store(ciphertext)
}

func (l *Local) Add(a, b string) (string, error) {
	return l.combine(a, b, func(x, y uint64) uint64 { return x + y })
}

func (l *Local) Sub(a, b string) (string, error) {
	return l.combine(a, b, func(x, y uint64) uint64 { return x - y })
}

// combine opens both operands, applies op with wrapping uint64 semantics
// and seals the result as a new value.
func (l *Local) combine(a, b string, op func(x, y uint64) uint64) (string, error) {
	va, err := l.load(a)
	if err != nil {
		return "", err
	}

	vb, err := l.load(b)
	if err != nil {
		return "", err
	}

	x, err := l.open(va.Ciphertext)
	if err != nil {
		return "", err
	}

	y, err := l.open(vb.Ciphertext)
	if err != nil {
		return "", err
	}

	ciphertext, err := l.seal(op(x, y))
	if err != nil {
		return "", err
	}

	return l.store(ciphertext)
}

func (l *Local) Grant(handle, principal string) error {
	if principal == "" {
		return ErrNotAuthorized
	}

	_, err := l.load(handle)
	if err != nil {
		return err
	}

	// Granting twice is a no-op
	return l.db.
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&Grant{Handle: handle, Principal: principal}).Error
}

func (l *Local) GrantSelf(handle string) error {
	return l.Grant(handle, SelfPrincipal)
}

func (l *Local) UserDecrypt(handle, principal string) (uint64, error) {
	if principal == "" {
		return 0, ErrNotAuthorized
	}

	value, err := l.load(handle)
	if err != nil {
		return 0, err
	}

	var count int64
	err = l.db.
		Model(&Grant{}).
		Where(&Grant{Handle: handle, Principal: principal}).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	if count == 0 {
		return 0, ErrNotAuthorized
	}

	return l.open(value.Ciphertext)
}

// EncryptForSubmission produces the (ciphertext, proof) pair a client
// runtime would submit alongside a new record or calculation.
func (l *Local) EncryptForSubmission(value uint64) (ciphertext, proof []byte, err error) {
	ciphertext, err = l.seal(value)
	if err != nil {
		return nil, nil, err
	}

	return ciphertext, l.prove(ciphertext), nil
}
