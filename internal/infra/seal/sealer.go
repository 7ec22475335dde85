package seal

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/nacl/secretbox"

	domain "github.com/Hoblayerta/Loudao.aleph/internal/domain/reports"
)

const (
	nonceSize = 24
	keySize   = 32
	// envelopeVersion is the first byte of every envelope.
	envelopeVersion = 1
)

var hkdfInfo = []byte("loudao private report fields v1")

// ErrTampered is returned when an envelope fails authentication.
var ErrTampered = errors.New("envelope failed authentication")

// Sealer encrypts private report fields with NaCl secretbox
// (XSalsa20-Poly1305). Envelope layout: version | nonce | box.
type Sealer struct {
	key [keySize]byte
}

// New derives the box key from secret with HKDF-SHA256.
func New(secret, salt []byte) (*Sealer, error) {
	if len(secret) < 16 {
		return nil, fmt.Errorf("seal secret must be at least 16 bytes, got %d", len(secret))
	}
	s := &Sealer{}
	if _, err := io.ReadFull(hkdf.New(sha256.New, secret, salt, hkdfInfo), s.key[:]); err != nil {
		return nil, fmt.Errorf("derive seal key: %w", err)
	}
	return s, nil
}

func (s *Sealer) Seal(p domain.PrivateFields) ([]byte, error) {
	plain, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}
	out := make([]byte, 0, 1+nonceSize+len(plain)+secretbox.Overhead)
	out = append(out, envelopeVersion)
	out = append(out, nonce[:]...)
	return secretbox.Seal(out, plain, &nonce, &s.key), nil
}

func (s *Sealer) Open(envelope []byte) (domain.PrivateFields, error) {
	if len(envelope) < 1+nonceSize+secretbox.Overhead {
		return domain.PrivateFields{}, fmt.Errorf("envelope too short (%d bytes)", len(envelope))
	}
	if envelope[0] != envelopeVersion {
		return domain.PrivateFields{}, fmt.Errorf("unknown envelope version %d", envelope[0])
	}
	var nonce [nonceSize]byte
	copy(nonce[:], envelope[1:1+nonceSize])
	plain, ok := secretbox.Open(nil, envelope[1+nonceSize:], &nonce, &s.key)
	if !ok {
		return domain.PrivateFields{}, ErrTampered
	}
	var p domain.PrivateFields
	if err := json.Unmarshal(plain, &p); err != nil {
		return domain.PrivateFields{}, fmt.Errorf("decode private fields: %w", err)
	}
	return p, nil
}
