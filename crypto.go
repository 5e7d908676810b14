package ppp

import (
	"crypto/ed25519"
	"crypto/rand"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/chacha20poly1305"
)

// Byte widths fixed by the wire format (spec §3).
const (
	SymKeySize   = 32
	SymNonceSize = 24
	SymMACSize   = 16
	SymMetaSize  = SymNonceSize + SymMACSize // 40

	TreeKeySize = 16
	DirKeySize  = 32

	AsymPublicSize = 64
	AsymPrivateSize = 64
	SignatureSize  = 64

	HashMinSize = 1
	HashMaxSize = 64
)

// generateKey draws n bytes from the CSPRNG.
func generateKey(n int) ([]byte, Error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return nil, wrapErrorf(CryptoFailure, err, "crypto/rand.Read")
	}
	return buf, nil
}

// generateSigningKeypair produces an Ed25519-compatible keypair. The
// "private" key is the 64-byte expanded Ed25519 signing key as produced by
// crypto/ed25519.GenerateKey. The "public" key is a 64-byte bundle: the
// 32-byte Ed25519 public key followed by 32 zero bytes, matching the fixed
// width the wire format reserves (see SPEC_FULL.md §9 / DESIGN.md).
func generateSigningKeypair() (priv [AsymPrivateSize]byte, pub [AsymPublicSize]byte, err Error) {
	pubKey, privKey, genErr := ed25519.GenerateKey(rand.Reader)
	if genErr != nil {
		err = wrapErrorf(CryptoFailure, genErr, "ed25519.GenerateKey")
		return
	}
	copy(priv[:], privKey)
	copy(pub[:ed25519.PublicKeySize], pubKey)
	return
}

// hashBytes computes the Blake2b digest of message at the requested size,
// which must be between 1 and 64 bytes.
func hashBytes(message []byte, size int) ([]byte, Error) {
	if size < HashMinSize || size > HashMaxSize {
		return nil, errorf(CryptoFailure, "hash size %d out of range [1,64]", size)
	}
	h, err := blake2b.New(size, nil)
	if err != nil {
		return nil, wrapErrorf(CryptoFailure, err, "blake2b.New")
	}
	h.Write(message)
	return h.Sum(nil), nil
}

// sign produces a 64-byte Ed25519 signature of message under priv.
func sign(message []byte, priv [AsymPrivateSize]byte) ([SignatureSize]byte, Error) {
	var sig [SignatureSize]byte
	s := ed25519.Sign(ed25519.PrivateKey(priv[:]), message)
	if len(s) != SignatureSize {
		return sig, errorf(CryptoFailure, "unexpected signature length %d", len(s))
	}
	copy(sig[:], s)
	return sig, nil
}

// encryptSymmetric authenticates and encrypts plaintext under key using
// XChaCha20-Poly1305 with a fresh random nonce, returning
// mac(16) ‖ nonce(24) ‖ ciphertext(len(plaintext)) — exactly 40 bytes
// longer than the plaintext, MAC first as the decoder expects.
func encryptSymmetric(plaintext []byte, key [SymKeySize]byte) ([]byte, Error) {
	aead, err := chacha20poly1305.NewX(key[:])
	if err != nil {
		return nil, wrapErrorf(CryptoFailure, err, "chacha20poly1305.NewX")
	}
	nonce := make([]byte, SymNonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, wrapErrorf(CryptoFailure, err, "crypto/rand.Read nonce")
	}
	// Seal appends the Poly1305 tag after the ciphertext; the wire format
	// wants mac ‖ nonce ‖ ct, so reassemble.
	sealed := aead.Seal(nil, nonce, plaintext, nil)
	ctLen := len(sealed) - chacha20poly1305.Overhead
	mac := sealed[ctLen:]
	ct := sealed[:ctLen]

	out := make([]byte, SymMACSize+SymNonceSize+len(ct))
	copy(out[:SymMACSize], mac)
	copy(out[SymMACSize:SymMACSize+SymNonceSize], nonce)
	copy(out[SymMACSize+SymNonceSize:], ct)
	return out, nil
}
