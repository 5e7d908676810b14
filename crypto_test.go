package ppp

import (
	"bytes"
	"crypto/ed25519"
	"testing"
)

func TestGenerateKeyLength(t *testing.T) {
	for _, n := range []int{16, 24, 32} {
		k, err := generateKey(n)
		if err != nil {
			t.Fatalf("generateKey(%d): %v", n, err)
		}
		if len(k) != n {
			t.Fatalf("generateKey(%d) returned %d bytes", n, len(k))
		}
	}
}

func TestGenerateSigningKeypairSizes(t *testing.T) {
	priv, pub, err := generateSigningKeypair()
	if err != nil {
		t.Fatalf("generateSigningKeypair: %v", err)
	}
	if len(priv) != AsymPrivateSize || len(pub) != AsymPublicSize {
		t.Fatalf("got priv=%d pub=%d, want %d/%d", len(priv), len(pub), AsymPrivateSize, AsymPublicSize)
	}
	if !bytes.Equal(pub[ed25519.PublicKeySize:], make([]byte, AsymPublicSize-ed25519.PublicKeySize)) {
		t.Fatalf("public key bundle tail is not zero-padded: %x", pub[ed25519.PublicKeySize:])
	}
}

func TestSignVerifyRoundTrip(t *testing.T) {
	priv, pub, err := generateSigningKeypair()
	if err != nil {
		t.Fatalf("generateSigningKeypair: %v", err)
	}
	msg := []byte("a packed record to sign")
	sig, err := sign(msg, priv)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if len(sig) != SignatureSize {
		t.Fatalf("signature is %d bytes, want %d", len(sig), SignatureSize)
	}
	if !ed25519.Verify(ed25519.PublicKey(pub[:ed25519.PublicKeySize]), msg, sig[:]) {
		t.Fatalf("signature does not verify under the matching public key")
	}
}

func TestHashBytesSizes(t *testing.T) {
	for _, size := range []int{1, 16, 32, 64} {
		h, err := hashBytes([]byte("message"), size)
		if err != nil {
			t.Fatalf("hashBytes(size=%d): %v", size, err)
		}
		if len(h) != size {
			t.Fatalf("hashBytes(size=%d) returned %d bytes", size, len(h))
		}
	}
	if _, err := hashBytes([]byte("x"), 0); err == nil {
		t.Fatalf("expected error for size 0")
	}
	if _, err := hashBytes([]byte("x"), 65); err == nil {
		t.Fatalf("expected error for size 65")
	}
}

func TestEncryptSymmetricLengthAndFreshness(t *testing.T) {
	var key [SymKeySize]byte
	copy(key[:], bytes.Repeat([]byte{0x42}, SymKeySize))
	plaintext := []byte("a broadcast frame payload of some length")

	ct1, err := encryptSymmetric(plaintext, key)
	if err != nil {
		t.Fatalf("encryptSymmetric: %v", err)
	}
	if len(ct1) != len(plaintext)+SymMetaSize {
		t.Fatalf("ciphertext is %d bytes, want %d", len(ct1), len(plaintext)+SymMetaSize)
	}

	ct2, err := encryptSymmetric(plaintext, key)
	if err != nil {
		t.Fatalf("encryptSymmetric: %v", err)
	}
	if bytes.Equal(ct1, ct2) {
		t.Fatalf("two encryptions of identical input produced identical bytes")
	}
}
