package auth

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasherSaltsEachHash(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	first, err := h.Hash("correct horse")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	second, err := h.Hash("correct horse")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if first == second {
		t.Fatal("expected different hashes for the same password")
	}
	if !h.Verify("correct horse", first) || !h.Verify("correct horse", second) {
		t.Fatal("expected both hashes to verify")
	}
}

func TestBcryptHasherVerifyMismatch(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	hash, err := h.Hash("secret-1")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if h.Verify("secret-2", hash) {
		t.Fatal("expected mismatch")
	}
	if h.Verify("secret-1", "not-a-bcrypt-hash") {
		t.Fatal("expected malformed hash to be a mismatch")
	}
}

func TestNewBcryptHasherClampsCost(t *testing.T) {
	if got := NewBcryptHasher(0).cost; got != bcrypt.DefaultCost {
		t.Fatalf("expected default cost, got %d", got)
	}
	if got := NewBcryptHasher(bcrypt.MaxCost + 1).cost; got != bcrypt.DefaultCost {
		t.Fatalf("expected default cost, got %d", got)
	}
}
