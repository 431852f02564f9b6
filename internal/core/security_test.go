// AngelaMos | 2026
// security_test.go

package core

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("admin123")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$") {
		t.Fatalf("expected argon2id hash, got %q", hash)
	}

	ok, err := VerifyPassword("admin123", hash)
	if err != nil || !ok {
		t.Fatalf("expected password to verify, ok=%v err=%v", ok, err)
	}

	ok, err = VerifyPassword("wrong", hash)
	if err != nil {
		t.Fatalf("verify wrong password: %v", err)
	}
	if ok {
		t.Fatal("wrong password verified")
	}
}

func TestHashPasswordUsesFreshSalt(t *testing.T) {
	a, _ := HashPassword("user123")
	b, _ := HashPassword("user123")
	if a == b {
		t.Fatal("two hashes of the same password are identical")
	}
}

func TestVerifyLegacyBcryptRequestsRehash(t *testing.T) {
	legacy, err := bcrypt.GenerateFromPassword([]byte("user123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}

	ok, newHash, err := VerifyPasswordWithRehash("user123", string(legacy))
	if err != nil || !ok {
		t.Fatalf("expected legacy hash to verify, ok=%v err=%v", ok, err)
	}
	if !strings.HasPrefix(newHash, "$argon2id$") {
		t.Fatalf("expected argon2id rehash, got %q", newHash)
	}

	ok, _, err = VerifyPasswordWithRehash("nope", string(legacy))
	if err != nil || ok {
		t.Fatalf("expected mismatch, ok=%v err=%v", ok, err)
	}
}

func TestVerifyPasswordTimingSafeWithoutHash(t *testing.T) {
	ok, newHash, err := VerifyPasswordTimingSafe("anything", nil)
	if ok || newHash != "" || err != nil {
		t.Fatalf("expected silent rejection, got ok=%v hash=%q err=%v", ok, newHash, err)
	}

	empty := ""
	ok, _, _ = VerifyPasswordTimingSafe("anything", &empty)
	if ok {
		t.Fatal("empty hash must never verify")
	}
}

func TestVerifyPasswordRejectsGarbage(t *testing.T) {
	if _, err := VerifyPassword("x", "not-a-hash"); err == nil {
		t.Fatal("expected error for malformed hash")
	}
}

func TestOutdatedArgonParamsRequestRehash(t *testing.T) {
	weak := argonParams{memory: 8 * 1024, time: 1, threads: 1, keyLen: 32}
	salt := []byte("0123456789abcdef")
	old := argonHash{params: weak, salt: salt, key: weak.derive("user123", salt)}.String()

	ok, newHash, err := VerifyPasswordWithRehash("user123", old)
	if err != nil || !ok {
		t.Fatalf("expected old hash to verify, ok=%v err=%v", ok, err)
	}
	if newHash == "" || newHash == old {
		t.Fatal("expected a replacement hash")
	}

	current, _ := HashPassword("user123")
	if _, again, _ := VerifyPasswordWithRehash("user123", current); again != "" {
		t.Fatal("current parameters should not trigger a rehash")
	}
}
