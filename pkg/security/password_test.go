package security

import (
	"strings"
	"testing"

	"github.com/jezzlucena/slatefolio/pkg/config"
)

func testPasswordConfig() config.PasswordConfig {
	// Small params keep the test fast; production values come from env.
	return config.PasswordConfig{
		ArgonMemoryKB:    8,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     8,
		ArgonKeyLen:      16,
	}
}

func TestHashAndVerifyPassword(t *testing.T) {
	t.Parallel()

	encoded, err := HashPassword("correct horse battery staple", testPasswordConfig())
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if !strings.HasPrefix(encoded, "$argon2id$v=19$") {
		t.Fatalf("unexpected hash format %q", encoded)
	}

	ok, err := VerifyPassword("correct horse battery staple", encoded)
	if err != nil {
		t.Fatalf("verify password: %v", err)
	}
	if !ok {
		t.Fatal("expected password to verify")
	}

	ok, err = VerifyPassword("wrong password", encoded)
	if err != nil {
		t.Fatalf("verify wrong password: %v", err)
	}
	if ok {
		t.Fatal("expected mismatch to fail")
	}
}

func TestHashPasswordUniqueSalts(t *testing.T) {
	t.Parallel()

	first, err := HashPassword("same input", testPasswordConfig())
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	second, err := HashPassword("same input", testPasswordConfig())
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if first == second {
		t.Fatal("expected distinct salts to produce distinct hashes")
	}
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	t.Parallel()

	if _, err := VerifyPassword("anything", "not-a-hash"); err != ErrInvalidHash {
		t.Fatalf("expected ErrInvalidHash, got %v", err)
	}
	if _, err := VerifyPassword("anything", "$bcrypt$v=19$m=8,t=1,p=1$c2FsdA$aGFzaA"); err != ErrInvalidHash {
		t.Fatalf("expected ErrInvalidHash for wrong algorithm, got %v", err)
	}
}

func TestHashPasswordEmpty(t *testing.T) {
	t.Parallel()

	if _, err := HashPassword("", testPasswordConfig()); err == nil {
		t.Fatal("expected error for empty password")
	}
}
