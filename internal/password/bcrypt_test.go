package password_test

import (
	"strings"
	"testing"

	"github.com/ErlanBelekov/account-api/internal/password"
	"golang.org/x/crypto/bcrypt"
)

func newHasher() *password.BcryptHasher {
	return password.NewBcryptHasher(bcrypt.MinCost)
}

func TestHash_IsSaltedAndVerifies(t *testing.T) {
	h := newHasher()

	first, err := h.Hash("testpass")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	second, err := h.Hash("testpass")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	if first == second {
		t.Error("two hashes of the same password are identical, want different salts")
	}
	if strings.Contains(first, "testpass") {
		t.Error("digest contains the plaintext")
	}
	if !h.Verify("testpass", first) || !h.Verify("testpass", second) {
		t.Error("both digests must verify")
	}
}

func TestVerify_WrongPassword_ReturnsFalse(t *testing.T) {
	h := newHasher()
	digest, err := h.Hash("testpass")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	if h.Verify("testpassx", digest) {
		t.Error("wrong password verified")
	}
	if h.Verify("", digest) {
		t.Error("empty password verified")
	}
}

func TestVerify_MalformedDigest_ReturnsFalse(t *testing.T) {
	h := newHasher()

	for _, digest := range []string{"", "not-a-hash", "$2a$04$short"} {
		if h.Verify("testpass", digest) {
			t.Errorf("Verify(%q) = true, want false", digest)
		}
	}
}

func TestVerify_DigestFromOtherCost(t *testing.T) {
	digest, err := password.NewBcryptHasher(bcrypt.MinCost + 1).Hash("testpass")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	if !newHasher().Verify("testpass", digest) {
		t.Error("digest produced with a different cost must still verify")
	}
}

func TestHash_LongPassword(t *testing.T) {
	h := newHasher()
	long := strings.Repeat("p", 100)

	digest, err := h.Hash(long)
	if err != nil {
		t.Fatalf("hash 100-byte password: %v", err)
	}
	if !h.Verify(long, digest) {
		t.Error("100-byte password does not verify")
	}
}

func TestVerify_LongPasswordsDifferingAfter72Bytes(t *testing.T) {
	h := newHasher()
	prefix := strings.Repeat("p", 72)

	digest, err := h.Hash(prefix + "a")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if h.Verify(prefix+"b", digest) {
		t.Error("password differing only after byte 72 verified")
	}
	if h.Verify(prefix, digest) {
		t.Error("72-byte prefix verified")
	}
}
