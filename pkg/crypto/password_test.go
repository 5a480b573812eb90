package crypto

import (
	"bytes"
	"testing"
)

func TestHashPasswordNeverStoresPlaintext(t *testing.T) {
	hash, err := HashPassword("pw123")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	if bytes.Contains(hash, []byte("pw123")) {
		t.Fatal("hash contains the plaintext password")
	}
}

func TestComparePassword(t *testing.T) {
	hash, err := HashPassword("pw123")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	if err := ComparePassword(hash, "pw123"); err != nil {
		t.Fatalf("expected matching password to verify, got %v", err)
	}
	if err := ComparePassword(hash, "pw124"); err == nil {
		t.Fatal("expected mismatched password to fail")
	}
}

func TestHashPasswordSalts(t *testing.T) {
	first, err := HashPassword("pw123")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	second, err := HashPassword("pw123")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	if bytes.Equal(first, second) {
		t.Fatal("expected per-hash salts to produce distinct digests")
	}
}
