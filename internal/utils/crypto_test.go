package utils

import (
	"strings"
	"testing"
)

var testKey = []byte("0123456789abcdef0123456789abcdef")

func TestEncryptDecryptRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"short", "x"},
		{"account number", "012345678901"},
		{"block-aligned", strings.Repeat("a", 16)},
		{"long", strings.Repeat("credential ", 20)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc, err := Encrypt(tt.data, testKey)
			if err != nil {
				t.Fatalf("Encrypt: %v", err)
			}
			if enc == tt.data {
				t.Fatal("ciphertext equals plaintext")
			}
			dec, err := Decrypt(enc, testKey)
			if err != nil {
				t.Fatalf("Decrypt: %v", err)
			}
			if dec != tt.data {
				t.Errorf("round trip = %q, want %q", dec, tt.data)
			}
		})
	}
}

func TestEncryptRejectsBadKey(t *testing.T) {
	if _, err := Encrypt("data", []byte("short")); err == nil {
		t.Error("expected error for short key")
	}
	if _, err := Encrypt("", testKey); err == nil {
		t.Error("expected error for empty input")
	}
}

func TestDecryptRejectsGarbage(t *testing.T) {
	if _, err := Decrypt("not-hex", testKey); err == nil {
		t.Error("expected error for non-hex input")
	}
	if _, err := Decrypt("abcd", testKey); err == nil {
		t.Error("expected error for truncated input")
	}
}

func TestGenerateHMACDeterministic(t *testing.T) {
	a := GenerateHMAC("acct", "user", "pass", "secret")
	b := GenerateHMAC("acct", "user", "pass", "secret")
	if a != b {
		t.Error("HMAC not deterministic for identical inputs")
	}
	if a == GenerateHMAC("acct", "user", "pass", "other") {
		t.Error("HMAC ignores the secret")
	}
	if a == GenerateHMAC("acct2", "user", "pass", "secret") {
		t.Error("HMAC ignores the account ID")
	}
}
