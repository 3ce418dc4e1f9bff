package config

import (
	"bytes"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/crypto/ssh"
)

func writeTestKey(t *testing.T) string {
	t.Helper()

	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("GenerateKey() error = %v", err)
	}

	block, err := ssh.MarshalPrivateKey(priv, "")
	if err != nil {
		t.Fatalf("MarshalPrivateKey() error = %v", err)
	}

	path := filepath.Join(t.TempDir(), "id_ed25519")
	if err := os.WriteFile(path, pem.EncodeToMemory(block), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	em := NewEncryptionManager(EncryptionSSHKey, writeTestKey(t))
	if err := em.Initialize(); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}

	plaintext := []byte(`{"openai.api_key":"sk-secret"}`)
	ct, err := em.Encrypt(plaintext)
	if err != nil {
		t.Fatalf("Encrypt() error = %v", err)
	}
	if bytes.Contains(ct, []byte("sk-secret")) {
		t.Fatal("ciphertext contains plaintext secret")
	}

	pt, err := em.Decrypt(ct)
	if err != nil {
		t.Fatalf("Decrypt() error = %v", err)
	}
	if !bytes.Equal(pt, plaintext) {
		t.Errorf("Decrypt() = %q, want %q", pt, plaintext)
	}
}

func TestEncryptionNonePassthrough(t *testing.T) {
	em := NewEncryptionManager(EncryptionNone, "")
	if err := em.Initialize(); err != nil {
		t.Fatal(err)
	}
	out, err := em.Encrypt([]byte("abc"))
	if err != nil || string(out) != "abc" {
		t.Errorf("Encrypt() = %q, %v", out, err)
	}
}

func TestCredentialStoreSSHKey(t *testing.T) {
	keyPath := writeTestKey(t)
	dataDir := t.TempDir()

	store := NewCredentialStore(SecuritySSHKey, keyPath)
	store.Set(ProviderGemini, "api_key", "g-key")
	if err := store.Save(dataDir); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if FileExists(credentialsPath(dataDir)) {
		t.Error("plaintext credentials.toml written in ssh_key mode")
	}

	reloaded := NewCredentialStore(SecuritySSHKey, keyPath)
	if err := reloaded.Load(dataDir); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := reloaded.Get(ProviderGemini, "api_key"); got != "g-key" {
		t.Errorf("Get() = %q, want g-key", got)
	}
}

func TestCredentialStoreEmptyValueDeletes(t *testing.T) {
	store := NewCredentialStore(SecurityPlainText, "")
	store.Set(ProviderOpenAI, "api_key", "x")
	store.Set(ProviderOpenAI, "api_key", "")
	if got := store.Get(ProviderOpenAI, "api_key"); got != "" {
		t.Errorf("Get() after clearing = %q", got)
	}
}
