package auth

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCreds() Credentials {
	return Credentials{
		TenantID:     "00000000-0000-0000-0000-000000000001",
		ClientID:     "00000000-0000-0000-0000-000000000002",
		ClientSecret: "s3cr3t-value",
	}
}

func TestCredentialStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "credentials.enc")
	credStore := NewCredentialStore(path)

	require.NoError(t, credStore.Save(testCreds(), "correct horse"))

	loaded, err := credStore.Load("correct horse")
	require.NoError(t, err)
	assert.Equal(t, testCreds(), loaded)
}

func TestCredentialStore_FilePermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.enc")
	require.NoError(t, NewCredentialStore(path).Save(testCreds(), "pw"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestCredentialStore_SecretNotStoredInPlaintext(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.enc")
	require.NoError(t, NewCredentialStore(path).Save(testCreds(), "pw"))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "s3cr3t-value")
}

func TestCredentialStore_WrongPassphraseFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.enc")
	credStore := NewCredentialStore(path)
	require.NoError(t, credStore.Save(testCreds(), "right"))

	_, err := credStore.Load("wrong")
	assert.ErrorContains(t, err, "decrypt")
}

func TestCredentialStore_LoadMissingFile(t *testing.T) {
	credStore := NewCredentialStore(filepath.Join(t.TempDir(), "missing.enc"))

	_, err := credStore.Load("pw")
	assert.ErrorIs(t, err, ErrNoCredentials)
}

func TestCredentialStore_ExistsAndDelete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.enc")
	credStore := NewCredentialStore(path)

	assert.False(t, credStore.Exists())
	require.NoError(t, credStore.Save(testCreds(), "pw"))
	assert.True(t, credStore.Exists())

	require.NoError(t, credStore.Delete())
	assert.False(t, credStore.Exists())

	// Deleting again is not an error.
	assert.NoError(t, credStore.Delete())
}

func TestCredentialStore_RejectsEmptyPassphrase(t *testing.T) {
	credStore := NewCredentialStore(filepath.Join(t.TempDir(), "credentials.enc"))
	assert.Error(t, credStore.Save(testCreds(), ""))
}
