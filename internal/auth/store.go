package auth

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
)

// lightweight per-user token store (file, 0600) with AES-GCM obfuscation.
// Not a replacement for OS keychains but avoids plain-text tokens on disk.

const tokenFileName = "session.json"

type tokenFile struct {
	Access  string `json:"access"`  // base64(ciphertext)
	Refresh string `json:"refresh"` // base64(ciphertext)
}

// TokenStore persists the session token pair under a directory, by default
// the user config dir. An explicit dir keeps tests hermetic.
type TokenStore struct {
	dir string
}

func NewTokenStore(dir string) *TokenStore {
	return &TokenStore{dir: dir}
}

func (s *TokenStore) filePath() (string, error) {
	dir := s.dir
	if dir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(base, "ceicacake")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}
	return filepath.Join(dir, tokenFileName), nil
}

// Save writes both tokens atomically.
func (s *TokenStore) Save(access, refresh string) error {
	path, err := s.filePath()
	if err != nil {
		return err
	}
	encAccess, err := encrypt([]byte(access))
	if err != nil {
		return err
	}
	encRefresh, err := encrypt([]byte(refresh))
	if err != nil {
		return err
	}
	tf := tokenFile{
		Access:  base64.StdEncoding.EncodeToString(encAccess),
		Refresh: base64.StdEncoding.EncodeToString(encRefresh),
	}
	data, err := json.MarshalIndent(tf, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Load returns the stored pair, or empty strings when no session exists.
func (s *TokenStore) Load() (access, refresh string, err error) {
	path, err := s.filePath()
	if err != nil {
		return "", "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", "", nil
		}
		return "", "", err
	}
	var tf tokenFile
	if err := json.Unmarshal(data, &tf); err != nil {
		return "", "", err
	}
	if access, err = decode(tf.Access); err != nil {
		return "", "", err
	}
	if refresh, err = decode(tf.Refresh); err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

// Clear removes the persisted session. Missing file is not an error.
func (s *TokenStore) Clear() error {
	path, err := s.filePath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func decode(enc string) (string, error) {
	if enc == "" {
		return "", nil
	}
	raw, err := base64.StdEncoding.DecodeString(enc)
	if err != nil {
		return "", err
	}
	pt, err := decrypt(raw)
	if err != nil {
		return "", err
	}
	return string(pt), nil
}

func masterKey() []byte {
	user := os.Getenv("USER")
	base := fmt.Sprintf("ceicacake-%s-%s", runtime.GOOS, user)
	hash := sha256.Sum256([]byte(base))
	return hash[:]
}

func encrypt(plain []byte) ([]byte, error) {
	block, err := aes.NewCipher(masterKey())
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return gcm.Seal(nonce, nonce, plain, nil), nil
}

func decrypt(ciphertext []byte) ([]byte, error) {
	block, err := aes.NewCipher(masterKey())
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	if len(ciphertext) < gcm.NonceSize() {
		return nil, fmt.Errorf("ciphertext too short")
	}
	nonce := ciphertext[:gcm.NonceSize()]
	body := ciphertext[gcm.NonceSize():]
	return gcm.Open(nil, nonce, body, nil)
}
