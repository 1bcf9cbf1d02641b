package cryptox

import (
	"crypto/rand"
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
)

const pepperBytes = 32

// LoadPepper loads the refresh-token pepper from a file, generating and
// persisting a fresh one on first run. The pepper is handed to whoever
// needs it as a plain value; there is no package-level state.
func LoadPepper(file string) (string, error) {
	file = filepath.Clean(file)
	if err := os.MkdirAll(filepath.Dir(file), 0750); err != nil {
		return "", err
	}

	if _, err := os.Stat(file); os.IsNotExist(err) {
		buf := make([]byte, pepperBytes)
		if _, err := rand.Read(buf); err != nil {
			return "", err
		}
		pepper := base64.RawURLEncoding.EncodeToString(buf)

		if err := os.WriteFile(file, []byte(pepper), 0600); err != nil {
			return "", err
		}
		return pepper, nil
	}

	raw, err := os.ReadFile(file)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(string(raw)), nil
}
