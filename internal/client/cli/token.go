package cli

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/dmitrijs2005/sampleledger/internal/filex"
)

// readToken returns the saved token, or "" when none was saved.
func readToken(path string) (string, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}

func writeToken(path, token string) error {
	return filex.WriteAtomic(path, []byte(token+"\n"), 0o600)
}

func removeToken(path string) error {
	err := os.Remove(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
