package config

import (
	"crypto/x509"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/afero"
)

var (
	ErrTruststoreMissing = errors.New("truststore not found")
	ErrTruststoreInvalid = errors.New("truststore holds no PEM certificates")
)

// Connection is everything needed to reach the engine and find one VM.
type Connection struct {
	Username       string
	Password       string
	TruststorePath string
	URL            string
	ClusterName    string
	VMName         string

	// Insecure skips TLS verification of the engine certificate.
	Insecure bool
}

// NArgs is the number of positional arguments FromArgs expects.
const NArgs = 6

// FromArgs maps positional arguments in the order
// username, password, truststore, url, cluster, vm.
func FromArgs(args []string) (Connection, error) {
	if len(args) != NArgs {
		return Connection{}, fmt.Errorf("expected %d arguments, got %d", NArgs, len(args))
	}
	return Connection{
		Username:       args[0],
		Password:       args[1],
		TruststorePath: args[2],
		URL:            args[3],
		ClusterName:    args[4],
		VMName:         args[5],
	}, nil
}

// CheckTruststore fails with ErrTruststoreMissing when path does not exist.
func CheckTruststore(fs afero.Fs, path string) error {
	ok, err := afero.Exists(fs, path)
	if err != nil {
		return fmt.Errorf("stat truststore %s: %w", path, err)
	}
	if !ok {
		return fmt.Errorf("%s: %w", path, ErrTruststoreMissing)
	}
	return nil
}

// LoadTrustBundle reads the PEM CA bundle at path.
func LoadTrustBundle(fs afero.Fs, path string) ([]byte, error) {
	if err := CheckTruststore(fs, path); err != nil {
		return nil, err
	}
	b, err := afero.ReadFile(fs, path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", path, ErrTruststoreMissing)
		}
		return nil, fmt.Errorf("read truststore %s: %w", path, err)
	}
	if !x509.NewCertPool().AppendCertsFromPEM(b) {
		return nil, fmt.Errorf("%s: %w", path, ErrTruststoreInvalid)
	}
	return b, nil
}
