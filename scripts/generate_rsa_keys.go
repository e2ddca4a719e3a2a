package scripts

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"
	"path/filepath"
)

// GenerateRsaKeys writes a 2048-bit key pair as private.pem and public.pem
// under certsDir. Existing files are kept unless force is set.
func GenerateRsaKeys(certsDir string, force bool) (string, error) {
	privPath := filepath.Join(certsDir, "private.pem")
	if _, err := os.Stat(privPath); err == nil && !force {
		return "", fmt.Errorf("%s already exists (use --force to overwrite)", privPath)
	}

	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(certsDir, 0o700); err != nil {
		return "", err
	}

	privBytes := x509.MarshalPKCS1PrivateKey(privateKey)
	privPEM := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: privBytes})
	if err := os.WriteFile(privPath, privPEM, 0o600); err != nil {
		return "", err
	}

	pubASN1, err := x509.MarshalPKIXPublicKey(&privateKey.PublicKey)
	if err != nil {
		return "", err
	}
	pubPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubASN1})
	if err := os.WriteFile(filepath.Join(certsDir, "public.pem"), pubPEM, 0o644); err != nil {
		return "", err
	}
	return privPath, nil
}
