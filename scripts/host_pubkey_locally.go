package scripts

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"property-service/helper"
)

// WriteJwks publishes the public half of the key at privPath as a JWK set,
// for static hosting next to the console.
func WriteJwks(privPath, jwksPath string) error {
	keys, err := helper.LoadKeyPair(privPath)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(jwksPath), 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(jwksPath), err)
	}
	jsonBytes, err := json.MarshalIndent(keys.PublicSet(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JWKS: %w", err)
	}
	return os.WriteFile(jwksPath, jsonBytes, 0o644)
}
