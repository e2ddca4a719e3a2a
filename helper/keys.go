package helper

import (
	"crypto/rsa"
	"fmt"

	"github.com/lestrrat-go/jwx/v3/jwk"
)

// KeyPair holds the RS256 signing key for access tokens and its public half.
type KeyPair struct {
	Private jwk.Key
	Public  jwk.Key
}

func LoadKeyPair(path string) (*KeyPair, error) {
	set, err := jwk.ReadFile(path, jwk.WithPEM(true))
	if err != nil {
		return nil, fmt.Errorf("failed to load private key: %w", err)
	}
	key, ok := set.Key(0)
	if !ok {
		return nil, fmt.Errorf("private key not found at index 0")
	}
	return newKeyPair(key)
}

func KeyPairFromRSA(priv *rsa.PrivateKey) (*KeyPair, error) {
	key, err := jwk.Import(priv)
	if err != nil {
		return nil, fmt.Errorf("failed to import rsa key: %w", err)
	}
	return newKeyPair(key)
}

func newKeyPair(key jwk.Key) (*KeyPair, error) {
	pub, err := key.PublicKey()
	if err != nil {
		return nil, fmt.Errorf("failed to get public key: %w", err)
	}
	// third parties look for "use"
	pub.Set("use", "sig")
	return &KeyPair{Private: key, Public: pub}, nil
}

func (k *KeyPair) PublicSet() jwk.Set {
	set := jwk.NewSet()
	set.AddKey(k.Public)
	return set
}
