// Package webpush sends Web Push messages with VAPID authorization. It wraps
// SherClockHolmes/webpush-go and maps push service responses onto errors the
// notification layer can act on.
package webpush

import (
	"crypto/ecdh"
	"encoding/base64"
	"fmt"
	"strings"

	webpushgo "github.com/SherClockHolmes/webpush-go"
)

// VAPIDKeys is an application server key pair in the encoding browsers
// expect: base64url without padding.
type VAPIDKeys struct {
	PublicKey  string
	PrivateKey string
}

// GenerateVAPIDKeys creates a fresh P-256 key pair.
func GenerateVAPIDKeys() (VAPIDKeys, error) {
	priv, pub, err := webpushgo.GenerateVAPIDKeys()
	if err != nil {
		return VAPIDKeys{}, err
	}
	return VAPIDKeys{PublicKey: pub, PrivateKey: priv}, nil
}

// decodeKey accepts base64url or standard base64, padded or not.
func decodeKey(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimRight(s, "=")
	s = strings.NewReplacer("+", "-", "/", "_").Replace(s)
	return base64.RawURLEncoding.DecodeString(s)
}

// validateKeys checks that the pair decodes to a P-256 scalar and point so a
// misconfiguration fails at startup instead of on the first send.
func validateKeys(publicKey, privateKey string) error {
	d, err := decodeKey(privateKey)
	if err != nil {
		return fmt.Errorf("decode vapid private key: %w", err)
	}
	if _, err := ecdh.P256().NewPrivateKey(d); err != nil {
		return fmt.Errorf("invalid vapid private key: %w", err)
	}
	p, err := decodeKey(publicKey)
	if err != nil {
		return fmt.Errorf("decode vapid public key: %w", err)
	}
	if _, err := ecdh.P256().NewPublicKey(p); err != nil {
		return fmt.Errorf("invalid vapid public key: %w", err)
	}
	return nil
}
