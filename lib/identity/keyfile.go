// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package identity

import (
	"bytes"
	"crypto/ed25519"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"filippo.io/age"
)

// ageHeader prefixes every binary age file.
const ageHeader = "age-encryption.org/v1\n"

// ErrPassphraseRequired is returned by Load when the key file is sealed
// and no passphrase was supplied.
var ErrPassphraseRequired = errors.New("identity: key file is encrypted; a passphrase is required")

// PublicPath returns the path of the base58 public identity file that
// accompanies the key file at path.
func PublicPath(path string) string {
	return path + ".pub"
}

// Save writes the private key to path (mode 0600) and the base58
// identity to PublicPath(path) (mode 0644). A non-empty passphrase
// seals the private key with age's scrypt recipient.
func Save(path string, keypair *Keypair, passphrase string) error {
	contents := []byte(keypair.private)
	if passphrase != "" {
		sealed, err := seal(contents, passphrase)
		if err != nil {
			return err
		}
		contents = sealed
	}

	if err := os.WriteFile(path, contents, 0600); err != nil {
		return fmt.Errorf("identity: writing private key: %w", err)
	}
	if err := os.WriteFile(PublicPath(path), []byte(keypair.Identity.String()+"\n"), 0644); err != nil {
		return fmt.Errorf("identity: writing public identity: %w", err)
	}
	return nil
}

// Load reads a keypair written by Save. Sealed files need the
// passphrase; plain files ignore it.
func Load(path string, passphrase string) (*Keypair, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("identity: reading private key: %w", err)
	}

	if IsSealed(contents) {
		if passphrase == "" {
			return nil, ErrPassphraseRequired
		}
		contents, err = unseal(contents, passphrase)
		if err != nil {
			return nil, err
		}
	}

	return FromPrivateKey(ed25519.PrivateKey(contents))
}

// LoadPublic reads the base58 identity file next to a key file.
func LoadPublic(path string) (Identity, error) {
	contents, err := os.ReadFile(PublicPath(path))
	if err != nil {
		return Identity{}, fmt.Errorf("identity: reading public identity: %w", err)
	}
	return Parse(strings.TrimSpace(string(contents)))
}

// IsSealed reports whether contents is an age-encrypted key file.
func IsSealed(contents []byte) bool {
	return bytes.HasPrefix(contents, []byte(ageHeader))
}

func seal(plaintext []byte, passphrase string) ([]byte, error) {
	recipient, err := age.NewScryptRecipient(passphrase)
	if err != nil {
		return nil, fmt.Errorf("identity: creating scrypt recipient: %w", err)
	}

	var ciphertext bytes.Buffer
	writer, err := age.Encrypt(&ciphertext, recipient)
	if err != nil {
		return nil, fmt.Errorf("identity: creating age encryptor: %w", err)
	}
	if _, err := writer.Write(plaintext); err != nil {
		return nil, fmt.Errorf("identity: writing private key to age encryptor: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("identity: finalizing age encryption: %w", err)
	}
	return ciphertext.Bytes(), nil
}

func unseal(ciphertext []byte, passphrase string) ([]byte, error) {
	scryptIdentity, err := age.NewScryptIdentity(passphrase)
	if err != nil {
		return nil, fmt.Errorf("identity: creating scrypt identity: %w", err)
	}

	reader, err := age.Decrypt(bytes.NewReader(ciphertext), scryptIdentity)
	if err != nil {
		return nil, fmt.Errorf("identity: decrypting key file: %w", err)
	}
	plaintext, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("identity: reading decrypted key: %w", err)
	}
	return plaintext, nil
}
