// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/bureau-foundation/lockup/lib/config"
	"github.com/bureau-foundation/lockup/lib/identity"
)

// SignerParams are the flags of every command that signs a transition.
// Embed it in a params struct next to [Connection].
type SignerParams struct {
	Key            string        `json:"-" flag:"key,k" desc:"signing key name (under paths.keys) or key file path"`
	PassphraseFile string        `json:"-" flag:"passphrase-file" desc:"file holding the key passphrase ('-' reads stdin)"`
	Validity       time.Duration `json:"-" flag:"validity" desc:"how long the signed transition stays valid" default:"10m"`
	Out            string        `json:"-" flag:"out,o" desc:"write the signed transition to this file instead of submitting it"`
}

// Keypair loads the signing key. A sealed key without --passphrase-file
// prompts on the terminal.
func (p *SignerParams) Keypair(cfg *config.Config) (*identity.Keypair, error) {
	if p.Key == "" {
		return nil, fmt.Errorf("--key is required")
	}
	path := KeyPath(cfg, p.Key)

	passphrase, err := ReadPassphrase(p.PassphraseFile)
	if err != nil {
		return nil, err
	}
	keypair, err := identity.Load(path, passphrase)
	if errors.Is(err, identity.ErrPassphraseRequired) && p.PassphraseFile == "" && IsTerminal(os.Stdin) {
		passphrase, err = PromptPassphrase(os.Stderr, fmt.Sprintf("passphrase for %s: ", path))
		if err != nil {
			return nil, err
		}
		keypair, err = identity.Load(path, passphrase)
	}
	if err != nil {
		return nil, err
	}
	return keypair, nil
}

// KeyPath resolves a --key value. Bare names live in the configured
// key directory; anything with a slash or a .key suffix is a path.
func KeyPath(cfg *config.Config, name string) string {
	if strings.ContainsRune(name, filepath.Separator) || strings.HasSuffix(name, ".key") {
		return name
	}
	return cfg.KeyPath(name)
}

// ResolveIdentity accepts a base58 identity or the name of a key whose
// public identity file is in the key directory.
func ResolveIdentity(cfg *config.Config, text string) (identity.Identity, error) {
	if text == "" {
		return identity.Identity{}, fmt.Errorf("identity is empty")
	}
	if id, err := identity.Parse(text); err == nil {
		return id, nil
	}
	id, err := identity.LoadPublic(KeyPath(cfg, text))
	if err != nil {
		return identity.Identity{}, fmt.Errorf("%q is neither a base58 identity nor a known key name", text)
	}
	return id, nil
}

// ReadPassphrase reads a passphrase from path, or from the first line
// of stdin when path is "-". An empty path returns "".
func ReadPassphrase(path string) (string, error) {
	if path == "" {
		return "", nil
	}

	var contents string
	if path == "-" {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("reading passphrase from stdin: %w", err)
		}
		contents = line
	} else {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("reading passphrase: %w", err)
		}
		contents = string(data)
	}

	passphrase := strings.TrimSpace(contents)
	if passphrase == "" {
		return "", fmt.Errorf("passphrase from %s is empty", path)
	}
	return passphrase, nil
}

// PromptPassphrase reads a passphrase from the terminal without echo.
func PromptPassphrase(w io.Writer, prompt string) (string, error) {
	fmt.Fprint(w, prompt)
	data, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return "", fmt.Errorf("reading passphrase: %w", err)
	}
	passphrase := strings.TrimSpace(string(data))
	if passphrase == "" {
		return "", fmt.Errorf("empty passphrase")
	}
	return passphrase, nil
}
