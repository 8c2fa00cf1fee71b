package sshcfg

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/pem"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"golang.org/x/crypto/ssh"

	"github.com/multigit/ghswitch/internal/config"
	"github.com/multigit/ghswitch/internal/platform"
)

const rsaKeyBits = 4096

// CreateKeyPair generates a passphrase-less key pair for the account's host
// alias and returns the public key text. When a key already exists and
// overwrite is false, the existing public key is returned with
// created=false; the caller branches on that, it is not an error.
func (m *Manager) CreateKeyPair(acct config.Account, overwrite bool) (publicKey string, created bool, err error) {
	privateKeyPath := m.KeyPath(acct.SSHHostAlias)
	publicKeyPath := privateKeyPath + ".pub"

	if KeyExists(privateKeyPath) && !overwrite {
		content, err := os.ReadFile(publicKeyPath)
		if err != nil {
			return "", false, fmt.Errorf("key exists but public key is unreadable: %w", err)
		}
		return string(content), false, nil
	}

	if err := platform.MkdirSecure(filepath.Dir(privateKeyPath)); err != nil {
		return "", false, fmt.Errorf("failed to create .ssh directory: %w", err)
	}

	if overwrite {
		// ssh-keygen prompts on overwrite; clear the old pair first
		os.Remove(privateKeyPath)
		os.Remove(publicKeyPath)
	}

	if platform.HasCommand("ssh-keygen") {
		cmd := exec.Command("ssh-keygen",
			"-t", "rsa", "-b", fmt.Sprint(rsaKeyBits),
			"-f", privateKeyPath,
			"-N", "",
			"-C", acct.GitEmail)
		if output, err := cmd.CombinedOutput(); err != nil {
			return "", false, fmt.Errorf("ssh-keygen failed: %s: %w", string(output), err)
		}
	} else if err := generateKeyPair(privateKeyPath, publicKeyPath, acct.GitEmail); err != nil {
		return "", false, err
	}

	content, err := os.ReadFile(publicKeyPath)
	if err != nil {
		return "", false, fmt.Errorf("failed to read public key: %w", err)
	}
	return string(content), true, nil
}

// generateKeyPair is the built-in fallback for hosts without ssh-keygen.
func generateKeyPair(privateKeyPath, publicKeyPath, comment string) error {
	key, err := rsa.GenerateKey(rand.Reader, rsaKeyBits)
	if err != nil {
		return fmt.Errorf("failed to generate key: %w", err)
	}

	pemBlock, err := ssh.MarshalPrivateKey(key, comment)
	if err != nil {
		return fmt.Errorf("failed to marshal private key: %w", err)
	}

	privateKeyFile, err := platform.OpenFileSecure(privateKeyPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC)
	if err != nil {
		return fmt.Errorf("failed to create private key file: %w", err)
	}
	defer privateKeyFile.Close()

	if err := pem.Encode(privateKeyFile, pemBlock); err != nil {
		return fmt.Errorf("failed to write private key: %w", err)
	}

	sshPubKey, err := ssh.NewPublicKey(&key.PublicKey)
	if err != nil {
		return fmt.Errorf("failed to convert public key: %w", err)
	}

	if err := os.WriteFile(publicKeyPath, ssh.MarshalAuthorizedKey(sshPubKey), 0644); err != nil {
		return fmt.Errorf("failed to write public key: %w", err)
	}
	return nil
}
