package git

import (
	"fmt"
	"os"

	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/go-git/go-git/v5/plumbing/transport/ssh"
	"golang.org/x/crypto/ssh/knownhosts"
)

// tokenUsername is accepted by GitHub for token authentication when no
// username is known.
const tokenUsername = "x-access-token"

// TokenAuth returns HTTPS basic auth carrying an access token.
//
//nolint:ireturn // go-git requires the transport.AuthMethod interface
func TokenAuth(username, token string) transport.AuthMethod {
	if username == "" {
		username = tokenUsername
	}
	return &http.BasicAuth{Username: username, Password: token}
}

// SSHAuth loads a private key and verifies hosts against knownHostsPath.
//
//nolint:ireturn // go-git requires the transport.AuthMethod interface
func SSHAuth(keyPath, knownHostsPath string) (transport.AuthMethod, error) {
	if _, err := os.Stat(keyPath); err != nil {
		return nil, fmt.Errorf("SSH private key %s: %w", keyPath, err)
	}

	auth, err := ssh.NewPublicKeysFromFile("git", keyPath, "")
	if err != nil {
		return nil, fmt.Errorf("failed to load SSH key from file: %w", err)
	}

	callback, err := knownhosts.New(knownHostsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load known hosts %s: %w", knownHostsPath, err)
	}
	auth.HostKeyCallback = callback

	return auth, nil
}
