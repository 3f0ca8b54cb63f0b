// Package sftp constructs SFTP clients over SSH from SFTPConfig.
//
// Three auth modes are supported: password, private_key, and
// password_and_key, which offers both methods and lets the server pick.
// Host keys are verified against KnownHostsPath when configured; otherwise
// any host key is accepted.
package sftp

import (
	"context"
	"net"
	"os"
	"time"

	pkgsftp "github.com/pkg/sftp"
	"go.uber.org/zap"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"

	"github.com/armature-io/armature/pkg/config"
	"github.com/armature-io/armature/pkg/errors"
	"github.com/armature-io/armature/pkg/logger"
)

const dialTimeout = 15 * time.Second

// Client bundles the SSH connection and the SFTP subsystem client opened
// over it. Closing the Client closes both.
type Client struct {
	sshClient  *ssh.Client
	sftpClient *pkgsftp.Client
	logger     *zap.Logger
}

// Connect dials the server and opens an SFTP session. Config problems
// (unreadable key file, unknown auth mode) fail before any network I/O.
func Connect(ctx context.Context, cfg *config.SFTPConfig) (*Client, error) {
	if cfg == nil {
		return nil, errors.New(errors.ErrorTypeConfig, "sftp config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "invalid sftp config")
	}

	methods, err := authMethods(cfg)
	if err != nil {
		return nil, err
	}

	hostKeyCallback, err := hostKeyPolicy(cfg)
	if err != nil {
		return nil, err
	}

	sshConfig := &ssh.ClientConfig{
		User:            cfg.Username,
		Auth:            methods,
		HostKeyCallback: hostKeyCallback,
		Timeout:         dialTimeout,
	}

	addr := cfg.Addr()
	conn, err := (&net.Dialer{Timeout: dialTimeout}).DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConnection, "failed to dial sftp server").
			WithDetail("addr", addr)
	}

	sshConn, chans, reqs, err := ssh.NewClientConn(conn, addr, sshConfig)
	if err != nil {
		_ = conn.Close()
		return nil, errors.Wrap(err, errors.ErrorTypeAuthentication, "ssh handshake failed").
			WithDetail("addr", addr).
			WithDetail("auth_type", string(cfg.AuthMode()))
	}
	sshClient := ssh.NewClient(sshConn, chans, reqs)

	sftpClient, err := pkgsftp.NewClient(sshClient)
	if err != nil {
		_ = sshClient.Close()
		return nil, errors.Wrap(err, errors.ErrorTypeConnection, "failed to open sftp subsystem")
	}

	log := logger.WithBackend("sftp").With(zap.String("addr", addr))
	log.Info("sftp session established", zap.String("auth_type", string(cfg.AuthMode())))

	return &Client{
		sshClient:  sshClient,
		sftpClient: sftpClient,
		logger:     log,
	}, nil
}

// SFTP returns the underlying SFTP client for file operations.
func (c *Client) SFTP() *pkgsftp.Client {
	return c.sftpClient
}

// Close closes the SFTP session and the SSH connection beneath it.
func (c *Client) Close() error {
	sftpErr := c.sftpClient.Close()
	sshErr := c.sshClient.Close()
	if sftpErr != nil {
		return sftpErr
	}
	return sshErr
}

// authMethods builds the SSH auth method list for the configured mode.
// password_and_key lists the key first so key auth is attempted before the
// password fallback.
func authMethods(cfg *config.SFTPConfig) ([]ssh.AuthMethod, error) {
	switch cfg.AuthMode() {
	case config.SFTPAuthPassword:
		return []ssh.AuthMethod{ssh.Password(cfg.Password)}, nil

	case config.SFTPAuthPrivateKey:
		signer, err := loadSigner(cfg)
		if err != nil {
			return nil, err
		}
		return []ssh.AuthMethod{ssh.PublicKeys(signer)}, nil

	case config.SFTPAuthPasswordAndKey:
		signer, err := loadSigner(cfg)
		if err != nil {
			return nil, err
		}
		return []ssh.AuthMethod{ssh.PublicKeys(signer), ssh.Password(cfg.Password)}, nil

	default:
		return nil, errors.Newf(errors.ErrorTypeConfig, "unsupported auth_type: %s", cfg.AuthType)
	}
}

// loadSigner reads and parses the configured private key file.
func loadSigner(cfg *config.SFTPConfig) (ssh.Signer, error) {
	keyBytes, err := os.ReadFile(cfg.PrivateKeyPath)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "failed to read private key").
			WithDetail("path", cfg.PrivateKeyPath)
	}

	var signer ssh.Signer
	if cfg.PrivateKeyPassphrase != "" {
		signer, err = ssh.ParsePrivateKeyWithPassphrase(keyBytes, []byte(cfg.PrivateKeyPassphrase))
	} else {
		signer, err = ssh.ParsePrivateKey(keyBytes)
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "failed to parse private key").
			WithDetail("path", cfg.PrivateKeyPath)
	}
	return signer, nil
}

// hostKeyPolicy returns the host key callback: known_hosts verification when
// a path is configured, otherwise accept-any.
func hostKeyPolicy(cfg *config.SFTPConfig) (ssh.HostKeyCallback, error) {
	if cfg.KnownHostsPath == "" {
		return ssh.InsecureIgnoreHostKey(), nil
	}
	callback, err := knownhosts.New(cfg.KnownHostsPath)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "failed to load known_hosts").
			WithDetail("path", cfg.KnownHostsPath)
	}
	return callback, nil
}
