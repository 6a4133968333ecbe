package storage

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net"
	"os"
	"path"
	"strings"
	"time"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"

	"vodforge/models"
)

// sftpStore drops artifacts on a remote host over SFTP. Keys are joined
// under the configured base directory using posix separators.
type sftpStore struct {
	cfg models.StoreConfig
}

func newSFTPStore(cfg models.StoreConfig) (*sftpStore, error) {
	if cfg.Host == "" || cfg.User == "" {
		return nil, fmt.Errorf("sftp store missing host or user")
	}
	if cfg.Password == "" && cfg.PrivateKey == "" {
		return nil, fmt.Errorf("sftp store missing password or privateKey")
	}
	return &sftpStore{cfg: cfg}, nil
}

func (s *sftpStore) connect(ctx context.Context) (*sftp.Client, *ssh.Client, error) {
	var auths []ssh.AuthMethod
	if s.cfg.PrivateKey != "" {
		keyBytes, err := base64.StdEncoding.DecodeString(s.cfg.PrivateKey)
		if err != nil {
			keyBytes = []byte(s.cfg.PrivateKey)
		}
		signer, err := ssh.ParsePrivateKey(keyBytes)
		if err != nil {
			return nil, nil, fmt.Errorf("parse private key: %w", err)
		}
		auths = append(auths, ssh.PublicKeys(signer))
	} else {
		auths = append(auths, ssh.Password(s.cfg.Password))
	}

	port := s.cfg.Port
	if port == "" {
		port = "22"
	}
	addr := net.JoinHostPort(s.cfg.Host, port)

	sshConfig := &ssh.ClientConfig{
		User:            s.cfg.User,
		Auth:            auths,
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         10 * time.Second,
	}

	d := net.Dialer{}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, nil, fmt.Errorf("dial tcp %s: %w", addr, err)
	}
	clientConn, chans, reqs, err := ssh.NewClientConn(conn, addr, sshConfig)
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("ssh handshake with %s: %w", addr, err)
	}
	sshClient := ssh.NewClient(clientConn, chans, reqs)

	sftpClient, err := sftp.NewClient(sshClient)
	if err != nil {
		sshClient.Close()
		return nil, nil, fmt.Errorf("create sftp client: %w", err)
	}
	return sftpClient, sshClient, nil
}

func (s *sftpStore) remotePath(key string) string {
	return path.Join(s.cfg.BaseDir, key)
}

func (s *sftpStore) Download(ctx context.Context, key, localPath string) error {
	client, sshClient, err := s.connect(ctx)
	if err != nil {
		return err
	}
	defer sshClient.Close()
	defer client.Close()

	remote, err := client.Open(s.remotePath(key))
	if err != nil {
		return fmt.Errorf("open remote %s: %w", s.remotePath(key), err)
	}
	defer remote.Close()

	file, err := os.Create(localPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", localPath, err)
	}
	defer file.Close()

	if _, err := io.Copy(file, remote); err != nil {
		return fmt.Errorf("copy remote %s: %w", key, err)
	}
	return nil
}

func (s *sftpStore) Upload(ctx context.Context, localPath, key, contentType string) error {
	client, sshClient, err := s.connect(ctx)
	if err != nil {
		return err
	}
	defer sshClient.Close()
	defer client.Close()

	remote := s.remotePath(key)
	if err := mkdirAllSFTP(client, path.Dir(remote)); err != nil {
		return fmt.Errorf("ensure remote dir %s: %w", path.Dir(remote), err)
	}

	file, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", localPath, err)
	}
	defer file.Close()

	f, err := client.Create(remote)
	if err != nil {
		return fmt.Errorf("create remote file %s: %w", remote, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, file); err != nil {
		return fmt.Errorf("copy to remote file %s: %w", remote, err)
	}
	return nil
}

// mkdirAllSFTP mimics os.MkdirAll for an SFTP server by creating each
// segment of the path.
func mkdirAllSFTP(client *sftp.Client, dir string) error {
	if dir == "" || dir == "." || dir == "/" {
		return nil
	}

	parts := strings.Split(dir, "/")
	cur := ""
	if strings.HasPrefix(dir, "/") {
		cur = "/"
	}
	for _, p := range parts {
		if p == "" {
			continue
		}
		cur = path.Join(cur, p)
		if _, err := client.Stat(cur); err != nil {
			if os.IsNotExist(err) {
				if err := client.Mkdir(cur); err != nil {
					return fmt.Errorf("mkdir %s: %w", cur, err)
				}
			} else {
				return fmt.Errorf("stat %s: %w", cur, err)
			}
		}
	}
	return nil
}
