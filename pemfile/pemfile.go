package pemfile

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	"os"
	"path/filepath"

	"github.com/zond/scriptcore"

	gossh "golang.org/x/crypto/ssh"
)

type KeyParams struct {
	KeyPath       string
	SSHPubKeyPath string
}

// InDir returns the host key paths of dir.
func InDir(dir string) KeyParams {
	return KeyParams{
		KeyPath:       filepath.Join(dir, "host_key.pem"),
		SSHPubKeyPath: filepath.Join(dir, "host_key.pub"),
	}
}

func (k KeyParams) Generate() error {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return scriptcore.WithStack(err)
	}
	block, err := gossh.MarshalPrivateKey(priv, "")
	if err != nil {
		return scriptcore.WithStack(err)
	}
	if err := os.WriteFile(k.KeyPath, pem.EncodeToMemory(block), 0600); err != nil {
		return scriptcore.WithStack(err)
	}

	sshPub, err := gossh.NewPublicKey(pub)
	if err != nil {
		return scriptcore.WithStack(err)
	}
	if err := os.WriteFile(k.SSHPubKeyPath, gossh.MarshalAuthorizedKey(sshPub), 0600); err != nil {
		return scriptcore.WithStack(err)
	}
	return nil
}

// Signer loads the private key, generating the pair first if it is
// missing. generated reports whether that happened.
func (k KeyParams) Signer() (signer gossh.Signer, generated bool, err error) {
	if _, err := os.Stat(k.KeyPath); os.IsNotExist(err) {
		if err := os.MkdirAll(filepath.Dir(k.KeyPath), 0700); err != nil {
			return nil, false, scriptcore.WithStack(err)
		}
		if err := k.Generate(); err != nil {
			return nil, false, err
		}
		generated = true
	} else if err != nil {
		return nil, false, scriptcore.WithStack(err)
	}
	pemBytes, err := os.ReadFile(k.KeyPath)
	if err != nil {
		return nil, false, scriptcore.WithStack(err)
	}
	if signer, err = gossh.ParsePrivateKey(pemBytes); err != nil {
		return nil, false, scriptcore.WithStack(err)
	}
	return signer, generated, nil
}
