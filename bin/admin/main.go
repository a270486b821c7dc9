// scriptcore-admin runs admin console commands on a running server over SSH,
// and hashes passwords for the admin.users configuration.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/ssh"
	"golang.org/x/term"
)

func main() {
	defaultUser := ""
	if u, err := user.Current(); err == nil {
		defaultUser = u.Username
	}
	homeDir, _ := os.UserHomeDir()

	addr := flag.String("addr", "127.0.0.1:15000", "Address of the admin console")
	username := flag.String("user", defaultUser, "Admin user name")
	keyPath := flag.String("key", filepath.Join(homeDir, ".ssh", "id_ed25519"), "Private key to authenticate with, if it exists")
	hostKey := flag.String("host-key", "", "Expected host key, as written to host_key.pub. Unchecked if empty")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <command> [args...]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Commands:\n")
		fmt.Fprintf(os.Stderr, "  hash-password          Print a bcrypt hash of a password read from the terminal\n")
		fmt.Fprintf(os.Stderr, "  <console command>      Run a console command, e.g. 'reload boss_warden' or 'help'\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	args := flag.Args()
	if len(args) < 1 {
		flag.Usage()
		os.Exit(1)
	}

	switch args[0] {
	case "hash-password":
		if err := hashPassword(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	default:
		if err := run(*addr, *username, *keyPath, *hostKey, commandLine(args)); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
}

// commandLine quotes args so the console splits them back the same way.
func commandLine(args []string) string {
	quoted := make([]string, len(args))
	for i, arg := range args {
		if arg == "" || strings.ContainsAny(arg, " \t\n'\"\\$`") {
			arg = "'" + strings.ReplaceAll(arg, "'", `'\''`) + "'"
		}
		quoted[i] = arg
	}
	return strings.Join(quoted, " ")
}

func readPassword(prompt string) ([]byte, error) {
	fmt.Fprint(os.Stderr, prompt)
	defer fmt.Fprintln(os.Stderr)
	return term.ReadPassword(int(os.Stdin.Fd()))
}

func hashPassword() error {
	password, err := readPassword("Password: ")
	if err != nil {
		return err
	}
	repeated, err := readPassword("Repeat password: ")
	if err != nil {
		return err
	}
	if string(password) != string(repeated) {
		return fmt.Errorf("passwords don't match")
	}
	hash, err := bcrypt.GenerateFromPassword(password, bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	fmt.Println(string(hash))
	return nil
}

func hostKeyCallback(hostKey string) (ssh.HostKeyCallback, error) {
	if hostKey == "" {
		return ssh.InsecureIgnoreHostKey(), nil
	}
	raw, err := os.ReadFile(hostKey)
	if err != nil {
		return nil, err
	}
	key, _, _, _, err := ssh.ParseAuthorizedKey(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", hostKey, err)
	}
	return ssh.FixedHostKey(key), nil
}

func run(addr, username, keyPath, hostKey, command string) error {
	callback, err := hostKeyCallback(hostKey)
	if err != nil {
		return err
	}
	auth := []ssh.AuthMethod{}
	if pemBytes, err := os.ReadFile(keyPath); err == nil {
		signer, err := ssh.ParsePrivateKey(pemBytes)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", keyPath, err)
		}
		auth = append(auth, ssh.PublicKeys(signer))
	}
	auth = append(auth, ssh.PasswordCallback(func() (string, error) {
		password, err := readPassword(fmt.Sprintf("Password for %s@%s: ", username, addr))
		return string(password), err
	}))

	client, err := ssh.Dial("tcp", addr, &ssh.ClientConfig{
		User:            username,
		Auth:            auth,
		HostKeyCallback: callback,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", addr, err)
	}
	defer client.Close()

	sess, err := client.NewSession()
	if err != nil {
		return err
	}
	defer sess.Close()
	sess.Stdout = os.Stdout
	sess.Stderr = os.Stderr
	if err := sess.Run(command); err != nil {
		if _, ok := err.(*ssh.ExitError); ok {
			os.Exit(1)
		}
		return err
	}
	return nil
}

