package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"storecal/internal/config"
	"storecal/internal/web"
)

var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password",
	Short: "Hash a preview server password (argon2id)",
	Long: "Reads a password, prints its argon2id hash for basic_auth.password_hash and, " +
		"with --save, writes it into the config file.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		password, err := readPassword(cmd)
		if err != nil {
			return err
		}
		hash, err := web.HashPassword(password)
		if err != nil {
			return err
		}

		save, _ := cmd.Flags().GetBool("save")
		if !save {
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		}

		user, _ := cmd.Flags().GetString("user")
		if user == "" {
			return errors.New("--user is required with --save")
		}
		path, _ := cmd.Flags().GetString("config")
		cfg, err := config.Load(path)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg.BasicAuth = &config.BasicAuthConfig{Username: user, PasswordHash: hash}
		if err := config.Save(path, cfg); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "basic auth for %q saved to %s\n", user, path)
		return nil
	},
}

// readPassword prompts twice on a terminal. Piped input is read as a
// single line.
func readPassword(cmd *cobra.Command) (string, error) {
	in := cmd.InOrStdin()
	f, isFile := in.(*os.File)
	if !isFile || !term.IsTerminal(int(f.Fd())) {
		return readLine(in)
	}

	prompt := func(label string) (string, error) {
		fmt.Fprint(cmd.ErrOrStderr(), label)
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(cmd.ErrOrStderr())
		return string(b), err
	}
	password, err := prompt("Enter password:   ")
	if err != nil {
		return "", err
	}
	confirm, err := prompt("Confirm password: ")
	if err != nil {
		return "", err
	}
	if password != confirm {
		return "", errors.New("passwords do not match")
	}
	if password == "" {
		return "", errors.New("password cannot be empty")
	}
	return password, nil
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return "", errors.New("password cannot be empty")
	}
	return line, nil
}

func init() {
	hashPasswordCmd.Flags().Bool("save", false, "write the hash into the config file")
	hashPasswordCmd.Flags().String("user", "", "basic auth username (with --save)")
	rootCmd.AddCommand(hashPasswordCmd)
}
