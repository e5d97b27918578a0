package cli

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/permanode/permastore/internal/auth"
)

// NewTokenCommand creates the token command group.
func NewTokenCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint and manage owner tokens",
	}
	cmd.AddCommand(newTokenMintCommand())
	cmd.AddCommand(newTokenKeygenCommand())
	return cmd
}

func newTokenMintCommand() *cobra.Command {
	var (
		keyPath  string
		issuer   string
		audience string
		ttl      time.Duration
	)

	cmd := &cobra.Command{
		Use:   "mint <scope>",
		Short: "Mint an owner token for a scope",
		Long: `Mint a signed owner token whose subject is the scope name.

The key file holds a base64 Ed25519 private key, as produced by
token keygen. The server verifies tokens against the matching public
key from PERMASTORE_AUTH_PUBLIC_KEY.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(keyPath)
			if err != nil {
				return fmt.Errorf("read key %s: %w", keyPath, err)
			}
			keyBytes, err := base64.StdEncoding.DecodeString(strings.TrimSpace(string(raw)))
			if err != nil {
				return fmt.Errorf("decode key: %w", err)
			}
			if len(keyBytes) != ed25519.PrivateKeySize {
				return fmt.Errorf("key must be %d bytes, got %d", ed25519.PrivateKeySize, len(keyBytes))
			}

			token, err := auth.Issuer{
				IssuerName: issuer,
				Audience:   audience,
				Key:        ed25519.PrivateKey(keyBytes),
				TTL:        ttl,
			}.Mint(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&keyPath, "key", "", "path to a base64 Ed25519 private key")
	cmd.Flags().StringVar(&issuer, "issuer", "permastore", "token issuer name")
	cmd.Flags().StringVar(&audience, "audience", "permastore", "token audience")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "token lifetime")
	_ = cmd.MarkFlagRequired("key")

	return cmd
}

func newTokenKeygenCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "keygen",
		Short: "Generate an Ed25519 signing key pair",
		Long: `Generate a fresh Ed25519 key pair as base64.

The private key signs owner tokens with token mint. The public key goes
in the server's PERMASTORE_AUTH_PUBLIC_KEY environment variable.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			public, private, err := ed25519.GenerateKey(rand.Reader)
			if err != nil {
				return fmt.Errorf("generate key: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "private: %s\n", base64.StdEncoding.EncodeToString(private))
			fmt.Fprintf(cmd.OutOrStdout(), "public:  %s\n", base64.StdEncoding.EncodeToString(public))
			return nil
		},
	}
}
