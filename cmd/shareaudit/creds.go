package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"shareaudit/auth"
)

func newCredsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "creds",
		Short: "Manage the encrypted application credential",
	}
	cmd.AddCommand(newCredsSetCommand(), newCredsShowCommand(), newCredsDeleteCommand())
	return cmd
}

func newCredsSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set",
		Short: "Store the tenant ID, client ID, and client secret encrypted at rest",
		RunE: func(cmd *cobra.Command, args []string) error {
			reader := bufio.NewReader(os.Stdin)
			creds := auth.Credentials{
				TenantID:     prompt(reader, "Tenant ID"),
				ClientID:     prompt(reader, "Client ID"),
				ClientSecret: prompt(reader, "Client Secret"),
			}
			if err := creds.Validate(); err != nil {
				return err
			}
			passphrase, err := resolvePassphrase()
			if err != nil {
				return err
			}
			path, err := credentialPath()
			if err != nil {
				return err
			}
			if err := auth.NewCredentialStore(path).Save(creds, passphrase); err != nil {
				return err
			}
			fmt.Printf("Credentials stored in %s\n", path)
			return nil
		},
	}
}

func newCredsShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the stored credential (secret masked)",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := credentialPath()
			if err != nil {
				return err
			}
			credStore := auth.NewCredentialStore(path)
			if !credStore.Exists() {
				return fmt.Errorf("no stored credentials at %s", path)
			}
			passphrase, err := resolvePassphrase()
			if err != nil {
				return err
			}
			creds, err := credStore.Load(passphrase)
			if err != nil {
				return err
			}
			fmt.Printf("Tenant ID:  %s\n", creds.TenantID)
			fmt.Printf("Client ID:  %s\n", creds.ClientID)
			fmt.Printf("Secret:     %s\n", maskSecret(creds.ClientSecret))
			return nil
		},
	}
}

func newCredsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete",
		Short: "Delete the stored credential",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := credentialPath()
			if err != nil {
				return err
			}
			credStore := auth.NewCredentialStore(path)
			if !credStore.Exists() {
				fmt.Println("No stored credentials found")
				return nil
			}
			if err := credStore.Delete(); err != nil {
				return err
			}
			fmt.Println("Stored credentials deleted")
			return nil
		},
	}
}

func credentialPath() (string, error) {
	if p := os.Getenv("SHAREAUDIT_CREDENTIALS_FILE"); p != "" {
		return p, nil
	}
	return auth.DefaultCredentialPath()
}

func resolvePassphrase() (string, error) {
	if p := os.Getenv("SHAREAUDIT_PASSPHRASE"); p != "" {
		return p, nil
	}
	return "", fmt.Errorf("SHAREAUDIT_PASSPHRASE is not set")
}

func prompt(reader *bufio.Reader, label string) string {
	fmt.Printf("%s: ", label)
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}

func maskSecret(s string) string {
	if len(s) <= 4 {
		return "****"
	}
	return s[:2] + strings.Repeat("*", len(s)-4) + s[len(s)-2:]
}
