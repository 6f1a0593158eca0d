package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/mediq-health/mediq/internal/api"
	"github.com/spf13/cobra"
)

var (
	authEmail       string
	authPassword    string
	signupName      string
	signupInstitute string
	signupInterests string
	signupCreds     string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to the MedIQ research API",
	RunE: func(cmd *cobra.Command, args []string) error {
		email, password, err := resolveCredentials()
		if err != nil {
			return err
		}

		tok, err := newClient().Login(context.Background(), api.LoginRequest{
			Email:    email,
			Password: password,
		})
		if err != nil {
			return err
		}

		if err := credStore().Save(tok); err != nil {
			return err
		}
		fmt.Printf("Logged in as %s <%s>\n", tok.Researcher.FullName, tok.Researcher.Email)
		return nil
	},
}

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Register a researcher account",
	RunE: func(cmd *cobra.Command, args []string) error {
		if signupName == "" {
			return fmt.Errorf("--name is required")
		}
		email, password, err := resolveCredentials()
		if err != nil {
			return err
		}

		req := api.SignupRequest{
			Email:    email,
			Password: password,
			FullName: signupName,
		}
		if signupInstitute != "" {
			req.Institution = &signupInstitute
		}
		if signupInterests != "" {
			req.ResearchInterests = &signupInterests
		}
		if signupCreds != "" {
			req.Credentials = &signupCreds
		}

		tok, err := newClient().Signup(context.Background(), req)
		if err != nil {
			return err
		}

		if err := credStore().Save(tok); err != nil {
			return err
		}
		fmt.Printf("Account created for %s <%s>\n", tok.Researcher.FullName, tok.Researcher.Email)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the saved token and session selection",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := credStore().Clear(); err != nil {
			return err
		}

		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()
		if err := db.ClearActiveSessionID(); err != nil {
			return err
		}

		fmt.Println("Logged out.")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in researcher",
	RunE: func(cmd *cobra.Command, args []string) error {
		creds, err := credStore().Load()
		if err != nil {
			return err
		}
		if creds == nil || creds.Researcher == nil {
			fmt.Println("Not logged in. Run 'mediq login'.")
			return nil
		}

		r := creds.Researcher
		fmt.Printf("%s <%s>\n", r.FullName, r.Email)
		if r.Institution != nil && *r.Institution != "" {
			fmt.Printf("Institution: %s\n", *r.Institution)
		}
		fmt.Printf("Verified: %v\n", r.IsVerified)
		fmt.Printf("Token expires: %s\n", creds.ExpiresAt)
		return nil
	},
}

// resolveCredentials uses flags when given and prompts otherwise. The password
// prompt reads a single line from stdin.
func resolveCredentials() (email, password string, err error) {
	reader := bufio.NewReader(os.Stdin)

	email = authEmail
	if email == "" {
		fmt.Print("Email: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return "", "", fmt.Errorf("reading email: %w", err)
		}
		email = strings.TrimSpace(line)
	}
	if email == "" {
		return "", "", fmt.Errorf("email is required")
	}

	password = authPassword
	if password == "" {
		fmt.Print("Password: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return "", "", fmt.Errorf("reading password: %w", err)
		}
		password = strings.TrimSpace(line)
	}
	if password == "" {
		return "", "", fmt.Errorf("password is required")
	}

	return email, password, nil
}

func init() {
	loginCmd.Flags().StringVar(&authEmail, "email", "", "Researcher email")
	loginCmd.Flags().StringVar(&authPassword, "password", "", "Password (prompted when omitted)")

	signupCmd.Flags().StringVar(&authEmail, "email", "", "Researcher email")
	signupCmd.Flags().StringVar(&authPassword, "password", "", "Password (prompted when omitted)")
	signupCmd.Flags().StringVar(&signupName, "name", "", "Full name")
	signupCmd.Flags().StringVar(&signupInstitute, "institution", "", "Institution")
	signupCmd.Flags().StringVar(&signupInterests, "interests", "", "Research interests")
	signupCmd.Flags().StringVar(&signupCreds, "credentials", "", "Credentials (e.g. MD, PhD)")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(signupCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
}
