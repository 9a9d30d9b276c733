package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/studycam/api/pkg/identity"
)

func main() {
	// Flags for customization
	secret := flag.String("secret", os.Getenv("AUTH_TOKEN_SECRET"), "Identity token secret (defaults to AUTH_TOKEN_SECRET)")
	userID := flag.String("user", "dev-user", "User ID for the token")
	issuer := flag.String("issuer", "studycam", "Token issuer")
	ttl := flag.Duration("ttl", 7*24*time.Hour, "Token lifetime (default: 7 days)")
	outputJSON := flag.Bool("json", false, "Output as JSON")

	flag.Parse()

	if *secret == "" {
		fmt.Fprintln(os.Stderr, "Error: no secret provided")
		fmt.Fprintln(os.Stderr, "\nSet AUTH_TOKEN_SECRET or pass -secret")
		os.Exit(1)
	}

	svc, err := identity.NewService(identity.Config{
		Secret: *secret,
		Issuer: *issuer,
		TTL:    *ttl,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating identity service: %v\n", err)
		os.Exit(1)
	}

	token, err := svc.Sign(*userID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error signing token: %v\n", err)
		os.Exit(1)
	}

	if *outputJSON {
		output := map[string]any{
			"access_token": token,
			"token_type":   "Bearer",
			"expires_in":   int(ttl.Seconds()),
			"user_id":      *userID,
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(output)
	} else {
		expTime := time.Now().Add(*ttl)
		fmt.Println("Identity Token Generated")
		fmt.Println("========================")
		fmt.Printf("User ID:  %s\n", *userID)
		fmt.Printf("Expires:  %s\n", expTime.Format(time.RFC3339))
		fmt.Println()
		fmt.Println("Token:")
		fmt.Println(token)
		fmt.Println()
		fmt.Println("Usage:")
		fmt.Printf("  curl -H 'Authorization: Bearer %s' http://localhost:8080/v1/rooms\n", token[:50]+"...")
	}
}
