// tokengen issues a signed bearer token for the bot admin API.
//
// The signing secret comes from BOTADMIN_AUTH_SECRET or the config file, so
// tokens minted here verify against a running server using the same config.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"botadmin/internal/auth"
	"botadmin/internal/config"
)

func main() {
	subject := flag.String("subject", "admin", "token subject")
	role := flag.String("role", "admin", "token role")
	ttlHours := flag.Int("ttl", 24, "token lifetime in hours")
	cfgPath := flag.String("config", "config/config.yaml", "config file path")
	flag.Parse()

	_ = godotenv.Load()

	secret := os.Getenv("BOTADMIN_AUTH_SECRET")
	if secret == "" {
		cfg, err := config.Load(*cfgPath, false)
		if err != nil {
			fmt.Fprintf(os.Stderr, "load config: %v\n", err)
			os.Exit(1)
		}
		secret = cfg.Auth.Secret
	}
	if secret == "" {
		fmt.Fprintln(os.Stderr, "no signing secret configured (set BOTADMIN_AUTH_SECRET)")
		os.Exit(1)
	}

	tokens := auth.Tokens{Secret: []byte(secret)}
	token, expiresAt, err := tokens.Issue(*subject, *role, time.Duration(*ttlHours)*time.Hour)
	if err != nil {
		fmt.Fprintf(os.Stderr, "issue token: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(token)
	fmt.Fprintf(os.Stderr, "subject=%s role=%s expires=%s\n", *subject, *role, expiresAt.Format(time.RFC3339))
}
