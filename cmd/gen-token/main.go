// gen-token prints HS256 bearer tokens accepted by the API when it runs with
// AUTH_MODE=hs256.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bytedance/sonic"
	"github.com/golang-jwt/jwt/v4"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
)

type tokenOptions struct {
	secret   string
	audience string
	issuer   string
	ttl      time.Duration
}

func main() {
	var (
		count  int
		prefix string
		start  int
		output string
		opts   tokenOptions
	)
	flagSet := pflag.NewFlagSet("gen-token", pflag.ExitOnError)
	flagSet.IntVar(&count, "count", 1, "number of tokens to generate")
	flagSet.StringVar(&prefix, "prefix", "user", "prefix for generated user IDs when count > 1")
	flagSet.IntVar(&start, "start", 1, "starting index for generated user IDs when count > 1")
	flagSet.StringVar(&output, "output", "", "file to write generated tokens as a JSON array")
	flagSet.DurationVar(&opts.ttl, "ttl", time.Hour, "token lifetime")
	_ = flagSet.Parse(os.Args[1:])

	opts.secret = os.Getenv("AUTH_SHARED_SECRET")
	opts.audience = os.Getenv("AUTH0_AUDIENCE")
	if domain := os.Getenv("AUTH0_DOMAIN"); domain != "" {
		opts.issuer = "https://" + domain + "/"
	}

	if count < 1 {
		log.Fatal("count must be at least 1")
	}
	if start < 1 {
		log.Fatal("start index must be at least 1")
	}
	args := flagSet.Args()
	if len(args) > 0 && count > 1 {
		log.Fatal("explicit user ID cannot be provided when generating multiple tokens")
	}

	tokens, err := generateTokens(opts, userIDs(count, prefix, start, args), time.Now())
	if err != nil {
		log.Fatalf("generate token: %v", err)
	}
	if output != "" {
		if err := writeTokens(output, tokens); err != nil {
			log.Fatalf("write tokens: %v", err)
		}
	}
	fmt.Print(tokens[0])
}

func userIDs(count int, prefix string, start int, args []string) []string {
	if len(args) > 0 {
		return []string{args[0]}
	}
	if count == 1 {
		return []string{prefix}
	}
	ids := make([]string, count)
	for i := range ids {
		ids[i] = fmt.Sprintf("%s-%d", prefix, start+i)
	}
	return ids
}

func generateTokens(opts tokenOptions, ids []string, now time.Time) ([]string, error) {
	if opts.secret == "" {
		return nil, errors.New("AUTH_SHARED_SECRET must be set")
	}
	tokens := make([]string, len(ids))
	for i, id := range ids {
		claims := jwt.MapClaims{
			"sub": id,
			"iat": now.Unix(),
			"exp": now.Add(opts.ttl).Unix(),
		}
		if opts.audience != "" {
			claims["aud"] = opts.audience
		}
		if opts.issuer != "" {
			claims["iss"] = opts.issuer
		}
		tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(opts.secret))
		if err != nil {
			return nil, err
		}
		tokens[i] = tok
	}
	return tokens, nil
}

func writeTokens(path string, tokens []string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	data, err := sonic.Marshal(tokens)
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o600)
}
