// Command token-generator mints an access token for local development using
// the server's configured signing secret.
//
//	token-generator --user-id 3f0c... [--config config.yaml] [--lifetime 24h]
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/pflag"

	"github.com/phrazzld/scry-study/internal/config"
	"github.com/phrazzld/scry-study/internal/service/auth"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, "token-generator:", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	flags := pflag.NewFlagSet("token-generator", pflag.ContinueOnError)
	flags.String("config", "", "path to the server config file")
	userFlag := flags.String("user-id", "", "user id to embed (default: a new random id)")
	lifetime := flags.Duration("lifetime", 0, "token lifetime (default: auth.token_lifetime_minutes)")
	if err := flags.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(flags)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	userID := uuid.New()
	if *userFlag != "" {
		if userID, err = uuid.Parse(*userFlag); err != nil {
			return fmt.Errorf("invalid --user-id: %w", err)
		}
	}

	return mint(context.Background(), cfg.Auth, userID, *lifetime, out)
}

// mint writes the user id and a signed token to out.
func mint(ctx context.Context, cfg config.AuthConfig, userID uuid.UUID, lifetime time.Duration, out io.Writer) error {
	var opts []auth.Option
	if lifetime > 0 {
		opts = append(opts, auth.WithLifetime(lifetime))
	}
	svc, err := auth.NewJWTService(cfg, opts...)
	if err != nil {
		return err
	}

	token, err := svc.GenerateToken(ctx, userID)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "user_id: %s\ntoken: %s\n", userID, token)
	return err
}
