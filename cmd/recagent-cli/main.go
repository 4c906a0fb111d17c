// Command recagent-cli exercises the RecAgent client SDK from a terminal.
//
// Usage:
//
//	recagent-cli [--server <url>] login <username>        log in (prompts for password)
//	recagent-cli [--server <url>] login-email <email>     log in by email
//	recagent-cli [--server <url>] register <name> <email> create a pending account
//	recagent-cli [--server <url>] verify-email <token>    consume a verification token
//	recagent-cli [--server <url>] whoami                  show the cached identity
//	recagent-cli [--server <url>] profile                 fetch the authoritative profile
//	recagent-cli [--server <url>] update-research <institution> <tag>...
//	recagent-cli [--server <url>] update-password         change password (prompts twice)
//	recagent-cli [--server <url>] forgot-password <email> request a reset link
//	recagent-cli [--server <url>] reset-password <token>  consume a reset token
//	recagent-cli [--server <url>] logout                  drop the local session
//
// The server URL can also be set via RECAGENT_SERVER; a .env file in the
// working directory is loaded first. The session persists in
// ~/.recagent/session.json between invocations.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"golang.org/x/term"

	recagent "github.com/zhaxinji/recagent-client"
	"github.com/zhaxinji/recagent-client/session"
)

func main() {
	_ = godotenv.Load()

	fs := flag.NewFlagSet("recagent-cli", flag.ExitOnError)
	server := fs.String("server", os.Getenv("RECAGENT_SERVER"), "RecAgent server URL")
	verbose := fs.Bool("v", false, "log session events")
	fs.Usage = usage

	if err := fs.Parse(os.Args[1:]); err != nil {
		os.Exit(1)
	}

	args := fs.Args()
	if len(args) < 1 {
		usage()
		os.Exit(1)
	}

	if *server == "" {
		fmt.Fprintln(os.Stderr, "error: --server required (or set RECAGENT_SERVER)")
		os.Exit(1)
	}

	client, err := buildClient(*server, *verbose)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	defer client.Close()

	ctx := context.Background()
	if _, err := client.Bootstrap(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	if err := run(ctx, client, args[0], args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func buildClient(server string, verbose bool) (*recagent.Client, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home dir: %w", err)
	}

	builder := recagent.New().
		WithBaseURL(strings.TrimRight(server, "/")).
		WithKeyValue(session.NewFileKV(filepath.Join(home, ".recagent", "session.json"))).
		WithNavigator(recagent.NavigatorFunc(func(path string) {
			// Terminal sessions have no router; show where a UI would go.
			fmt.Fprintln(os.Stderr, "->", path)
		}))

	if verbose {
		logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
		builder = builder.WithAuditSink(recagent.NewZerologSink(logger))
	}

	return builder.Build()
}

func run(ctx context.Context, client *recagent.Client, subcmd string, args []string) error {
	switch subcmd {
	case "login":
		if len(args) < 1 {
			return fmt.Errorf("login: username required")
		}
		password, err := promptPassword("Password: ")
		if err != nil {
			return err
		}
		result, err := client.Login(ctx, args[0], password)
		if err != nil {
			return err
		}
		fmt.Printf("logged in as %s <%s>\n", result.User.Name, result.User.Email)
		return nil

	case "login-email":
		if len(args) < 1 {
			return fmt.Errorf("login-email: email required")
		}
		password, err := promptPassword("Password: ")
		if err != nil {
			return err
		}
		result, err := client.LoginWithEmail(ctx, args[0], password)
		if err != nil {
			return err
		}
		fmt.Printf("logged in as %s <%s>\n", result.User.Name, result.User.Email)
		return nil

	case "register":
		if len(args) < 2 {
			return fmt.Errorf("register: name and email required")
		}
		password, err := promptPassword("Password: ")
		if err != nil {
			return err
		}
		if err := client.Register(ctx, recagent.RegisterRequest{
			Name:     args[0],
			Email:    args[1],
			Password: password,
		}); err != nil {
			return err
		}
		fmt.Println("registered; check your inbox for the verification link")
		return nil

	case "verify-email":
		if len(args) < 1 {
			return fmt.Errorf("verify-email: token required")
		}
		result, err := client.VerifyEmail(ctx, args[0])
		if err != nil {
			return err
		}
		if result == nil {
			fmt.Println("email verified; log in to continue")
			return nil
		}
		fmt.Printf("email verified; logged in as %s\n", result.User.Name)
		return nil

	case "whoami":
		current := client.Sessions().Current()
		if !current.Authenticated() {
			fmt.Println("not logged in")
			return nil
		}
		return printJSON(current.Identity)

	case "profile":
		record, err := client.FetchProfile(ctx)
		if err != nil {
			return err
		}
		return printJSON(record)

	case "update-research":
		if len(args) < 1 {
			return fmt.Errorf("update-research: institution required")
		}
		record, err := client.UpdateResearch(ctx, recagent.UpdateResearchRequest{
			Institution:       args[0],
			ResearchInterests: args[1:],
		})
		if err != nil {
			return err
		}
		return printJSON(record)

	case "update-password":
		current, err := promptPassword("Current password: ")
		if err != nil {
			return err
		}
		next, err := promptPassword("New password: ")
		if err != nil {
			return err
		}
		if err := client.UpdatePassword(ctx, current, next); err != nil {
			return err
		}
		fmt.Println("password updated")
		return nil

	case "forgot-password":
		if len(args) < 1 {
			return fmt.Errorf("forgot-password: email required")
		}
		if err := client.ForgotPassword(ctx, args[0]); err != nil {
			return err
		}
		fmt.Println("reset link requested")
		return nil

	case "reset-password":
		if len(args) < 1 {
			return fmt.Errorf("reset-password: token required")
		}
		next, err := promptPassword("New password: ")
		if err != nil {
			return err
		}
		if err := client.ResetPassword(ctx, args[0], next); err != nil {
			return err
		}
		fmt.Println("password reset; log in with the new password")
		return nil

	case "logout":
		if err := client.Logout(ctx); err != nil {
			return err
		}
		fmt.Println("logged out")
		return nil

	default:
		usage()
		return fmt.Errorf("unknown subcommand: %s", subcmd)
	}
}

func promptPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	raw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}

	password := strings.TrimSpace(string(raw))
	if password == "" {
		return "", fmt.Errorf("empty password")
	}
	return password, nil
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: recagent-cli [--server <url>] [-v] <subcommand> [args]

subcommands:
  login <username>                    log in (prompts for password)
  login-email <email>                 log in by email
  register <name> <email>             create a pending account
  verify-email <token>                consume a verification token
  whoami                              show the cached identity
  profile                             fetch the authoritative profile
  update-research <institution> <tag>...
  update-password                     change password
  forgot-password <email>             request a reset link
  reset-password <token>              consume a reset token
  logout                              drop the local session`)
}
