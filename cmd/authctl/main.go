package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/RGisanEclipse/neuronote-go/internal/domain/otp"
)

const usage = `usage: authctl <command> [flags]

commands:
  signup        -email <email> -password <password>
  signin        -email <email> -password <password>
  request-otp   -purpose <signup|forgot-password> [-email <email>]
  verify-otp    -code <code> -purpose <signup|forgot-password>
  reset         -password <new password>
  refresh
  whoami
  logout
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	app, err := initializeApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "authctl: %v\n", err)
		os.Exit(1)
	}

	if err := run(app, os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintf(os.Stderr, "authctl: %v\n", err)
		os.Exit(1)
	}
}

func run(app *App, command string, args []string) error {
	ctx := context.Background()

	switch command {
	case "signup", "signin":
		fs := flag.NewFlagSet(command, flag.ExitOnError)
		email := fs.String("email", "", "account email")
		password := fs.String("password", "", "account password")
		_ = fs.Parse(args)
		if command == "signup" {
			return app.signup(ctx, *email, *password)
		}
		return app.signin(ctx, *email, *password)

	case "request-otp":
		fs := flag.NewFlagSet(command, flag.ExitOnError)
		purpose := fs.String("purpose", "signup", "otp purpose: signup or forgot-password")
		email := fs.String("email", "", "account email (forgot-password only)")
		_ = fs.Parse(args)
		return app.requestOTP(ctx, parsePurpose(*purpose), *email)

	case "verify-otp":
		fs := flag.NewFlagSet(command, flag.ExitOnError)
		code := fs.String("code", "", "one-time code")
		purpose := fs.String("purpose", "signup", "otp purpose: signup or forgot-password")
		_ = fs.Parse(args)
		return app.verifyOTP(ctx, *code, parsePurpose(*purpose))

	case "reset":
		fs := flag.NewFlagSet(command, flag.ExitOnError)
		password := fs.String("password", "", "new password")
		_ = fs.Parse(args)
		return app.resetPassword(ctx, *password)

	case "refresh":
		return app.refresh(ctx)

	case "whoami":
		return app.whoami(ctx)

	case "logout":
		return app.logout(ctx)

	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

func parsePurpose(raw string) otp.Purpose {
	if raw == "forgot-password" {
		return otp.PurposeForgotPassword
	}
	return otp.PurposeSignup
}
