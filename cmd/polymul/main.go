// Command polymul benchmarks schoolbook against Karatsuba polynomial
// multiplication, prints worked examples, calibrates the Karatsuba threshold
// and serves multiplications over HTTP.
package main

import (
	"context"
	"os"

	"github.com/agbru/polymul/internal/app"
	apperrors "github.com/agbru/polymul/internal/errors"
)

func main() {
	os.Exit(run(os.Args))
}

func run(args []string) int {
	if app.HasVersionFlag(args[1:]) {
		app.PrintVersion(os.Stdout)
		return apperrors.ExitSuccess
	}

	application, err := app.New(args, os.Stderr)
	if err != nil {
		if app.IsHelpError(err) {
			return apperrors.ExitSuccess
		}
		return apperrors.ExitErrorConfig
	}

	return application.Run(context.Background(), os.Stdout)
}
