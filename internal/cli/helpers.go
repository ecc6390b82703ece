package cli

import (
	"context"
	"log"

	"github.com/spf13/cobra"
)

// withApp opens the app context for the duration of one command.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, app *AppContext) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	app, err := NewAppContext(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(context.Background()); err != nil {
			log.Printf("Close error: %v", err)
		}
	}()

	return fn(ctx, app)
}
