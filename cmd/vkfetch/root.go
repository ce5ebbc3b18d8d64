package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/Adda-Baaj/vk-fetch/internal/app"
	"github.com/Adda-Baaj/vk-fetch/internal/config"
	"github.com/Adda-Baaj/vk-fetch/internal/logger"
	"github.com/Adda-Baaj/vk-fetch/internal/output"
	"github.com/Adda-Baaj/vk-fetch/pkg/vkapi"
	"github.com/spf13/cobra"
)

// rootOptions holds the flags shared by every command.
type rootOptions struct {
	token  string
	format string
}

// NewRootCmd constructs the root CLI command; exposed for unit testing.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}
	var userID, method string

	rootCmd := &cobra.Command{
		Use:           "vkfetch",
		Short:         "Fetch user information from VK API",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runFetch(cmd, opts, method, userID)
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.token, "token", "", "VK OAuth access token (required)")
	rootCmd.PersistentFlags().StringVarP(&opts.format, "output", "o", output.FormatText, "Output format: text, json or yaml")
	_ = rootCmd.MarkPersistentFlagRequired("token")

	rootCmd.Flags().StringVar(&userID, "user-id", "", "VK user ID (required)")
	rootCmd.Flags().StringVar(&method, "method", "", "Data to fetch: "+strings.Join(app.Methods(), " or ")+" (required)")
	_ = rootCmd.MarkFlagRequired("user-id")
	_ = rootCmd.MarkFlagRequired("method")

	rootCmd.AddCommand(newCallCmd(opts))
	return rootCmd
}

func runFetch(cmd *cobra.Command, opts *rootOptions, method, userID string) error {
	method = strings.ToLower(strings.TrimSpace(method))
	if !validMethod(method) {
		return fmt.Errorf("invalid --method %q (choose from %s)", method, strings.Join(app.Methods(), ", "))
	}
	format, err := output.ParseFormat(opts.format)
	if err != nil {
		return err
	}

	runner, cleanup, err := newRunner(cmd, opts.token)
	if err != nil {
		return err
	}
	defer cleanup()

	res, err := runner.Fetch(cmd.Context(), method, userID)
	if err != nil {
		return reportFailure(cmd.OutOrStdout(), err)
	}

	return output.WriteList(cmd.OutOrStdout(), format, output.List{
		Method:   res.Method,
		UserID:   res.UserID,
		Title:    res.Title,
		Items:    res.Items,
		NewItems: res.NewItems,
	})
}

func validMethod(method string) bool {
	for _, m := range app.Methods() {
		if m == method {
			return true
		}
	}
	return false
}

// newRunner loads config, initializes logging and builds the runtime.
func newRunner(cmd *cobra.Command, token string) (*app.Runner, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	log, err := logger.InitWriter(cfg, cmd.ErrOrStderr())
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}

	runner, err := app.NewRunner(cmd.Context(), cfg, log, app.Options{
		Token:       token,
		Diagnostics: cmd.OutOrStdout(),
	})
	if err != nil {
		logger.ErrorObj("failed to initialize runner", "error", err)
		_ = logger.Close()
		return nil, nil, err
	}

	cleanup := func() {
		_ = runner.Close()
		_ = logger.Close()
	}
	return runner, cleanup, nil
}

// reportFailure prints an APIError that reached the top level and ends the
// command normally; any other error is returned to the caller.
func reportFailure(w io.Writer, err error) error {
	apiErr, ok := vkapi.AsAPIError(err)
	if !ok {
		return err
	}
	fmt.Fprintf(w, "Operation failed: %s\n", apiErr.Message)
	return nil
}
