package main

import (
	"fmt"
	"strings"

	"github.com/Adda-Baaj/vk-fetch/internal/output"
	"github.com/Adda-Baaj/vk-fetch/pkg/vkapi"
	"github.com/spf13/cobra"
)

func newCallCmd(opts *rootOptions) *cobra.Command {
	var rawParams []string

	cmd := &cobra.Command{
		Use:   "call <method>",
		Short: "Call any API method and print its raw response payload",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := output.ParseFormat(opts.format)
			if err != nil {
				return err
			}
			params, err := parseParams(rawParams)
			if err != nil {
				return err
			}

			runner, cleanup, err := newRunner(cmd, opts.token)
			if err != nil {
				return err
			}
			defer cleanup()

			payload, err := runner.Call(cmd.Context(), args[0], params)
			if err != nil {
				return reportFailure(cmd.OutOrStdout(), err)
			}
			return output.WriteRaw(cmd.OutOrStdout(), format, payload)
		},
	}

	cmd.Flags().StringArrayVarP(&rawParams, "param", "p", nil, "Method parameter as key=value (repeatable)")
	return cmd
}

func parseParams(raw []string) (vkapi.Params, error) {
	params := make(vkapi.Params, len(raw))
	for _, kv := range raw {
		key, value, ok := strings.Cut(kv, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --param %q (expected key=value)", kv)
		}
		params[key] = value
	}
	return params, nil
}
