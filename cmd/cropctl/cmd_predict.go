package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/yanqian/crop-advisor/internal/domain/crop"
)

func (c *cli) predictCmd() *cobra.Command {
	var (
		raw    = make(map[crop.Key]*string, crop.FeatureCount)
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict a crop from flag values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			values := make(crop.FormValues, crop.FeatureCount)
			for key, v := range raw {
				values[key] = *v
			}
			resp, err := c.recommender().Recommend(cmd.Context(), crop.Request{Values: values})
			if err != nil {
				return describeError(cmd.ErrOrStderr(), err)
			}
			return printResponse(cmd.OutOrStdout(), resp, asJSON)
		},
	}
	for _, spec := range crop.Fields() {
		v := new(string)
		raw[spec.Key] = v
		cmd.Flags().StringVar(v, string(spec.Key), "", fmt.Sprintf("%s (e.g. %s)", spec.Label, spec.Placeholder))
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full response as JSON")
	return cmd
}

func printResponse(w io.Writer, resp crop.Response, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}
	_, err := fmt.Fprintln(w, resp.Crop.String())
	return err
}

// describeError lists per-field problems for validation failures before
// returning the error itself.
func describeError(w io.Writer, err error) error {
	var vErr *crop.ValidationError
	if errors.As(err, &vErr) {
		for _, spec := range crop.Fields() {
			if state := vErr.Form.Field(spec.Key); !state.Valid() {
				fmt.Fprintf(w, "  --%s: %s\n", spec.Key, state.Message)
			}
		}
	}
	return err
}
