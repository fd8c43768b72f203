package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/yanqian/crop-advisor/internal/domain/crop"
	"github.com/yanqian/crop-advisor/internal/domain/session"
)

func (c *cli) interactiveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "interactive",
		Aliases: []string{"i"},
		Short:   "Fill in the form field by field in the terminal",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := session.New(uuid.NewString(), c.recommender(), c.logger)
			defer s.Close()

			err := c.runForm(cmd, s)
			if errors.Is(err, errAborted) {
				return nil
			}
			return err
		},
	}
}

func (c *cli) runForm(cmd *cobra.Command, s *session.Session) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	values := crop.FormValues{}
	for {
		for _, spec := range crop.Fields() {
			v, err := c.prompter.Field(ctx, spec, values[spec.Key])
			if err != nil {
				return err
			}
			values[spec.Key] = v
		}

		view, err := s.Submit(ctx, values)
		if err != nil {
			return err
		}
		renderView(out, view)

		again, err := c.prompter.Confirm(ctx, "Try another set of readings?")
		if err != nil || !again {
			return err
		}
	}
}

// renderView prints field errors when present, otherwise the single result panel.
func renderView(w io.Writer, view session.View) {
	invalid := false
	for _, f := range view.Fields {
		if f.Error != "" {
			invalid = true
			fmt.Fprintf(w, "%s: %s\n", f.Spec.Label, f.Error)
		}
	}
	if invalid {
		return
	}
	switch view.Result.Kind {
	case session.ResultCrop:
		fmt.Fprintf(w, "Recommended Crop: %s\n", view.Result.Crop)
	case session.ResultError:
		fmt.Fprintf(w, "Error: %s\n", view.Result.Message)
	}
}
