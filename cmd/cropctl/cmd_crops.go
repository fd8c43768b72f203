package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yanqian/crop-advisor/internal/domain/crop"
)

func (c *cli) cropsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "crops",
		Short: "List the crops the model can recommend, by index",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, item := range crop.Crops() {
				if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%2d  %s\n", item.Index(), item); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
