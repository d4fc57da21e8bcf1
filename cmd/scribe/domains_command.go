package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"scribe/internal/transcribe"
)

func newDomainsCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "domains",
		Short:       "List available transcription domains",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := make([][]string, 0, len(transcribe.AllDomains))
			for _, domain := range transcribe.AllDomains {
				rows = append(rows, []string{string(domain), domain.Label()})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Domain", "Description"}, rows))
			return nil
		},
	}
}
