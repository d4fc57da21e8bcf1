package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"scribe/internal/ipc"
)

func newControlCommands(ctx *commandContext) []*cobra.Command {
	toggleCmd := &cobra.Command{
		Use:   "toggle",
		Short: "Start recording, or stop and transcribe",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				if err := client.Toggle(); err != nil {
					return err
				}
				state, err := client.Status()
				if err != nil {
					return err
				}
				switch state {
				case "recording":
					fmt.Fprintln(cmd.OutOrStdout(), "Recording started")
				case "processing":
					fmt.Fprintln(cmd.OutOrStdout(), "Recording stopped, transcribing...")
				default:
					fmt.Fprintln(cmd.OutOrStdout(), "Toggle sent")
				}
				return nil
			})
		},
	}

	cancelCmd := &cobra.Command{
		Use:   "cancel",
		Short: "Discard the active recording",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				if err := client.Cancel(); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Cancel sent")
				return nil
			})
		},
	}

	return []*cobra.Command{toggleCmd, cancelCmd}
}
