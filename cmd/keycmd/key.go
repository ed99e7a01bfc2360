// Copyright (C) 2022, Lux Partners Limited, All rights reserved.
// See the file LICENSE for licensing terms.
package keycmd

import (
	"fmt"

	"github.com/luxfi/rsvctl/pkg/application"
	"github.com/spf13/cobra"
)

var app *application.App

func NewCmd(injectedApp *application.App) *cobra.Command {
	app = injectedApp

	cmd := &cobra.Command{
		Use:   "key",
		Short: "Show the accounts rsvctl signs with",
		Long: `The key command suite shows the owner, daily and temp accounts derived from
the configured mnemonic or private keys.

The owner account controls every contract once a fork completes, the daily
account operates the Manager and the temp account deploys the new
generation during the first half of a fork.`,
		Run: func(cmd *cobra.Command, args []string) {
			err := cmd.Help()
			if err != nil {
				fmt.Println(err)
			}
		},
	}

	// rsvctl key list
	cmd.AddCommand(newListCmd())

	return cmd
}
