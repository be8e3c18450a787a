package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lumora-ai/voicechat/pkg/archive"
)

type turnsCommander struct {
	dbPath string
}

func newTurnsCmd() *cobra.Command {
	cmder := &turnsCommander{}

	cmd := &cobra.Command{
		Use:   "turns",
		Short: "List archived conversation turns from a SQLite archive",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmder.run(cmd)
		},
	}

	cmd.Flags().StringVarP(&cmder.dbPath, "db", "d", "", "Path to the SQLite turn archive")
	cmd.MarkFlagRequired("db")

	return cmd
}

func (c *turnsCommander) run(cmd *cobra.Command) error {
	store, err := archive.NewSQLiteStore(c.dbPath)
	if err != nil {
		return fmt.Errorf("could not open archive %s: %w", c.dbPath, err)
	}
	defer store.Close()

	records, err := store.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("could not list turns: %w", err)
	}

	if len(records) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No archived turns.")
		return nil
	}

	for _, rec := range records {
		fmt.Fprintf(cmd.OutOrStdout(), "[%d] %s (%dms)\n  user: %s\n  reply: %s\n",
			rec.ID,
			rec.CreatedAt.Format("2006-01-02 15:04:05"),
			rec.DurationMS,
			rec.UserText,
			rec.Reply,
		)
	}

	return nil
}
