package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var activitiesCmd = &cobra.Command{
	Use:   "activities",
	Short: "Reusable activity prompts",
}

var activitiesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored activities in the order they were added",
	RunE:  runActivitiesList,
}

func init() {
	activitiesCmd.AddCommand(activitiesListCmd)
}

func runActivitiesList(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	list := application.Catalog.List()
	if len(list) == 0 {
		fmt.Fprintln(out, "Nenhuma atividade salva.")
		return nil
	}
	for _, a := range list {
		fmt.Fprintf(out, "%s  %-30s  %s\n", a.ID, truncate(a.Title, 30), truncate(oneLine(a.Content), 50))
	}
	return nil
}

func oneLine(s string) string { return strings.Join(strings.Fields(s), " ") }

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
