package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"feedbackgen/pkg/prompt"
)

var clearConfirmed bool

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse, export and clear generated feedback",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List feedback, newest first",
	RunE:  runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print one feedback as it would be copied",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the whole history (irreversible)",
	RunE:  runHistoryClear,
}

var historyExportCmd = &cobra.Command{
	Use:   "export <file.xlsx>",
	Short: "Write the history to an Excel workbook",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryExport,
}

func init() {
	historyClearCmd.Flags().BoolVar(&clearConfirmed, "yes", false, "confirm deletion")
	historyCmd.AddCommand(historyListCmd, historyShowCmd, historyClearCmd, historyExportCmd)
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	list := application.History.ListDescending()
	if len(list) == 0 {
		fmt.Fprintln(out, "Nenhum feedback no histórico.")
		return nil
	}
	for _, rec := range list {
		mark := " "
		if rec.EditedFeedback != nil {
			mark = "*"
		}
		fmt.Fprintf(out, "%s %s  %s  %-20s  %-20s  %5s\n", mark, rec.ID, rec.CreatedAt.Format("2006-01-02 15:04"),
			truncate(rec.StudentName, 20), truncate(rec.ActivityTitle, 20), prompt.FormatGrade(rec.Grade))
	}
	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	rec, ok := application.History.Get(args[0])
	if !ok {
		return fmt.Errorf("feedback %s não encontrado", args[0])
	}
	printFeedback(cmd, *rec)
	return nil
}

func runHistoryClear(cmd *cobra.Command, args []string) error {
	if !clearConfirmed {
		return errors.New("a limpeza do histórico é irreversível, repita com --yes")
	}
	n := application.History.Len()
	if err := application.Feedback.ClearHistory(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d feedback(s) removido(s).\n", n)
	return nil
}

func runHistoryExport(cmd *cobra.Command, args []string) error {
	f, err := os.Create(args[0])
	if err != nil {
		return err
	}
	if err := application.History.ExportXLSX(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("export: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d feedback(s) exportado(s) para %s\n", application.History.Len(), args[0])
	return nil
}
