package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"feedbackgen/entities"
	"feedbackgen/pkg/errdefs"
	"feedbackgen/pkg/feedback/service"
	"feedbackgen/pkg/prompt"
	"feedbackgen/pkg/textfile"
)

type generateFlags struct {
	name, uc, grade      string
	title, content, file string
	activityID           string
}

var genFlags generateFlags

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate feedback for one student",
	Long: `Generate feedback for one student and store it in the history.

The activity comes from exactly one of:
  --content      the prompt text
  --file         a plain-text file with the prompt
  --activity-id  an activity already in the catalog`,
	Example: `  feedbackctl generate --name Ana --uc Matemática --grade 8.5 --title "Prova 1" --file prova1.txt`,
	RunE: runGenerate,
}

func init() {
	f := generateCmd.Flags()
	f.StringVar(&genFlags.name, "name", "", "student name")
	f.StringVar(&genFlags.uc, "uc", "", "curricular unit")
	f.StringVar(&genFlags.grade, "grade", "", "grade from 0 to 10")
	f.StringVar(&genFlags.title, "title", "", "activity title")
	f.StringVar(&genFlags.content, "content", "", "activity prompt text")
	f.StringVar(&genFlags.file, "file", "", "plain-text file with the activity prompt")
	f.StringVar(&genFlags.activityID, "activity-id", "", "reuse a stored activity")
	generateCmd.MarkFlagsMutuallyExclusive("content", "file", "activity-id")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	in := service.FormInput{
		StudentName:     genFlags.name,
		UC:              genFlags.uc,
		Grade:           service.GradeText(genFlags.grade),
		Source:          service.SourceText,
		ActivityTitle:   genFlags.title,
		ActivityContent: genFlags.content,
	}
	switch {
	case genFlags.activityID != "":
		in.Source = service.SourceSelect
		in.ActivityID = genFlags.activityID
	case genFlags.file != "":
		text, err := textfile.ReadFile(genFlags.file)
		if err != nil {
			return fmt.Errorf("%s", errdefs.Message(err))
		}
		in.Source = service.SourceFile
		in.ActivityContent = text
	}

	rec, err := application.Feedback.Submit(cmd.Context(), in)
	if err != nil {
		return fmt.Errorf("%s", errdefs.Message(err))
	}
	printFeedback(cmd, *rec)
	return nil
}

func printFeedback(cmd *cobra.Command, rec entities.StudentFeedback) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s · %s · %s · nota %s\n", rec.StudentName, rec.UC, rec.ActivityTitle, prompt.FormatGrade(rec.Grade))
	fmt.Fprintf(out, "id %s  %s\n", rec.ID, rec.CreatedAt.Format("2006-01-02 15:04"))
	if rec.EditedFeedback != nil {
		fmt.Fprintln(out, "(editado)")
	}
	fmt.Fprintln(out, strings.Repeat("─", 60))
	fmt.Fprintln(out, rec.Displayed().CopyText())
}
