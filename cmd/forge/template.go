package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/forge/internal/template"
	"github.com/fyrsmithlabs/forge/internal/ui"
)

var flagRef string

var templateCmd = &cobra.Command{
	Use:   "template [owner/repo]",
	Short: "Download a starter template into the target directory",
	Long: `Download a GitHub repository tarball and extract it into the target
directory to seed a new project. The directory must be empty or absent.

Without an argument the configured default template repository is used.

Examples:
  forge template vercel/next.js --dir ./my-app
  forge template --dir ./my-app --ref v2.1.0`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTemplate,
}

func init() {
	templateCmd.Flags().StringVar(&flagRef, "ref", "", "git ref to download (default: the repository's default branch)")
}

func runTemplate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close(ctx)

	repo := a.cfg.Template.DefaultRepo
	if len(args) > 0 {
		repo = args[0]
	}
	if repo == "" {
		return fmt.Errorf("no template repository given and template.default_repo is not configured")
	}

	svc := template.NewService(ctx, a.cfg.Template.Token)
	if err := svc.Fetch(ctx, repo, flagRef, flagDir); err != nil {
		return err
	}

	fmt.Println(ui.Success(fmt.Sprintf("Template %s extracted to %s", repo, flagDir)))
	return nil
}
