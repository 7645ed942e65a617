package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/tetra-engine/tetra/internal/config"
	"github.com/tetra-engine/tetra/internal/core/ecs"
	"github.com/tetra-engine/tetra/internal/core/observability/log"
	"github.com/tetra-engine/tetra/internal/core/project"
	"github.com/tetra-engine/tetra/internal/core/stage"
	"github.com/tetra-engine/tetra/internal/engine"
	"github.com/tetra-engine/tetra/pkg/concurrent"
)

func newStageCmd(cfg func() config.Config) *cobra.Command {
	stageCmd := &cobra.Command{
		Use:   "stage",
		Short: "Stage document subcommands",
	}
	stageCmd.AddCommand(
		newStageNewCmd(cfg),
		newStageCheckCmd(),
	)
	return stageCmd
}

func newRegistry() (*ecs.Registry, error) {
	return engine.ProvideRegistry(log.NewNop())
}

func newStageNewCmd(cfg func() config.Config) *cobra.Command {
	var (
		name  string
		force bool
	)
	cmd := &cobra.Command{
		Use:     "new [path]",
		Short:   "Write an empty stage document",
		Example: "tetra stage new stages/main.stage --name Main",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if _, err := os.Stat(path); err == nil && !force {
				return eris.Errorf("%s already exists, use --force to overwrite", path)
			}
			reg, err := newRegistry()
			if err != nil {
				return err
			}
			m := stage.NewManager(reg, stage.WithPrettyOutput(cfg().Stage.Pretty))
			s := m.CreateEmptyStage(stage.WithName(name))
			if err := m.Save(s, path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created stage %s (%s) at %s\n", s.Name(), s.GUID(), path)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", stage.DefaultName, "stage name")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

func newStageCheckCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:     "check [path...]",
		Short:   "Load stage documents and verify each saves back unchanged",
		Example: "tetra stage check stages/main.stage stages/menu.stage",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := newRegistry()
			if err != nil {
				return err
			}
			reports := make([]string, len(args))
			indexes := make([]int, len(args))
			for i := range indexes {
				indexes[i] = i
			}
			err = concurrent.ForEach(cmd.Context(), indexes, limit, func(_ context.Context, i int) error {
				report, err := checkStageFile(args[i], reg)
				reports[i] = report
				return err
			})
			if stage.IsNotFound(err) {
				return eris.Wrap(err, "create it with `tetra stage new` first")
			}
			if err != nil {
				return err
			}
			for _, report := range reports {
				fmt.Fprintln(cmd.OutOrStdout(), report)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "jobs", 0, "files checked at once, 0 for no limit")
	return cmd
}

func checkStageFile(path string, reg *ecs.Registry) (string, error) {
	text, ok := project.ReadFileContents(path)
	if !ok {
		return "", eris.Wrapf(stage.ErrStageFileNotFound, "%s", path)
	}
	if err := stage.VerifyRoundTrip(text, reg); err != nil {
		return "", eris.Wrapf(err, "%s", path)
	}
	s, err := stage.Unmarshal(text, reg)
	if err != nil {
		return "", eris.Wrapf(err, "%s", path)
	}
	return fmt.Sprintf("ok: %s (%s), %d entities, %d components",
		s.Name(), s.GUID(), s.Entities().Len(), s.Components().Len()), nil
}
