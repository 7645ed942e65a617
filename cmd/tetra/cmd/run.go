package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tetra-engine/tetra/internal/config"
	"github.com/tetra-engine/tetra/internal/injector"
)

func newRunCmd(cfg func() config.Config) *cobra.Command {
	var (
		maxFrames uint64
		headless  bool
	)
	cmd := &cobra.Command{
		Use:     "run [project-dir]",
		Short:   "Open a project and run its last open stage",
		Example: "tetra run ./my-game --max-frames 600",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := cfg()
			if cmd.Flags().Changed("max-frames") {
				c.Engine.MaxFrames = maxFrames
			}
			if cmd.Flags().Changed("headless") {
				c.Engine.Headless = headless
			}

			inst, err := injector.InitializeInstance(c)
			if err != nil {
				return err
			}
			defer inst.Close()
			if err := inst.Init(args[0]); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return inst.Run(ctx)
		},
	}
	cmd.Flags().Uint64Var(&maxFrames, "max-frames", 0, "stop after this many frames (0 runs until interrupted)")
	cmd.Flags().BoolVar(&headless, "headless", false, "never render")
	return cmd
}
