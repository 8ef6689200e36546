// Command kbview previews a saved kubric project file.
//
//	kbview [--screenshots dir] [--script steps.json] [--hud] scene.blend
package main

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/phanxgames/kubric"
	"github.com/phanxgames/kubric/native"
	"github.com/phanxgames/kubric/preview"
)

func main() {
	var (
		shots   string
		script  string
		showHUD bool
		verbose bool
	)
	cmd := &cobra.Command{
		Use:          "kbview project.blend",
		Short:        "Play back a saved scene",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(_ *cobra.Command, args []string) error {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
			kubric.SetLogger(log)

			ctx := native.New(native.WithLogger(log))
			if err := ctx.OpenMainfile(args[0]); err != nil {
				return err
			}
			v := preview.New(ctx)
			v.ScreenshotDir = shots
			v.ShowHUD = showHUD
			if script != "" {
				data, err := os.ReadFile(script)
				if err != nil {
					return err
				}
				s, err := preview.LoadScript(data)
				if err != nil {
					return err
				}
				v.SetScript(s)
			}
			return v.Run(filepath.Base(args[0]))
		},
	}
	cmd.Flags().StringVar(&shots, "screenshots", ".", "directory screenshots are written to")
	cmd.Flags().StringVar(&script, "script", "", "JSON playback script to run unattended")
	cmd.Flags().BoolVar(&showHUD, "hud", false, "show frame and FPS overlay")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
