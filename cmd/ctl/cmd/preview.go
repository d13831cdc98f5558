package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/jpfielding/pixcloak.go/pkg/codec"
	"github.com/jpfielding/pixcloak.go/pkg/raster"
	"github.com/spf13/cobra"
)

// NewPreviewCmd writes a thumbnail sized for display
func NewPreviewCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "render a display sized thumbnail",
		Long:  "Scales an image down to fit the preview bounds, keeping its aspect ratio. Images that already fit are written unscaled.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			in, _ := cmd.Flags().GetString("in")
			out, _ := cmd.Flags().GetString("out")
			if out == "" {
				return fmt.Errorf("--out is required")
			}
			maxW, maxH := cfg.Preview.MaxWidth, cfg.Preview.MaxHeight
			if cmd.Flags().Changed("max-width") {
				maxW, _ = cmd.Flags().GetInt("max-width")
			}
			if cmd.Flags().Changed("max-height") {
				maxH, _ = cmd.Flags().GetInt("max-height")
			}

			s, err := openSession(ctx, cmd, cfg, in)
			if err != nil {
				return err
			}
			thumb, err := s.Preview(maxW, maxH)
			if err != nil {
				return err
			}
			var c codec.Codec
			if out == "-" {
				c, err = outputCodec(cmd, cfg)
			} else {
				c, err = codec.ForPathQuality(out, cfg.Output.JPEGQuality)
			}
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if out != "-" {
				f, err := os.Create(out)
				if err != nil {
					return fmt.Errorf("failed to create file: %v", err)
				}
				defer f.Close()
				w = f
			}
			if err := codec.EncodeRaster(w, raster.FromImage(thumb), c); err != nil {
				return err
			}
			slog.InfoContext(ctx, "preview written",
				"out", out,
				"width", thumb.Bounds().Dx(),
				"height", thumb.Bounds().Dy(),
			)
			return nil
		},
	}
	inOutFlags(cmd)
	cmd.Flags().Int("max-width", 750, "preview width bound")
	cmd.Flags().Int("max-height", 400, "preview height bound")
	return cmd
}
