package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jpfielding/pixcloak.go/pkg/session"
	"github.com/jpfielding/pixcloak.go/pkg/util"
	"github.com/spf13/cobra"
)

// ImageInfo describes a decoded image
type ImageInfo struct {
	Name        string `json:"name"`
	Format      string `json:"format"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Pixels      int    `json:"pixels"`
	Fingerprint string `json:"fingerprint"`
	MD5         string `json:"md5"`
}

// NewInfoCmd prints the dimensions, container and content fingerprint of an image
func NewInfoCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "describe an image",
		Long:  "Decodes an image and prints its container format, dimensions and a content fingerprint that is stable across lossless containers.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			in, _ := cmd.Flags().GetString("in")
			s, err := openSession(ctx, cmd, cfg, in)
			if err != nil {
				return err
			}
			r := s.Original()
			info := ImageInfo{
				Name:        s.Name(),
				Format:      s.Format(),
				Width:       r.Width(),
				Height:      r.Height(),
				Pixels:      r.Width() * r.Height(),
				Fingerprint: session.Fingerprint(r),
				MD5:         util.Md5ThenHex(r.Bytes()),
			}
			w := cmd.OutOrStdout()
			switch format, _ := cmd.Flags().GetString("output"); format {
			case "text":
				fmt.Fprintf(w, "%s: %s %dx%d (%d pixels) %s md5=%s\n", info.Name, info.Format, info.Width, info.Height, info.Pixels, info.Fingerprint, info.MD5)
			default:
				j, _ := json.Marshal(info)
				w.Write(j)
				fmt.Fprintln(w)
			}
			return nil
		},
	}
	pf := cmd.Flags()
	pf.StringP("in", "i", "-", "input image path, - for stdin")
	pf.StringP("output", "f", "json", "output format (text|json)")
	return cmd
}
