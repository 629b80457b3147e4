package cli

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/vrsandeep/natgeo-wallpapers/internal/downloader"
	"github.com/vrsandeep/natgeo-wallpapers/internal/fetch"
)

func newDownloadCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "download",
		Short: "Download today's Photo of the Day",
		Long:  "Download today's Photo of the Day into <photo_root>/<DD-MM-YYYY>/. This is also what runs without a subcommand.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.download(cmd.Context(), cmd.OutOrStdout())
		},
	}
}

func (a *app) download(ctx context.Context, w io.Writer) error {
	d := downloader.New(a.cfg, fetch.New(a.cfg))

	photo, err := d.PhotoOfTheDay(ctx, time.Now())
	if err != nil {
		log.Printf("Photo of the Day download failed: %v", err)
		return err
	}

	if photo.Existed {
		success(w, "Already downloaded: %s", highlightStyle.Render(photo.Title))
	} else {
		success(w, "Downloaded: %s", highlightStyle.Render(photo.Title))
	}
	fmt.Fprintf(w, "  %s %s\n", dimStyle.Render(photo.Path), dimStyle.Render("("+humanize.Bytes(uint64(photo.Size))+")"))
	return nil
}
