package cli

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/vrsandeep/natgeo-wallpapers/internal/downloader"
	"github.com/vrsandeep/natgeo-wallpapers/internal/fetch"
)

func newCollectionCmd(a *app) *cobra.Command {
	var url string

	cmd := &cobra.Command{
		Use:   "download-collection",
		Short: "Download every photo of a \"best of\" collection",
		Long: `Download every photo of a National Geographic "best of" article into
<photo_root>/collections/<slug>/, numbered in page order.`,
		Example: "  natgeo-wallpapers download-collection --url https://www.nationalgeographic.com/photography/article/best-photos-of-the-day-june-2025",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			acq := downloader.NewCollectionAcquirer(a.cfg, fetch.New(a.cfg))

			title(w, "Collection")
			coll, err := acq.Acquire(cmd.Context(), url)
			if coll != nil {
				for _, e := range coll.Entries {
					state := "downloaded"
					if e.Existed {
						state = "present"
					}
					fmt.Fprintf(w, "  %s %s\n", filepath.Base(e.Path), dimStyle.Render(state+", "+humanize.Bytes(uint64(e.Size))))
				}
				for _, f := range coll.Failed {
					failure(w, "#%d %s: %s", f.Ordinal, f.URL, f.Reason)
				}
				if coll.Skipped > 0 {
					warn(w, "%d thumbnail(s) removed", coll.Skipped)
				}
			}
			if err != nil {
				if errors.Is(err, downloader.ErrInvalidCollectionURL) {
					return &invalidInputError{err: err}
				}
				return err
			}

			success(w, "%d photo(s), %s in %s",
				len(coll.Entries),
				humanize.Bytes(uint64(coll.TotalSize())),
				highlightStyle.Render(coll.Dir))
			return nil
		},
	}

	cmd.Flags().StringVar(&url, "url", "", "URL of the collection article")
	cmd.MarkFlagRequired("url")
	return cmd
}
