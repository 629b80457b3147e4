package models

import "time"

// DateLayout names the per-day photo directories (dd-mm-YYYY).
const DateLayout = "02-01-2006"

// Extension is the file extension an image is stored under.
type Extension string

const (
	ExtJPG Extension = "jpg"
	ExtPNG Extension = "png"
	ExtGIF Extension = "gif"
)

// Extensions lists every extension the downloader can produce.
var Extensions = []Extension{ExtJPG, ExtPNG, ExtGIF}

// PhotoMetadata is what the photo page advertises about its image.
type PhotoMetadata struct {
	ImageURL string `json:"image_url"`
	Title    string `json:"title"`
}

// DownloadedPhoto is an image stored in the photo tree.
type DownloadedPhoto struct {
	Path      string    `json:"path"`
	Date      time.Time `json:"date"`
	Title     string    `json:"title"`
	Extension Extension `json:"extension"`
	Size      int64     `json:"size"`
	Existed   bool      `json:"existed"` // true when the file was already on disk
}

// FailedItem records a collection entry that could not be stored.
type FailedItem struct {
	Ordinal int    `json:"ordinal"`
	URL     string `json:"url"`
	Reason  string `json:"reason"`
}

// Collection is a "best of" article scraped into one directory.
// Entries keep the order in which their URLs were discovered.
type Collection struct {
	Name    string            `json:"name"`  // URL slug, also the directory name
	Title   string            `json:"title"` // og:title of the article, may be empty
	Dir     string            `json:"dir"`
	Entries []DownloadedPhoto `json:"entries"`
	Skipped int               `json:"skipped"` // removed as thumbnails
	Failed  []FailedItem      `json:"failed"`
}

// TotalSize sums the size of every stored entry.
func (c *Collection) TotalSize() int64 {
	var total int64
	for _, e := range c.Entries {
		total += e.Size
	}
	return total
}
