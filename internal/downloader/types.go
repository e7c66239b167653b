package downloader

// VideoInfo mirrors the fields of yt-dlp --dump-json output that we report.
type VideoInfo struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Uploader    string       `json:"uploader"`
	Duration    float64      `json:"duration"`
	Description string       `json:"description"`
	Width       int          `json:"width"`
	Height      int          `json:"height"`
	Thumbnail   string       `json:"thumbnail"`
	WebpageURL  string       `json:"webpage_url"`
	ViewCount   int64        `json:"view_count"`
	UploadDate  string       `json:"upload_date"`
	Extractor   string       `json:"extractor"`
	Formats     []FormatInfo `json:"formats"`
}

// FormatInfo is one entry of the "formats" array.
type FormatInfo struct {
	FormatID   string  `json:"format_id"`
	Ext        string  `json:"ext"`
	Resolution string  `json:"resolution"`
	Height     int     `json:"height"`
	VCodec     string  `json:"vcodec"`
	ACodec     string  `json:"acodec"`
	Filesize   int64   `json:"filesize"`
	TBR        float64 `json:"tbr"`
	FormatNote string  `json:"format_note"`
}

// PlaylistEntry is one line of --flat-playlist --dump-json output.
type PlaylistEntry struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	URL      string  `json:"url"`
	Duration float64 `json:"duration"`
	Uploader string  `json:"uploader"`
}
