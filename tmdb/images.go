package tmdb

// ImageBaseURL is the CDN host serving catalog images
const ImageBaseURL = "https://image.tmdb.org"

// Image size segments
const (
	PosterSize   = "w500"
	BackdropSize = "original"
	ProfileSize  = "w185"
)

// SiteYouTube is the only video provider that yields playable URLs
const SiteYouTube = "YouTube"

// ImageURL joins the CDN base, a size segment and a relative image path.
// It returns false when the path is empty.
func ImageURL(size, path string) (string, bool) {
	if path == "" {
		return "", false
	}
	return ImageBaseURL + "/t/p/" + size + path, true
}
