package tmdb

import (
	"slices"
	"strings"
	"time"

	"github.com/s0up4200/marquee/format"
)

// PagedResult is the wire shape shared by every list endpoint
type PagedResult[T any] struct {
	Page         int `json:"page"`
	Results      []T `json:"results"`
	TotalPages   int `json:"total_pages"`
	TotalResults int `json:"total_results"`
}

// HasMorePages checks if there are more pages to fetch
func (p *PagedResult[T]) HasMorePages() bool {
	return p.Page < p.TotalPages
}

// Movie represents a TMDB movie. List endpoints fill GenreIDs; the details
// endpoint fills Genres and the runtime/budget/production fields instead.
type Movie struct {
	ID               int     `json:"id"`
	Title            string  `json:"title"`
	OriginalTitle    string  `json:"original_title"`
	Overview         string  `json:"overview"`
	PosterPath       string  `json:"poster_path"`
	BackdropPath     string  `json:"backdrop_path"`
	ReleaseDate      string  `json:"release_date"`
	VoteAverage      float64 `json:"vote_average"`
	VoteCount        int     `json:"vote_count"`
	Adult            bool    `json:"adult"`
	OriginalLanguage string  `json:"original_language"`
	Popularity       float64 `json:"popularity"`
	Video            bool    `json:"video"`
	Budget           *int64  `json:"budget,omitempty"`
	Revenue          *int64  `json:"revenue,omitempty"`
	Runtime          *int    `json:"runtime,omitempty"`
	Tagline          string  `json:"tagline,omitempty"`
	Status           string  `json:"status,omitempty"`
	Homepage         string  `json:"homepage,omitempty"`
	IMDbID           string  `json:"imdb_id,omitempty"`

	GenreIDs            []int               `json:"genre_ids,omitempty"`
	Genres              []Genre             `json:"genres,omitempty"`
	BelongsToCollection *Collection         `json:"belongs_to_collection,omitempty"`
	ProductionCompanies []ProductionCompany `json:"production_companies,omitempty"`
	ProductionCountries []ProductionCountry `json:"production_countries,omitempty"`
	SpokenLanguages     []SpokenLanguage    `json:"spoken_languages,omitempty"`
}

// PosterURL returns the absolute w500 poster URL
func (m *Movie) PosterURL() (string, bool) {
	return ImageURL(PosterSize, m.PosterPath)
}

// BackdropURL returns the absolute original-size backdrop URL
func (m *Movie) BackdropURL() (string, bool) {
	return ImageURL(BackdropSize, m.BackdropPath)
}

// FormattedRating renders the vote average with one decimal
func (m *Movie) FormattedRating() string {
	return format.Rating(m.VoteAverage)
}

// FormattedReleaseDate renders the ISO release date as "Jan 02, 2006",
// falling back to the raw value when it does not parse
func (m *Movie) FormattedReleaseDate() string {
	return format.Date(m.ReleaseDate, format.DisplayDateLayout)
}

// Year returns the release year, or 0 when the date is missing
func (m *Movie) Year() int {
	t, err := time.Parse(time.DateOnly, m.ReleaseDate)
	if err != nil {
		return 0
	}
	return t.Year()
}

// HasGenre reports whether the movie is tagged with the genre id, looking at
// both the list-endpoint ids and the details-endpoint genre objects
func (m *Movie) HasGenre(id int) bool {
	if slices.Contains(m.GenreIDs, id) {
		return true
	}
	return slices.ContainsFunc(m.Genres, func(g Genre) bool { return g.ID == id })
}

// AllGenreIDs returns the genre ids from whichever representation is present
func (m *Movie) AllGenreIDs() []int {
	if len(m.GenreIDs) > 0 || len(m.Genres) == 0 {
		return m.GenreIDs
	}
	ids := make([]int, 0, len(m.Genres))
	for _, g := range m.Genres {
		ids = append(ids, g.ID)
	}
	return ids
}

// Genre is a catalog genre
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Collection describes the franchise a movie belongs to
type Collection struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	PosterPath   string `json:"poster_path"`
	BackdropPath string `json:"backdrop_path"`
}

// ProductionCompany is a studio credited on a movie
type ProductionCompany struct {
	ID            int    `json:"id"`
	LogoPath      string `json:"logo_path"`
	Name          string `json:"name"`
	OriginCountry string `json:"origin_country"`
}

// ProductionCountry is a country credited on a movie
type ProductionCountry struct {
	ISO31661 string `json:"iso_3166_1"`
	Name     string `json:"name"`
}

// SpokenLanguage is a language spoken in a movie
type SpokenLanguage struct {
	EnglishName string `json:"english_name"`
	ISO6391     string `json:"iso_639_1"`
	Name        string `json:"name"`
}

// Credits is the response from the credits endpoint
type Credits struct {
	ID   int          `json:"id"`
	Cast []CastMember `json:"cast"`
	Crew []CrewMember `json:"crew"`
}

// CastMember is an actor credit
type CastMember struct {
	ID                 int     `json:"id"`
	Name               string  `json:"name"`
	OriginalName       string  `json:"original_name"`
	Character          string  `json:"character"`
	ProfilePath        string  `json:"profile_path"`
	CreditID           string  `json:"credit_id"`
	CastID             *int    `json:"cast_id,omitempty"`
	Order              *int    `json:"order,omitempty"`
	Popularity         float64 `json:"popularity"`
	KnownForDepartment string  `json:"known_for_department"`
	Gender             *int    `json:"gender,omitempty"`
}

// ProfileURL returns the absolute w185 profile image URL
func (c *CastMember) ProfileURL() (string, bool) {
	return ImageURL(ProfileSize, c.ProfilePath)
}

// CrewMember is a crew credit
type CrewMember struct {
	ID                 int     `json:"id"`
	Name               string  `json:"name"`
	OriginalName       string  `json:"original_name"`
	Job                string  `json:"job"`
	Department         string  `json:"department"`
	ProfilePath        string  `json:"profile_path"`
	CreditID           string  `json:"credit_id"`
	Popularity         float64 `json:"popularity"`
	KnownForDepartment string  `json:"known_for_department"`
	Gender             *int    `json:"gender,omitempty"`
}

// ProfileURL returns the absolute w185 profile image URL
func (c *CrewMember) ProfileURL() (string, bool) {
	return ImageURL(ProfileSize, c.ProfilePath)
}

// Review is a user review of a movie
type Review struct {
	ID            string        `json:"id"`
	Author        string        `json:"author"`
	AuthorDetails AuthorDetails `json:"author_details"`
	Content       string        `json:"content"`
	CreatedAt     string        `json:"created_at"`
	UpdatedAt     string        `json:"updated_at"`
	URL           string        `json:"url"`
}

// AuthorDetails describes the author of a review
type AuthorDetails struct {
	Name       string   `json:"name"`
	Username   string   `json:"username"`
	AvatarPath string   `json:"avatar_path"`
	Rating     *float64 `json:"rating,omitempty"`
}

// AvatarURL returns the author's avatar. TMDB stores externally hosted
// avatars (gravatar) as "/https://..."; those are used as-is once the leading
// slash is dropped, everything else is a CDN path. A path that already starts
// with "http" is returned untouched rather than losing its first character.
func (a *AuthorDetails) AvatarURL() (string, bool) {
	path := a.AvatarPath
	switch {
	case path == "":
		return "", false
	case strings.HasPrefix(path, "/http"):
		return path[1:], true
	case strings.HasPrefix(path, "http"):
		return path, true
	}
	return ImageURL(ProfileSize, path)
}

// Trailer is a video attached to a movie
type Trailer struct {
	ID          string `json:"id"`
	Key         string `json:"key"`
	Name        string `json:"name"`
	Site        string `json:"site"`
	Size        int    `json:"size"`
	Type        string `json:"type"`
	Official    bool   `json:"official"`
	PublishedAt string `json:"published_at"`
}

// IsYouTube reports whether the video is hosted on YouTube
func (t *Trailer) IsYouTube() bool {
	return strings.EqualFold(t.Site, SiteYouTube)
}

// YouTubeURL returns the watch URL for YouTube-hosted videos
func (t *Trailer) YouTubeURL() (string, bool) {
	if !t.IsYouTube() {
		return "", false
	}
	return "https://www.youtube.com/watch?v=" + t.Key, true
}

// ThumbnailURL returns the max-resolution thumbnail for YouTube-hosted videos
func (t *Trailer) ThumbnailURL() (string, bool) {
	if !t.IsYouTube() {
		return "", false
	}
	return "https://img.youtube.com/vi/" + t.Key + "/maxresdefault.jpg", true
}

type genresResponse struct {
	Genres []Genre `json:"genres"`
}

type videosResponse struct {
	ID      int       `json:"id"`
	Results []Trailer `json:"results"`
}

// statusResponse is the error body TMDB returns on non-200 responses
type statusResponse struct {
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
}
