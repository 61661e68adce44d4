package types

// Movie represents a catalog entry.
type Movie struct {
	// ID is the unique identifier of the movie.
	ID int `json:"id" db:"id"`

	// Title is the movie title. It is the only required attribute.
	Title string `json:"title" db:"title"`

	// Genre is an optional genre label (e.g. "Sci-Fi", "Crime").
	Genre *string `json:"genre" db:"genre"`

	// Year is the optional release year.
	Year *int `json:"year" db:"year"`

	// PosterURL points at the poster image, either an external URL or an
	// object key in the configured poster store.
	PosterURL *string `json:"poster_url" db:"poster_url"`

	// Summary is an optional short synopsis.
	Summary *string `json:"summary" db:"summary"`
}

// MoviePatch is a sparse movie update. A field participates in the update
// only when its Set flag is true; a true flag with a nil value writes NULL.
type MoviePatch struct {
	Title        *string
	TitleSet     bool
	Genre        *string
	GenreSet     bool
	Year         *int
	YearSet      bool
	PosterURL    *string
	PosterURLSet bool
	Summary      *string
	SummarySet   bool
}

// Empty reports whether the patch carries no fields at all.
func (p MoviePatch) Empty() bool {
	return !p.TitleSet && !p.GenreSet && !p.YearSet && !p.PosterURLSet && !p.SummarySet
}
