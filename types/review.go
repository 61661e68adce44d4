package types

import "time"

// Review represents a rating a user gave a movie.
//
// Username and MovieTitle are display fields resolved by joining against
// users and movies at query time. They are populated by list and get
// operations and left empty (and omitted from JSON) on rows returned by
// mutations.
type Review struct {
	// ID is the unique identifier of the review.
	ID int `json:"id" db:"id"`

	// UserID references the authoring user. Immutable after creation.
	UserID int `json:"userId" db:"user_id"`

	// MovieID references the reviewed movie. Immutable after creation.
	MovieID int `json:"movieId" db:"movie_id"`

	// Rating is the star rating, an integer from 1 to 5 inclusive.
	Rating int `json:"rating" db:"rating"`

	// Comment is optional free-text.
	Comment string `json:"comment" db:"comment"`

	// CreatedAt is the server-assigned creation timestamp.
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	// Username is the author's username (joined).
	Username string `json:"username,omitempty" db:"username"`

	// MovieTitle is the reviewed movie's title (joined).
	MovieTitle string `json:"movieTitle,omitempty" db:"movie_title"`
}

// ReviewPatch is a sparse review update. Only rating and comment are
// mutable; the user and movie associations are fixed at creation.
type ReviewPatch struct {
	Rating     *int
	RatingSet  bool
	Comment    *string
	CommentSet bool
}

// Empty reports whether the patch carries no fields at all.
func (p ReviewPatch) Empty() bool {
	return !p.RatingSet && !p.CommentSet
}
