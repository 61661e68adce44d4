package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/reelstack/apiserver/internal/auth"
	"github.com/reelstack/apiserver/internal/services"
	"github.com/reelstack/apiserver/types"
)

const maxPosterBytes = 8 << 20

// MovieHandler provides CRUD endpoints for the movie catalog.
type MovieHandler struct {
	movieService *services.MovieService
}

func NewMovieHandler(movieService *services.MovieService) *MovieHandler {
	return &MovieHandler{movieService: movieService}
}

// MovieRouter registers movie routes on the given router. Poster upload is
// the only protected movie route.
func MovieRouter(r chi.Router, movieService *services.MovieService, issuer *auth.Issuer) {
	handler := NewMovieHandler(movieService)

	r.Get("/", handler.ListMovies)
	r.Post("/", handler.CreateMovie)
	r.Route("/{movieID}", func(r chi.Router) {
		r.Get("/", handler.GetMovie)
		r.Put("/", handler.UpdateMovie)
		r.Delete("/", handler.DeleteMovie)
		r.With(RequireAuth(issuer)).Post("/poster", handler.UploadPoster)
	})
}

// CreateMovieRequest accepts both "genre" and the older "director" field
// name; genre wins when both are present.
type CreateMovieRequest struct {
	Title     string  `json:"title"`
	Genre     *string `json:"genre"`
	Director  *string `json:"director"`
	Year      *int    `json:"year"`
	PosterURL *string `json:"poster_url"`
	Summary   *string `json:"summary"`
}

func (h *MovieHandler) ListMovies(w http.ResponseWriter, r *http.Request) {
	movies, err := h.movieService.List(r.Context())
	if err != nil {
		respondError(w, err, "movie not found")
		return
	}
	writeJSON(w, http.StatusOK, movies)
}

func (h *MovieHandler) GetMovie(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(chi.URLParam(r, "movieID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	movie, err := h.movieService.Get(r.Context(), id)
	if err != nil {
		respondError(w, err, "movie not found")
		return
	}
	writeJSON(w, http.StatusOK, movie)
}

func (h *MovieHandler) CreateMovie(w http.ResponseWriter, r *http.Request) {
	var req CreateMovieRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	genre := req.Genre
	if genre == nil {
		genre = req.Director
	}

	movie, err := h.movieService.Create(r.Context(), types.Movie{
		Title:     req.Title,
		Genre:     genre,
		Year:      req.Year,
		PosterURL: req.PosterURL,
		Summary:   req.Summary,
	})
	if err != nil {
		respondError(w, err, "movie not found")
		return
	}
	writeJSON(w, http.StatusCreated, movie)
}

func (h *MovieHandler) UpdateMovie(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(chi.URLParam(r, "movieID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	patch, err := decodeMoviePatch(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	movie, err := h.movieService.Update(r.Context(), id, patch)
	if err != nil {
		respondError(w, err, "movie not found")
		return
	}
	writeJSON(w, http.StatusOK, movie)
}

// decodeMoviePatch distinguishes absent fields from explicit nulls: a key
// present in the body joins the patch even when its value is null.
func decodeMoviePatch(r *http.Request) (types.MoviePatch, error) {
	var body map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return types.MoviePatch{}, err
	}

	var patch types.MoviePatch
	for key, raw := range body {
		switch key {
		case "title":
			if err := json.Unmarshal(raw, &patch.Title); err != nil {
				return types.MoviePatch{}, err
			}
			patch.TitleSet = true
		case "genre", "director":
			if err := json.Unmarshal(raw, &patch.Genre); err != nil {
				return types.MoviePatch{}, err
			}
			patch.GenreSet = true
		case "year":
			if err := json.Unmarshal(raw, &patch.Year); err != nil {
				return types.MoviePatch{}, err
			}
			patch.YearSet = true
		case "poster_url":
			if err := json.Unmarshal(raw, &patch.PosterURL); err != nil {
				return types.MoviePatch{}, err
			}
			patch.PosterURLSet = true
		case "summary":
			if err := json.Unmarshal(raw, &patch.Summary); err != nil {
				return types.MoviePatch{}, err
			}
			patch.SummarySet = true
		}
	}
	return patch, nil
}

func (h *MovieHandler) DeleteMovie(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(chi.URLParam(r, "movieID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	movie, err := h.movieService.Delete(r.Context(), id)
	if err != nil {
		respondError(w, err, "movie not found")
		return
	}
	writeJSON(w, http.StatusOK, movie)
}

// UploadPoster accepts a multipart "poster" file and stores it in the
// configured object store.
func (h *MovieHandler) UploadPoster(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(chi.URLParam(r, "movieID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := r.ParseMultipartForm(maxPosterBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("poster")
	if err != nil {
		writeError(w, http.StatusBadRequest, "poster file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxPosterBytes+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read poster file")
		return
	}
	if len(data) > maxPosterBytes {
		writeError(w, http.StatusBadRequest, "poster file too large")
		return
	}

	movie, err := h.movieService.AttachPoster(r.Context(), id, header.Filename, header.Header.Get("Content-Type"), data)
	if err != nil {
		respondError(w, err, "movie not found")
		return
	}
	writeJSON(w, http.StatusOK, movie)
}
