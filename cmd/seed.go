/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/reelstack/apiserver/config"
	"github.com/reelstack/apiserver/internal/db"
	"github.com/reelstack/apiserver/internal/services"
	"github.com/reelstack/apiserver/internal/store"
	"github.com/reelstack/apiserver/types"
	"github.com/spf13/cobra"
)

// seedCmd loads the demo dataset. It runs through the service layer so
// passwords end up hashed and the usual validation applies.
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the demo dataset",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg := config.LoadConfig()

		dbConn, err := db.Open(ctx, cfg)
		if err != nil {
			return err
		}
		defer dbConn.Close()

		userService := services.NewUserService(store.NewUserRepository(dbConn), nil)
		movieService := services.NewMovieService(store.NewMovieRepository(dbConn), nil, nil)
		reviewService := services.NewReviewService(store.NewReviewRepository(dbConn), nil, nil, config.ReviewEditAny)

		return seed(ctx, userService, movieService, reviewService)
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

type seedUser struct {
	email    string
	username string
	password string
}

type seedMovie struct {
	title   string
	genre   string
	year    int
	poster  string
	summary string
}

type seedReview struct {
	user    string
	movie   string
	rating  int
	comment string
}

var (
	seedUsers = []seedUser{
		{"user1@example.com", "user1", "password1"},
		{"alice@example.com", "alice", "password2"},
		{"bob@example.com", "bob", "password3"},
		{"charlie@example.com", "charlie", "password4"},
		{"dana@example.com", "dana", "password5"},
	}
	seedMovies = []seedMovie{
		{"Inception", "Sci-Fi", 2010, "http://example.com/inception.jpg", "A mind-bending thriller..."},
		{"The Godfather", "Crime", 1972, "http://example.com/godfather.jpg", "Classic mafia drama."},
		{"The Matrix", "Action", 1999, "http://example.com/matrix.jpg", "Reality is not what it seems."},
		{"Dune", "Sci-Fi", 2021, "http://example.com/dune.jpg", "A noble family battles for a desert planet."},
	}
	seedReviews = []seedReview{
		{"user1", "Inception", 4, "Really enjoyed this movie!"},
		{"bob", "The Godfather", 5, "Masterpiece."},
		{"charlie", "The Godfather", 3, "Pretty good!"},
		{"dana", "The Matrix", 5, "Mind-blowing action and concept."},
		{"alice", "The Matrix", 4, "Loved the visuals and story."},
	}
)

func seed(ctx context.Context, users *services.UserService, movies *services.MovieService, reviews *services.ReviewService) error {
	log.Println("Creating users...")
	userIDs := make(map[string]int, len(seedUsers))
	for _, u := range seedUsers {
		created, err := users.Register(ctx, u.email, u.username, u.password)
		if err != nil {
			return fmt.Errorf("seed user %s: %w", u.username, err)
		}
		userIDs[u.username] = created.ID
	}

	log.Println("Creating movies...")
	movieIDs := make(map[string]int, len(seedMovies))
	for _, m := range seedMovies {
		m := m
		created, err := movies.Create(ctx, types.Movie{
			Title:     m.title,
			Genre:     &m.genre,
			Year:      &m.year,
			PosterURL: &m.poster,
			Summary:   &m.summary,
		})
		if err != nil {
			return fmt.Errorf("seed movie %s: %w", m.title, err)
		}
		movieIDs[m.title] = created.ID
	}

	log.Println("Creating reviews...")
	for _, r := range seedReviews {
		if _, err := reviews.Create(ctx, userIDs[r.user], types.Review{
			MovieID: movieIDs[r.movie],
			Rating:  r.rating,
			Comment: r.comment,
		}); err != nil {
			return fmt.Errorf("seed review by %s: %w", r.user, err)
		}
	}

	log.Println("Seed complete.")
	return nil
}
