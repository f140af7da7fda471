package cmd

import (
	"fmt"
	"strings"
	"time"

	"cinema-booking-cli/booking"
	"cinema-booking-cli/model"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

const startLayout = "2006-01-02 15:04"

func newAdminCmd(a *app) *cobra.Command {
	admin := &cobra.Command{
		Use:   "admin",
		Short: "Back-office commands (staff only)",
	}

	movies := &cobra.Command{Use: "movies", Short: "Manage movies"}
	movies.AddCommand(newAdminMoviesListCmd(a), newAdminMovieAddCmd(a), newAdminMovieDeleteCmd(a))

	halls := &cobra.Command{Use: "halls", Short: "Manage halls"}
	halls.AddCommand(newAdminHallsListCmd(a), newAdminHallAddCmd(a))

	showtimes := &cobra.Command{Use: "showtimes", Short: "Manage showtimes"}
	showtimes.AddCommand(newAdminShowtimeAddCmd(a), newAdminShowtimeDeleteCmd(a))

	admin.AddCommand(movies, halls, showtimes, newAdminStatsCmd(a))
	return admin
}

func newAdminMoviesListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every movie, including hidden ones",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireStaff(cmd.Context()); err != nil {
				return err
			}
			movies, err := a.catalog.Movies(cmd.Context(), true)
			if err != nil {
				return err
			}
			t := newTable(cmd.OutOrStdout())
			t.AppendHeader(table.Row{"ID", "Title", "Genre", "Duration", "Release", "Description"})
			t.SetColumnConfigs([]table.ColumnConfig{{Number: 6, WidthMax: 40}})
			for _, movie := range movies {
				t.AppendRow(table.Row{movie.Id, movie.Title, movie.Genre, formatDuration(movie.Duration), movie.ReleaseDate, movie.Description})
			}
			t.Render()
			return nil
		},
	}
}

func newAdminMovieAddCmd(a *app) *cobra.Command {
	var in model.MovieInput
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a movie",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireStaff(cmd.Context()); err != nil {
				return err
			}
			in.Title = strings.TrimSpace(in.Title)
			movie, err := a.client.CreateMovie(cmd.Context(), in)
			if err != nil {
				return err
			}
			a.invalidateCatalog(cmd)
			fmt.Fprintf(cmd.OutOrStdout(), "Created movie #%d %s\n", movie.Id, movie.Title)
			return nil
		},
	}
	cmd.Flags().StringVar(&in.Title, "title", "", "movie title")
	cmd.Flags().StringVar(&in.Description, "description", "", "synopsis")
	cmd.Flags().IntVar(&in.Duration, "duration", 0, "duration in minutes")
	cmd.Flags().StringVar(&in.Genre, "genre", "", "genre")
	cmd.Flags().StringVar(&in.ReleaseDate, "release-date", "", "release date (YYYY-MM-DD)")
	return cmd
}

func newAdminMovieDeleteCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <movie-id>",
		Short: "Delete a movie",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireStaff(cmd.Context()); err != nil {
				return err
			}
			movieID, err := parseID(args[0], "movie id")
			if err != nil {
				return err
			}
			if !yes {
				ok, err := confirm(fmt.Sprintf("Delete movie #%d and its showtimes", movieID))
				if err != nil || !ok {
					return err
				}
			}
			if err := a.client.DeleteMovie(cmd.Context(), movieID); err != nil {
				return err
			}
			a.invalidateCatalog(cmd)
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted movie #%d\n", movieID)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func newAdminHallsListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List halls",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireStaff(cmd.Context()); err != nil {
				return err
			}
			halls, err := a.client.ListHalls(cmd.Context())
			if err != nil {
				return err
			}
			t := newTable(cmd.OutOrStdout())
			t.AppendHeader(table.Row{"ID", "Name", "Rows", "Seats per row", "Capacity"})
			for _, hall := range halls {
				t.AppendRow(table.Row{hall.Id, hall.Name, hall.Rows, hall.SeatsPerRow, hall.Capacity()})
			}
			t.Render()
			return nil
		},
	}
}

func newAdminHallAddCmd(a *app) *cobra.Command {
	var in model.HallInput
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a hall",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireStaff(cmd.Context()); err != nil {
				return err
			}
			in.Name = strings.TrimSpace(in.Name)
			hall, err := a.client.CreateHall(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created hall #%d %s (%d seats)\n", hall.Id, hall.Name, hall.Capacity())
			return nil
		},
	}
	cmd.Flags().StringVar(&in.Name, "name", "", "hall name")
	cmd.Flags().IntVar(&in.Rows, "rows", 0, "number of rows (1-50)")
	cmd.Flags().IntVar(&in.SeatsPerRow, "seats-per-row", 0, "seats in each row (1-50)")
	return cmd
}

func newAdminShowtimeAddCmd(a *app) *cobra.Command {
	var movieID, hallID int64
	var start, price string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Schedule a showtime; the end time follows from the movie duration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := a.requireStaff(ctx); err != nil {
				return err
			}
			startTime, err := time.ParseInLocation(startLayout, strings.TrimSpace(start), time.Local)
			if err != nil {
				return fmt.Errorf("invalid --start %q, expected %s", start, startLayout)
			}
			amount, err := model.ParseMoney(price)
			if err != nil {
				return fmt.Errorf("invalid --price %q", price)
			}
			movie, err := a.client.GetMovie(ctx, movieID)
			if err != nil {
				return fmt.Errorf("load movie %d: %w", movieID, err)
			}

			showtime, err := a.client.CreateShowtime(ctx, model.ShowtimeInput{
				MovieId:   movieID,
				HallId:    hallID,
				StartTime: startTime,
				EndTime:   booking.EndTime(startTime, movie.Duration),
				Price:     amount,
			})
			if err != nil {
				return err
			}
			a.invalidateCatalog(cmd)
			fmt.Fprintf(cmd.OutOrStdout(), "Created showtime #%d for %s at %s\n", showtime.Id, movie.Title, formatTime(startTime))
			return nil
		},
	}
	cmd.Flags().Int64Var(&movieID, "movie", 0, "movie id")
	cmd.Flags().Int64Var(&hallID, "hall", 0, "hall id")
	cmd.Flags().StringVar(&start, "start", "", "start time ("+startLayout+", local time)")
	cmd.Flags().StringVar(&price, "price", "", "ticket price, e.g. 12.50")
	return cmd
}

func newAdminShowtimeDeleteCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <showtime-id>",
		Short: "Delete a showtime",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireStaff(cmd.Context()); err != nil {
				return err
			}
			showtimeID, err := parseID(args[0], "showtime id")
			if err != nil {
				return err
			}
			if !yes {
				ok, err := confirm(fmt.Sprintf("Delete showtime #%d", showtimeID))
				if err != nil || !ok {
					return err
				}
			}
			if err := a.client.DeleteShowtime(cmd.Context(), showtimeID); err != nil {
				return err
			}
			a.invalidateCatalog(cmd)
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted showtime #%d\n", showtimeID)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func newAdminStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show reservation statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireStaff(cmd.Context()); err != nil {
				return err
			}
			stats, err := a.client.GetStats(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Reservations: %d\n", stats.TotalReservations)
			fmt.Fprintf(out, "Revenue: %s\n\n", stats.TotalRevenue)

			top := newTable(out)
			top.SetTitle("Top movies")
			top.AppendHeader(table.Row{"Movie", "Tickets"})
			for _, movie := range stats.TopMovies {
				top.AppendRow(table.Row{movie.Title, movie.Tickets})
			}
			top.Render()

			occupancy := newTable(out)
			occupancy.SetTitle("Occupancy")
			occupancy.AppendHeader(table.Row{"Showtime", "Movie", "Reserved", "Capacity", "%"})
			for _, row := range stats.Occupancy {
				percent := 0.0
				if row.Capacity > 0 {
					percent = float64(row.Reserved) / float64(row.Capacity) * 100
				}
				occupancy.AppendRow(table.Row{row.ShowtimeId, row.Movie, row.Reserved, row.Capacity, fmt.Sprintf("%.0f%%", percent)})
			}
			occupancy.Render()
			return nil
		},
	}
}

func (a *app) invalidateCatalog(cmd *cobra.Command) {
	if err := a.catalog.Invalidate(cmd.Context()); err != nil {
		a.log.Warn("invalidate catalog cache", "error", err)
	}
}
