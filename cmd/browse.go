package cmd

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"cinema-booking-cli/booking"
	"cinema-booking-cli/model"
	"cinema-booking-cli/store"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
)

func newMoviesCmd(a *app) *cobra.Command {
	var refresh bool
	cmd := &cobra.Command{
		Use:   "movies",
		Short: "List movies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			movies, err := a.catalog.Movies(cmd.Context(), refresh)
			if err != nil {
				return err
			}
			hidden, _ := store.LoadHiddenMovies()

			t := newTable(cmd.OutOrStdout())
			t.AppendHeader(table.Row{"ID", "Title", "Genre", "Duration", "Release"})
			for _, movie := range movies {
				if hidden[movie.Id] {
					continue
				}
				t.AppendRow(table.Row{movie.Id, movie.Title, movie.Genre, formatDuration(movie.Duration), movie.ReleaseDate})
			}
			t.Render()
			return nil
		},
	}
	cmd.Flags().BoolVar(&refresh, "refresh", false, "skip the cache")
	return cmd
}

func newShowtimesCmd(a *app) *cobra.Command {
	var movieID int64
	var refresh bool
	cmd := &cobra.Command{
		Use:   "showtimes",
		Short: "List showtimes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			movies, err := a.catalog.Movies(ctx, refresh)
			if err != nil {
				return err
			}
			durations := make(map[string]int, len(movies))
			var selected *model.Movie
			for i, movie := range movies {
				durations[movie.Title] = movie.Duration
				if movie.Id == movieID {
					selected = &movies[i]
				}
			}

			var showtimes []model.Showtime
			if movieID > 0 {
				if selected == nil {
					return fmt.Errorf("movie %d not found", movieID)
				}
				showtimes, err = a.catalog.ShowtimesFor(ctx, *selected, refresh)
			} else {
				showtimes, err = a.catalog.Showtimes(ctx, refresh)
			}
			if err != nil {
				return err
			}

			t := newTable(cmd.OutOrStdout())
			t.AppendHeader(table.Row{"ID", "Movie", "Hall", "Start", "End", "Price"})
			for _, showtime := range showtimes {
				end := booking.ShowtimeEnd(showtime, durations[showtime.Movie])
				t.AppendRow(table.Row{
					showtime.Id,
					showtime.Movie,
					showtime.Hall,
					formatTime(showtime.StartTime),
					formatClock(showtime.StartTime, end),
					showtime.Price.String(),
				})
			}
			t.Render()
			return nil
		},
	}
	cmd.Flags().Int64Var(&movieID, "movie", 0, "only showtimes of this movie id")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "skip the cache")
	return cmd
}

func newSeatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "seats <showtime-id>",
		Short: "Show the seat map of a showtime",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			showtimeID, err := parseID(args[0], "showtime id")
			if err != nil {
				return err
			}
			inventory, err := booking.Load(cmd.Context(), a.client, showtimeID)
			if err != nil {
				return err
			}
			if err := store.RememberShowtime(inventory.Showtime); err != nil {
				a.log.Warn("remember showtime", "error", err)
			}
			renderSeatMap(cmd.OutOrStdout(), inventory)
			return nil
		},
	}
}

// renderSeatMap prints one table row per seat row. Free seats show their id,
// which is what reserve takes.
func renderSeatMap(out io.Writer, inventory booking.Inventory) {
	showtime := inventory.Showtime
	fmt.Fprintf(out, "%s • %s • %s • %s per seat\n", showtime.Movie, showtime.Hall, formatTime(showtime.StartTime), showtime.Price)

	rows := booking.GroupRows(inventory.Seats)
	maxNumber := 0
	free := 0
	for _, row := range rows {
		for _, seat := range row.Seats {
			maxNumber = max(maxNumber, seat.Number)
			if !seat.IsReserved {
				free++
			}
		}
	}

	header := table.Row{"Row"}
	configs := []table.ColumnConfig{{Number: 1, Align: text.AlignRight}}
	for n := 1; n <= maxNumber; n++ {
		header = append(header, n)
		configs = append(configs, table.ColumnConfig{Number: n + 1, Align: text.AlignCenter, AlignHeader: text.AlignCenter})
	}

	t := newTable(out)
	t.AppendHeader(header)
	t.SetColumnConfigs(configs)
	for _, row := range rows {
		cells := make(table.Row, maxNumber+1)
		cells[0] = row.Number
		for i := 1; i <= maxNumber; i++ {
			cells[i] = ""
		}
		for _, seat := range row.Seats {
			if seat.Number < 1 || seat.Number > maxNumber {
				continue
			}
			if seat.IsReserved {
				cells[seat.Number] = "XX"
			} else {
				cells[seat.Number] = seat.Id
			}
		}
		t.AppendRow(cells)
	}
	t.SetCaption("SCREEN • cells show seat ids, XX is reserved • %d of %d seats free", free, len(inventory.Seats))
	t.Render()
}

func newTable(out io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)
	return t
}

func parseID(value string, name string) (int64, error) {
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s %q", name, value)
	}
	return id, nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("Mon 02 Jan 15:04")
}

func formatClock(start, end time.Time) string {
	if end.IsZero() || !end.After(start) {
		return "-"
	}
	return end.Local().Format("15:04")
}

func formatDuration(minutes int) string {
	if minutes <= 0 {
		return "-"
	}
	return fmt.Sprintf("%dh%02d", minutes/60, minutes%60)
}
