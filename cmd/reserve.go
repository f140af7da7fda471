package cmd

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"cinema-booking-cli/booking"
	"cinema-booking-cli/model"
	"cinema-booking-cli/service"
	"cinema-booking-cli/store"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newReserveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reserve <showtime-id> <seat-id>...",
		Short: "Reserve seats for a showtime",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireLogin(); err != nil {
				return err
			}
			showtimeID, err := parseID(args[0], "showtime id")
			if err != nil {
				return err
			}
			var seatIDs []int64
			for _, arg := range args[1:] {
				id, err := parseID(arg, "seat id")
				if err != nil {
					return err
				}
				if !slices.Contains(seatIDs, id) {
					seatIDs = append(seatIDs, id)
				}
			}

			out := cmd.OutOrStdout()
			nav := booking.NavigatorFunc(func(address string) {
				fmt.Fprintf(out, "Continue at %s\n", address)
			})
			wf := booking.NewWorkflow(a.client, nav, a.cfg.MaxSeats, a.log)
			if err := wf.Load(cmd.Context(), showtimeID); err != nil {
				return workflowError(err)
			}
			if err := store.RememberShowtime(wf.Showtime()); err != nil {
				a.log.Warn("remember showtime", "error", err)
			}

			for _, id := range seatIDs {
				result, err := wf.ToggleSeat(id)
				if err != nil {
					if errors.Is(err, booking.ErrUnknownSeat) {
						return fmt.Errorf("seat %d does not belong to showtime %d", id, showtimeID)
					}
					return workflowError(err)
				}
				if result == booking.Ignored {
					return fmt.Errorf("seat %d is already reserved", id)
				}
			}

			fmt.Fprintf(out, "Reserving %d seat(s) for %s • total %s\n", len(seatIDs), wf.Showtime().Movie, wf.Total())
			reservation, err := wf.Submit(cmd.Context())
			if err != nil {
				return workflowError(err)
			}
			fmt.Fprintf(out, "Reservation #%d created\n", reservation.Id)
			return nil
		},
	}
}

// workflowError keeps 401s recognisable and turns everything else into the
// message the TUI would show.
func workflowError(err error) error {
	if service.IsUnauthorized(err) {
		return err
	}
	return errors.New(booking.Message(err))
}

func newCheckoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "checkout <reservation-id>",
		Short: "Show the checkout summary of a reservation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireLogin(); err != nil {
				return err
			}
			reservationID, err := parseID(args[0], "reservation id")
			if err != nil {
				return err
			}
			reservation, err := a.client.GetReservation(cmd.Context(), reservationID)
			if err != nil {
				return err
			}
			showtimes, err := a.catalog.Showtimes(cmd.Context(), false)
			if err != nil {
				a.log.Warn("load showtimes for checkout", "error", err)
			}
			showtime, found := findShowtime(showtimes, reservation.ShowtimeId)
			renderCheckout(cmd.OutOrStdout(), reservation, showtime, found)
			return nil
		},
	}
}

func newReservationsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reservations",
		Short: "List your reservations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireLogin(); err != nil {
				return err
			}
			reservations, err := a.client.ListReservations(cmd.Context())
			if err != nil {
				return err
			}
			showtimes, _ := a.catalog.Showtimes(cmd.Context(), false)

			t := newTable(cmd.OutOrStdout())
			t.AppendHeader(table.Row{"ID", "Showtime", "Seats", "Status", "Total", "Created"})
			for _, reservation := range reservations {
				label := fmt.Sprintf("#%d", reservation.ShowtimeId)
				if showtime, ok := findShowtime(showtimes, reservation.ShowtimeId); ok {
					label = fmt.Sprintf("%s • %s", showtime.Movie, formatTime(showtime.StartTime))
				}
				t.AppendRow(table.Row{
					reservation.Id,
					label,
					formatSeatIDs(reservation.SeatIds),
					reservation.StatusLabel(),
					reservation.TotalPrice.String(),
					formatTime(reservation.CreatedAt),
				})
			}
			t.Render()
			return nil
		},
	}
}

func renderCheckout(out io.Writer, reservation model.Reservation, showtime model.Showtime, found bool) {
	fmt.Fprintf(out, "Reservation #%d\n", reservation.Id)
	if found {
		fmt.Fprintf(out, "%s • %s • %s\n", showtime.Movie, showtime.Hall, formatTime(showtime.StartTime))
	} else {
		fmt.Fprintf(out, "Showtime #%d\n", reservation.ShowtimeId)
	}
	total := reservation.TotalPrice
	if total == 0 && found {
		total = booking.Total(showtime.Price, len(reservation.SeatIds))
	}
	fmt.Fprintf(out, "Seats: %s\n", formatSeatIDs(reservation.SeatIds))
	fmt.Fprintf(out, "Total: %s\n", total)
	fmt.Fprintf(out, "Status: %s\n", reservation.StatusLabel())
}

func findShowtime(showtimes []model.Showtime, id int64) (model.Showtime, bool) {
	for _, showtime := range showtimes {
		if showtime.Id == id {
			return showtime, true
		}
	}
	return model.Showtime{}, false
}

func formatSeatIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("%d", id)
	}
	return strings.Join(parts, ", ")
}
