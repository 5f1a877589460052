package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rl1809/room-allocator/internal/core/allocation"
	"github.com/rl1809/room-allocator/internal/core/domain"
)

type bookResult struct {
	Success   bool   `json:"success"`
	Message   string `json:"message,omitempty"`
	Rooms     []int  `json:"rooms,omitempty"`
	Available int    `json:"available"`
}

func bookCmd(opts *options) *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "book",
		Short: "Pick rooms for a booking of 1 to 5 rooms",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := domain.ValidateCount(count); err != nil {
				return fmt.Errorf("--count must be between %d and %d", domain.MinRequest, domain.MaxRequest)
			}

			inv, err := opts.inventory()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			result := bookResult{Available: inv.TotalAvailable()}

			selection, err := allocation.Allocate(inv, count)
			switch {
			case errors.Is(err, domain.ErrAllocationFailed):
				result.Message = "not enough rooms available"
			case err != nil:
				return err
			default:
				next, err := inv.WithBooked(selection)
				if err != nil {
					return err
				}
				result.Success = true
				result.Available = next.TotalAvailable()
				for _, ref := range selection {
					result.Rooms = append(result.Rooms, ref.Number)
				}
			}

			if opts.wantJSON(out) {
				return writeJSON(out, result)
			}
			if !result.Success {
				fmt.Fprintln(out, result.Message)
				return nil
			}
			numbers := make([]string, len(result.Rooms))
			for i, n := range result.Rooms {
				numbers[i] = fmt.Sprint(n)
			}
			fmt.Fprintf(out, "Booked rooms: %s\n", strings.Join(numbers, ", "))
			fmt.Fprintf(out, "Rooms still free: %d\n", result.Available)
			return nil
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 1, "Number of rooms to book (1-5)")
	return cmd
}
