package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rl1809/room-allocator/internal/core/domain"
)

func showCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "List free rooms per floor",
		RunE: func(cmd *cobra.Command, args []string) error {
			inv, err := opts.inventory()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.wantJSON(out) {
				return writeJSON(out, inv.Floors())
			}

			for _, fv := range inv.Floors() {
				free := make([]string, 0, fv.Available)
				for _, r := range fv.Rooms {
					if !r.Booked {
						free = append(free, fmt.Sprint(r.Number))
					}
				}
				fmt.Fprintf(out, "floor %2d  %2d/%-2d free  %s\n", fv.Floor, fv.Available, len(fv.Rooms), strings.Join(free, " "))
			}
			fmt.Fprintf(out, "total     %d/%d free\n", inv.TotalAvailable(), domain.TotalRooms)
			return nil
		},
	}
}
