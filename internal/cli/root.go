// Package cli implements roomctl, a local front end over the allocator: it
// builds an inventory, runs one allocation and prints the outcome.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rl1809/room-allocator/internal/core/domain"
)

type options struct {
	output       string
	occupancy    float64
	occupancySet bool
	seed         uint64
	booked       []string
}

func NewRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "roomctl",
		Short: "Allocate hotel rooms with the same-floor-first policy",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			opts.occupancySet = cmd.Flags().Changed("occupancy")
			switch opts.output {
			case "", "text", "json":
				return nil
			}
			return fmt.Errorf("--output must be text or json, got %q", opts.output)
		},
		SilenceUsage: true,
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.output, "output", "o", "", "Output format: text or json (default: json when stdout is not a terminal)")
	flags.Float64Var(&opts.occupancy, "occupancy", 0, "Probability that each room starts booked")
	flags.Uint64Var(&opts.seed, "seed", 0, "Seed for --occupancy (0 picks one from the clock)")
	flags.StringSliceVar(&opts.booked, "booked", nil, "Room numbers that start booked, e.g. 101,102")

	root.AddCommand(bookCmd(opts))
	root.AddCommand(showCmd(opts))
	return root
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// inventory builds the starting inventory from the persistent flags.
func (o *options) inventory() (domain.Inventory, error) {
	inv := domain.NewInventory()
	if o.occupancySet {
		seed := o.seed
		if seed == 0 {
			seed = uint64(time.Now().UnixNano())
		}
		var err error
		inv, err = domain.Randomized(o.occupancy, rand.New(rand.NewPCG(seed, seed)))
		if err != nil {
			return domain.Inventory{}, err
		}
	}

	refs, err := parseRooms(o.booked)
	if err != nil {
		return domain.Inventory{}, err
	}
	// rooms already taken by --occupancy are skipped rather than rejected
	var pending []domain.RoomRef
	for _, ref := range refs {
		if r, ok := inv.Room(ref.Number); ok && r.Booked {
			continue
		}
		pending = append(pending, ref)
	}
	return inv.WithBooked(pending)
}

func parseRooms(values []string) ([]domain.RoomRef, error) {
	seen := make(map[int]bool)
	var refs []domain.RoomRef
	for _, v := range values {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return nil, fmt.Errorf("invalid room number %q", v)
		}
		if seen[n] {
			continue
		}
		seen[n] = true
		refs = append(refs, domain.RoomRef{Floor: domain.FloorOf(n), Number: n})
	}
	return refs, nil
}

func (o *options) wantJSON(w io.Writer) bool {
	switch o.output {
	case "json":
		return true
	case "text":
		return false
	}
	f, ok := w.(*os.File)
	return !ok || !term.IsTerminal(int(f.Fd()))
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
