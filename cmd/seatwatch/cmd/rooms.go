package cmd

import (
	"github.com/spf13/cobra"

	domain "github.com/hmuraoka/seatwatch/pkg/types"
)

var roomsCmd = &cobra.Command{
	Use:   "rooms",
	Short: "List the room categories the watcher resolves",
	RunE:  runRooms,
}

func init() {
	rootCmd.AddCommand(roomsCmd)
}

func runRooms(_ *cobra.Command, _ []string) error {
	rooms := domain.DefaultRooms()
	if jsonOutput() {
		return outputJSON(rooms)
	}
	return printRoomsTable(rooms)
}
