package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var favCmd = &cobra.Command{
	Use:   "fav",
	Short: "Manage favourite commands",
}

var favListCmd = &cobra.Command{
	Use:   "list",
	Short: "List favourites",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		favs, err := st.Favourites()
		if err != nil {
			return err
		}
		if len(favs) == 0 {
			fmt.Println("No favourites saved.")
			return nil
		}
		for _, f := range favs {
			fmt.Println(f)
		}
		return nil
	},
}

var favAddCmd = &cobra.Command{
	Use:   "add [command...]",
	Short: "Add a favourite",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		command := strings.Join(args, " ")
		added, err := st.AddFavourite(command)
		if err != nil {
			return err
		}
		if !added {
			fmt.Printf("%q is already a favourite.\n", command)
			return nil
		}
		fmt.Printf("Added %q to favourites.\n", command)
		return nil
	},
}

var favRemoveCmd = &cobra.Command{
	Use:   "remove [command...]",
	Short: "Remove a favourite",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		command := strings.Join(args, " ")
		removed, err := st.RemoveFavourite(command)
		if err != nil {
			return err
		}
		if !removed {
			return fmt.Errorf("%q is not a favourite", command)
		}
		fmt.Printf("Removed %q from favourites.\n", command)
		return nil
	},
}

func init() {
	favCmd.AddCommand(favListCmd)
	favCmd.AddCommand(favAddCmd)
	favCmd.AddCommand(favRemoveCmd)
}
