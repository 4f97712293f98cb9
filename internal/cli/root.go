package cli

import "github.com/spf13/cobra"

func RootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "zonetrack",
		Short: "Client, location and zone tracking API",
		Long: `zonetrack serves the client workspace API: locations, zones, check-in
records, users, jobs and items, with the users table kept in step with the
users embedded in each client.`,
		SilenceUsage: true,
	}
	root.AddCommand(ServeCmd())
	root.AddCommand(MigrateCmd())
	root.AddCommand(SeedCmd())
	root.AddCommand(ReconcileCmd())
	root.AddCommand(TreeCmd())
	return root
}
