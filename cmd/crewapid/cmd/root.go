package cmd

import (
	"os"

	"github.com/apex/log"
	"github.com/crewlab/crew/pkg/config"
	"github.com/crewlab/crew/pkg/crewdb"
	"github.com/crewlab/crew/pkg/crewdb/stor"
	"github.com/crewlab/crew/pkg/teams"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "crewapid",
	Short: "Run the crewapid team access-control API server",
	Long:  ``,
	Run: func(cmd *cobra.Command, args []string) {
		e := echo.New()
		e.HideBanner = true
		e.HidePort = true
		e.Use(middleware.Recover())

		db := crewdb.MustConnectToDB()
		c := config.MustLoadFromCrewDotenv()

		stors := stor.NewGormStors(db)

		teamCreationEnabled := c.GetBoolKeyWithDefault("CREW_TEAM_CREATION", true)
		log.Infof("Team creation enabled: %t", teamCreationEnabled)

		setupRoutes(e, RouteOpts{
			stors:      stors,
			policy:     teams.NewPolicy(stors, teamCreationEnabled),
			registry:   teams.NewRegistry(stors),
			issuer:     teams.NewIssuer(stors),
			acceptance: teams.NewAcceptance(stors),
		})

		if err := e.Start(":" + c.GetKeyWithDefault("CREWAPID_PORT", "1360")); err != nil {
			log.Fatalf("Unable to start server: %v", err)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
