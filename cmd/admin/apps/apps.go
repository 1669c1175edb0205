package apps

import (
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/pebble-dev/devportal/pkg/database"
	"github.com/pebble-dev/devportal/pkg/repositories"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func init() {
	Apps.AddCommand(list)
}

var Apps = &cobra.Command{
	Use:   "apps",
	Long:  "apps",
	Short: "apps",
}

var list = &cobra.Command{
	Use:   "list",
	Short: "Lists every app in the store database",
	Run: func(cmd *cobra.Command, args []string) {
		db, err := database.CreateDatabase()
		if err != nil {
			logrus.Fatal(err)
		}

		appsRepo := repositories.NewAppsRepository(db)
		apps, err := appsRepo.GetApps()
		if err != nil {
			logrus.Fatal(err)
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Id", "UUID", "Title", "Type", "Developer", "Releases", "Hearts"})

		for _, app := range *apps {
			table.Append([]string{
				app.ID,
				app.UUID,
				app.Title,
				app.Type,
				app.DeveloperID,
				strconv.Itoa(len(app.Releases)),
				strconv.Itoa(app.Hearts),
			})
		}

		table.Render()
	},
}
