package admin

import (
	"fmt"
	"os"
	"sort"

	"github.com/olekukonko/tablewriter"
	"github.com/pebble-dev/devportal/cmd/admin/apps"
	"github.com/pebble-dev/devportal/cmd/admin/developers"
	"github.com/pebble-dev/devportal/config"
	"github.com/pebble-dev/devportal/pkg/categories"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	Admin.AddCommand(apps.Apps)
	Admin.AddCommand(developers.Developers)
	Admin.AddCommand(info)
	Admin.AddCommand(categoriesCmd)
}

var Admin = &cobra.Command{
	Use:              "devportal-admin",
	TraverseChildren: true,
}

var info = &cobra.Command{
	Use:   "info",
	Short: "info",
	Run: func(cmd *cobra.Command, args []string) {
		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Name", "Value"})

		var defaultValueKeys []string
		for k := range config.DefaultValues {
			defaultValueKeys = append(defaultValueKeys, k)
		}

		sort.Strings(defaultValueKeys)

		for _, k := range defaultValueKeys {
			table.Append([]string{k, fmt.Sprintf("%+v", config.DefaultValues[k])})
		}
		table.Render()

		table = tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Name", "Value"})

		allKeys := viper.AllKeys()
		sort.Strings(allKeys)

		for _, k := range allKeys {
			table.Append([]string{k, fmt.Sprintf("%+v", viper.Get(k))})
		}
		table.Render()
	},
}

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "Lists the category name to id mapping",
	Run: func(cmd *cobra.Command, args []string) {
		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Name", "Id"})

		names := categories.Names()
		sort.Strings(names)

		for _, name := range names {
			table.Append([]string{name, categories.Map[name]})
		}
		table.Render()
	},
}
