package developers

import (
	"fmt"

	resty "github.com/go-resty/resty/v2"
	"github.com/pebble-dev/devportal/pkg/portal/requests"
	"github.com/spf13/cobra"
)

var name string
var token string
var portalHost string

func init() {
	Developers.AddCommand(onboard)
	onboard.Flags().StringVarP(&name, "name", "n", "", "Display name for the developer")
	onboard.Flags().StringVarP(&token, "token", "t", "", "Auth token of the developer")
	onboard.Flags().StringVarP(&portalHost, "portal-host", "p", "http://localhost:8080", "The host name of the portal with port and protocol scheme (ex. http://localhost:8080)")
	_ = onboard.MarkFlagRequired("name")
	_ = onboard.MarkFlagRequired("token")
}

var Developers = &cobra.Command{
	Use:   "developers",
	Long:  "developers",
	Short: "developers",
}

var onboard = &cobra.Command{
	Use:   "onboard",
	Short: "Onboards a developer against a running portal",
	Run: func(cmd *cobra.Command, args []string) {
		u := requests.Onboard{
			Name: name,
		}

		client := resty.New()
		request := client.R()
		request.SetHeader("Authorization", token)
		request.SetBody(&u)
		resp, err := request.Post(portalHost + "/api/v2/onboard")

		if err != nil {
			fmt.Println(err)
			return
		}

		fmt.Printf("%v\n", string(resp.Body()))
	},
}
