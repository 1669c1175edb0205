package requests

type Onboard struct {
	Name string `json:"name"`
}
