package responses

// Error is the body every failed request gets; "e" is the machine-readable
// code the legacy clients already dispatch on.
type Error struct {
	Error string `json:"error"`
	Code  string `json:"e"`
}

type Onboard struct {
	Success bool   `json:"success"`
	Id      string `json:"id,omitempty"`
	Message string `json:"message"`
}

type Submit struct {
	Success bool   `json:"success"`
	Id      string `json:"id"`
}

type Update struct {
	Success bool   `json:"success"`
	Id      string `json:"id"`
}
