package categories

// Map translates the category names the submission form uses into the
// category ids the store database has carried since the Pebble days.
var Map = map[string]string{
	"Notifications":     "5261a8fb3b773043d5000001",
	"Health & Fitness":  "5261a8fb3b773043d5000004",
	"Remotes":           "5261a8fb3b773043d5000008",
	"Daily":             "5261a8fb3b773043d500000c",
	"Tools & Utilities": "5261a8fb3b773043d500000f",
	"Games":             "5261a8fb3b773043d5000012",
	"Index":             "527509e36526cda2d4000019",
	"Faces":             "528d3ef2dc7b5f580700000a",
	"GetSomeApps":       "52ccee3151a80d28e100003e",
}

// Faces is immutable once assigned; watchfaces cannot be recategorized.
const Faces = "Faces"

func IsValid(name string) bool {
	_, ok := Map[name]
	return ok
}

func Id(name string) (string, bool) {
	id, ok := Map[name]
	return id, ok
}

// Names returns every known category name, for operator tooling.
func Names() []string {
	names := make([]string, 0, len(Map))
	for name := range Map {
		names = append(names, name)
	}
	return names
}
