package models

// Developer is keyed by the id the auth service hands out, so there can
// only ever be one row per identity.
type Developer struct {
	ID   string `gorm:"primaryKey" json:"id"`
	Name string `json:"name"`

	Apps []App
}
