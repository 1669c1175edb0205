package models

import (
	"strings"
	"time"
)

// Release is immutable once created; a new submission of the same app would
// create a new release rather than touching an old one.
type Release struct {
	ID    string `gorm:"primaryKey" json:"id"`
	AppID string `json:"app_id"`

	Version      string    `json:"version"`
	ReleaseNotes string    `json:"release_notes"`
	Published    time.Time `json:"published"`

	// Compatibility is the comma-joined subset of platforms this release
	// supports, taken from the manifest's targetPlatforms.
	Compatibility string `json:"compatibility"`

	// PbwFilename is the object name of the uploaded pbw in the pbw bucket.
	PbwFilename string `json:"pbw_filename"`
}

func (r *Release) CompatibilityList() []string {
	if r.Compatibility == "" {
		return nil
	}
	return strings.Split(r.Compatibility, ",")
}

func (r *Release) SetCompatibilityList(platforms []string) {
	r.Compatibility = strings.Join(platforms, ",")
}
