package pbw

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrInvalidPackage means the uploaded bytes are not a readable pbw archive
// or the appinfo.json inside it is missing or not JSON.
var ErrInvalidPackage = errors.New("pbw file is invalid or corrupted")

// ManifestError reports a required appinfo.json field that is absent or
// malformed.
type ManifestError struct {
	Field  string
	Reason string
}

func (e *ManifestError) Error() string {
	return fmt.Sprintf("appinfo.json field '%s' %s", e.Field, e.Reason)
}

// DefaultCompatibility is assumed when a manifest does not declare
// targetPlatforms; it matches what the legacy portal assumed.
var DefaultCompatibility = []string{"aplite", "basalt", "diorite", "emery"}

// releasePlatforms is every platform a release may target, a superset of
// the platforms asset collections are keyed by.
var releasePlatforms = map[string]bool{
	"aplite":  true,
	"basalt":  true,
	"chalk":   true,
	"diorite": true,
	"emery":   true,
}

type AppInfo struct {
	UUID            string   `json:"uuid"`
	ShortName       string   `json:"shortName"`
	LongName        string   `json:"longName"`
	CompanyName     string   `json:"companyName"`
	VersionLabel    string   `json:"versionLabel"`
	SDKVersion      string   `json:"sdkVersion"`
	TargetPlatforms []string `json:"targetPlatforms"`
}

type Pbw struct {
	AppInfo AppInfo
}

// Parse opens raw pbw bytes as a zip archive and extracts appinfo.json.
// It does not touch disk or the network.
func Parse(data []byte) (*Pbw, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, ErrInvalidPackage
	}

	var appInfoFile *zip.File
	for _, f := range reader.File {
		if f.Name == "appinfo.json" {
			appInfoFile = f
			break
		}
	}

	if appInfoFile == nil {
		return nil, ErrInvalidPackage
	}

	rc, err := appInfoFile.Open()
	if err != nil {
		return nil, ErrInvalidPackage
	}
	defer rc.Close()

	var appInfo AppInfo
	if err := json.NewDecoder(rc).Decode(&appInfo); err != nil {
		return nil, ErrInvalidPackage
	}

	if err := validateAppInfo(&appInfo); err != nil {
		return nil, err
	}

	return &Pbw{AppInfo: appInfo}, nil
}

func validateAppInfo(appInfo *AppInfo) error {
	if appInfo.UUID == "" {
		return &ManifestError{Field: "uuid", Reason: "is missing"}
	}

	if _, err := uuid.Parse(appInfo.UUID); err != nil {
		return &ManifestError{Field: "uuid", Reason: "is not a valid UUID"}
	}

	if appInfo.VersionLabel == "" {
		return &ManifestError{Field: "versionLabel", Reason: "is missing"}
	}

	for _, platform := range appInfo.TargetPlatforms {
		if !releasePlatforms[platform] {
			return &ManifestError{Field: "targetPlatforms", Reason: fmt.Sprintf("contains unknown platform '%s'", platform)}
		}
	}

	return nil
}

func (p *Pbw) Version() string {
	return p.AppInfo.VersionLabel
}

// Compatibility returns the platforms the release supports, falling back to
// the standard set when the manifest says nothing.
func (p *Pbw) Compatibility() []string {
	if len(p.AppInfo.TargetPlatforms) == 0 {
		return DefaultCompatibility
	}

	return p.AppInfo.TargetPlatforms
}
