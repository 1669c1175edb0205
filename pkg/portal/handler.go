package portal

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/pebble-dev/devportal/pkg/auth"
	"github.com/pebble-dev/devportal/pkg/categories"
	"github.com/pebble-dev/devportal/pkg/idgen"
	"github.com/pebble-dev/devportal/pkg/models"
	"github.com/pebble-dev/devportal/pkg/objectstore"
	"github.com/pebble-dev/devportal/pkg/pbw"
	"github.com/pebble-dev/devportal/pkg/portal/requests"
	"github.com/pebble-dev/devportal/pkg/portal/responses"
	"github.com/pebble-dev/devportal/pkg/repositories"
	"github.com/pebble-dev/devportal/pkg/search"
	"github.com/sirupsen/logrus"
)

const maxScreenshotsPerPlatform = 6
const maxTitleLength = 45

type IPortalHandler interface {
	Onboard(authorization string, req *requests.Onboard) (*responses.Onboard, *Error)
	SubmitApp(authorization string, form *SubmissionForm) (*responses.Submit, *Error)
	UpdateApp(authorization string, appId string, patch map[string]interface{}) (*responses.Update, *Error)
}

// PortalHandler carries every collaborator handle explicitly; there is no
// package-level client state.
type PortalHandler struct {
	developers repositories.IDevelopersRepository
	apps       repositories.IAppsRepository
	objStore   objectstore.IObjectStore
	authClient auth.IClient
	ids        idgen.Generator
	indexer    search.IIndexer
}

func NewPortalHandler(developers repositories.IDevelopersRepository, apps repositories.IAppsRepository,
	objStore objectstore.IObjectStore, authClient auth.IClient, ids idgen.Generator, indexer search.IIndexer) *PortalHandler {
	return &PortalHandler{
		developers: developers,
		apps:       apps,
		objStore:   objStore,
		authClient: authClient,
		ids:        ids,
		indexer:    indexer,
	}
}

func (h *PortalHandler) Onboard(authorization string, req *requests.Onboard) (*responses.Onboard, *Error) {
	accountInfo, err := h.authClient.GetAccount(authorization)
	if err != nil {
		if errors.Is(err, auth.ErrUnauthenticated) {
			return nil, errUnauthenticated()
		}
		logrus.Error(err)
		return nil, errInternal()
	}

	if req.Name == "" {
		return nil, NewError(http.StatusBadRequest, "Missing required field: name", "missing.field.name")
	}

	developer, err := h.developers.GetDeveloper(accountInfo.Id)
	if err != nil {
		logrus.Error(err)
		return nil, errInternal()
	}

	if developer != nil {
		return &responses.Onboard{Success: true, Message: "User is already onboard"}, nil
	}

	if _, err := h.developers.AddDeveloper(accountInfo.Id, req.Name); err != nil {
		logrus.Error(err)
		return nil, errInternal()
	}

	return &responses.Onboard{Success: true, Id: accountInfo.Id, Message: "Onboarded user"}, nil
}

// SubmitApp runs the whole submission: form validation, pbw parsing, asset
// uploads and the transactional creation of the app plus its first release.
// Nothing is persisted until every upload the records reference succeeded.
func (h *PortalHandler) SubmitApp(authorization string, form *SubmissionForm) (*responses.Submit, *Error) {
	ok, message, code := ValidateSubmission(form)
	if !ok {
		return nil, NewError(http.StatusBadRequest, message, code)
	}

	pbwFile := form.File("pbw")
	parsedPbw, err := pbw.Parse(pbwFile.Data)
	if err != nil {
		var manifestErr *pbw.ManifestError
		if errors.As(err, &manifestErr) {
			return nil, NewError(http.StatusBadRequest,
				"The appinfo.json in your pbw file has the following error: "+manifestErr.Error(), "invalid.appinfocontent")
		}
		return nil, NewError(http.StatusBadRequest, "Your pbw file is invalid or corrupted", "invalid.pbw")
	}

	appUUID := parsedPbw.AppInfo.UUID

	// fast-fail only; the unique index on uuid is the real guard
	existingApp, err := h.apps.GetAppByUUID(appUUID)
	if err != nil {
		logrus.Error(err)
		return nil, errInternal()
	}
	if existingApp != nil {
		return nil, NewError(http.StatusBadRequest, "An app already exists with that UUID", "app.exists")
	}

	accountInfo, err := h.authClient.GetAccount(authorization)
	if err != nil {
		if errors.Is(err, auth.ErrUnauthenticated) {
			return nil, errUnauthenticated()
		}
		logrus.Error(err)
		return nil, errInternal()
	}

	developer, err := h.developers.GetDeveloper(accountInfo.Id)
	if err != nil {
		logrus.Error(err)
		return nil, errInternal()
	}
	if developer == nil {
		// submissions require a prior onboard call; a missing row here is
		// an inconsistency, not something to paper over
		logrus.Errorf("No developer row for authenticated identity %s", accountInfo.Id)
		return nil, errInternal()
	}

	var headerAsset string
	if banner := form.File("banner"); banner != nil {
		headerAsset, err = h.objStore.SaveAssetFromBytes(banner.Data, banner.ContentType)
		if err != nil {
			logrus.Error(err)
			return nil, errInternal()
		}
	}

	screenshots := collectScreenshots(form)

	assetCollections := make([]models.AssetCollection, 0, len(screenshots))
	for _, platform := range models.Platforms {
		platformFiles := screenshots[platform]
		if len(platformFiles) == 0 {
			// platforms without a single screenshot are not kept
			continue
		}

		var screenshotRefs []string
		for _, screenshot := range platformFiles {
			ref, err := h.objStore.SaveAssetFromBytes(screenshot.Data, screenshot.ContentType)
			if err != nil {
				logrus.Error(err)
				return nil, errInternal()
			}
			screenshotRefs = append(screenshotRefs, ref)
		}

		assetCollection := models.AssetCollection{
			Platform:    platform,
			Description: form.Field("description"),
		}
		assetCollection.SetScreenshotRefs(screenshotRefs)
		if headerAsset != "" {
			assetCollection.SetHeaderRefs([]string{headerAsset})
		}

		assetCollections = append(assetCollections, assetCollection)
	}

	largeIcon := form.File("large_icon")
	iconLarge, err := h.objStore.SaveAssetFromBytes(largeIcon.Data, largeIcon.ContentType)
	if err != nil {
		logrus.Error(err)
		return nil, errInternal()
	}

	var iconSmall string
	if smallIcon := form.File("small_icon"); smallIcon != nil {
		iconSmall, err = h.objStore.SaveAssetFromBytes(smallIcon.Data, smallIcon.ContentType)
		if err != nil {
			logrus.Error(err)
			return nil, errInternal()
		}
	}

	categoryId, ok := categories.Id(form.Field("category"))
	if !ok {
		// ValidateSubmission already checked this
		return nil, NewError(http.StatusBadRequest, "Invalid value for field: category", "invalid.field.category")
	}

	app := models.App{
		ID:               h.ids.Generate(),
		UUID:             appUUID,
		Title:            form.Field("title"),
		Type:             form.Field("type"),
		CategoryId:       categoryId,
		Website:          form.Field("website"),
		Source:           form.Field("source"),
		IconLarge:        iconLarge,
		IconSmall:        iconSmall,
		Hearts:           0,
		CreatedAt:        time.Now().UTC(),
		DeveloperID:      developer.ID,
		AssetCollections: assetCollections,
	}

	release := models.Release{
		ID:           h.ids.Generate(),
		Version:      parsedPbw.Version(),
		ReleaseNotes: form.Field("release_notes"),
		Published:    time.Now().UTC(),
	}
	release.SetCompatibilityList(parsedPbw.Compatibility())
	release.PbwFilename = release.ID + ".pbw"

	if err := h.objStore.SavePbwFromBytes(release.PbwFilename, pbwFile.Data); err != nil {
		logrus.Error(err)
		return nil, errInternal()
	}

	if err := h.apps.CreateAppWithRelease(&app, &release); err != nil {
		// a concurrent submission can slip past the pre-check; the unique
		// index answers authoritatively at commit time
		if strings.Contains(err.Error(), "duplicate key") {
			return nil, NewError(http.StatusBadRequest, "An app already exists with that UUID", "app.exists")
		}
		logrus.Error(err)
		return nil, errInternal()
	}

	logrus.Infof("Created app %s with release %s", app.ID, release.ID)

	if h.indexer != nil {
		if err := h.indexer.IndexApp(&app); err != nil {
			// indexing is best-effort, the submission already happened
			logrus.Error(err)
		}
	}

	return &responses.Submit{Success: true, Id: app.ID}, nil
}

func (h *PortalHandler) UpdateApp(authorization string, appId string, patch map[string]interface{}) (*responses.Update, *Error) {
	if patchErr := ValidatePatch(patch); patchErr != nil {
		return nil, patchErr
	}

	app, err := h.apps.GetApp(appId, true)
	if err != nil {
		logrus.Error(err)
		return nil, errInternal()
	}
	if app == nil {
		return nil, NewError(http.StatusBadRequest, "Unknown app", "app.notfound")
	}

	accountInfo, err := h.authClient.GetAccount(authorization)
	if err != nil {
		if errors.Is(err, auth.ErrUnauthenticated) {
			return nil, errUnauthenticated()
		}
		logrus.Error(err)
		return nil, errInternal()
	}

	if accountInfo.Id != app.DeveloperID {
		return nil, NewError(http.StatusForbidden, "You do not have permission to modify that app", "permission.denied")
	}

	if category, present := patch["category"]; present {
		if !categories.IsValid(category.(string)) {
			return nil, NewError(http.StatusBadRequest, "Invalid value for field: category", "invalid.field.category")
		}
	}
	if visible, present := patch["visible"]; present {
		lowered := strings.ToLower(visible.(string))
		if lowered != "true" && lowered != "false" {
			return nil, NewError(http.StatusBadRequest, "Invalid value for field: visible", "invalid.field.visible")
		}
	}

	if _, present := patch["category"]; present && app.CategoryId == categories.Map[categories.Faces] {
		return nil, NewError(http.StatusBadRequest, "Cannot change category for watchface", "disallowed.field.category")
	}

	if title, present := patch["title"]; present && len(title.(string)) > maxTitleLength {
		return nil, NewError(http.StatusBadRequest, "Title must be less than 45 characters", "invalid.field.title")
	}

	// every check passed; only now is any field touched
	applyPatch(app, patch)

	if err := h.apps.UpdateApp(app); err != nil {
		logrus.Error(err)
		return nil, errInternal()
	}

	return &responses.Update{Success: true, Id: app.ID}, nil
}

// applyPatch mutates exactly the fields present in the patch. The field set
// is fixed here rather than driven by reflection, so adding a patchable
// field means touching both this switch and the allow-list.
func applyPatch(app *models.App, patch map[string]interface{}) {
	for name, value := range patch {
		stringValue := value.(string)
		switch name {
		case "title":
			app.Title = stringValue
		case "category":
			app.CategoryId = categories.Map[stringValue]
		case "website":
			app.Website = stringValue
		case "source":
			app.Source = stringValue
		case "visible":
			app.Visible = strings.ToLower(stringValue) == "true"
		case "description":
			for i := range app.AssetCollections {
				app.AssetCollections[i].Description = stringValue
			}
		}
	}
}

// collectScreenshots maps uploaded screenshot files onto platforms.
// Platform-addressed fields win; the generic set is only consulted when no
// platform-addressed screenshot was sent, and then feeds every platform
// identically.
func collectScreenshots(form *SubmissionForm) map[string][]*File {
	screenshots := map[string][]*File{}

	foundPlatformSpecific := false
	for _, platform := range models.Platforms {
		for i := 0; i < maxScreenshotsPerPlatform; i++ {
			if file := form.File(screenshotField(platform, i)); file != nil {
				screenshots[platform] = append(screenshots[platform], file)
				foundPlatformSpecific = true
			}
		}
	}

	if foundPlatformSpecific {
		return screenshots
	}

	for i := 0; i < maxScreenshotsPerPlatform; i++ {
		if file := form.File(screenshotField("generic", i)); file != nil {
			for _, platform := range models.Platforms {
				screenshots[platform] = append(screenshots[platform], file)
			}
		}
	}

	return screenshots
}

func screenshotField(platform string, index int) string {
	return "screenshot-" + platform + "-" + strconv.Itoa(index)
}
