package portal

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"testing"

	"github.com/pebble-dev/devportal/pkg/auth"
	"github.com/pebble-dev/devportal/pkg/models"
	"github.com/pebble-dev/devportal/pkg/portal/requests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDevelopers struct {
	developers map[string]*models.Developer
	added      []string
}

func (f *fakeDevelopers) GetDeveloper(id string) (*models.Developer, error) {
	if developer, ok := f.developers[id]; ok {
		return developer, nil
	}
	return nil, nil
}

func (f *fakeDevelopers) AddDeveloper(id string, name string) (*models.Developer, error) {
	developer := &models.Developer{ID: id, Name: name}
	f.developers[id] = developer
	f.added = append(f.added, id)
	return developer, nil
}

type fakeApps struct {
	byId       map[string]*models.App
	byUUID     map[string]*models.App
	createdApp *models.App
	createdRel *models.Release
	createErr  error
	updatedApp *models.App
	updateErr  error
}

func (f *fakeApps) GetApp(id string, preloadAssociations bool) (*models.App, error) {
	if app, ok := f.byId[id]; ok {
		return app, nil
	}
	return nil, nil
}

func (f *fakeApps) GetAppByUUID(uuid string) (*models.App, error) {
	if app, ok := f.byUUID[uuid]; ok {
		return app, nil
	}
	return nil, nil
}

func (f *fakeApps) CreateAppWithRelease(app *models.App, release *models.Release) error {
	if f.createErr != nil {
		return f.createErr
	}
	release.AppID = app.ID
	app.Releases = append(app.Releases, *release)
	f.createdApp = app
	f.createdRel = release
	return nil
}

func (f *fakeApps) UpdateApp(app *models.App) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updatedApp = app
	return nil
}

func (f *fakeApps) GetApps() (*[]models.App, error) {
	return &[]models.App{}, nil
}

type fakeObjectStore struct {
	assetCount int
	assetFail  bool
	pbwFail    bool
	pbwSaved   map[string][]byte
}

func (f *fakeObjectStore) SaveAssetFromBytes(data []byte, contentType string) (string, error) {
	if f.assetFail {
		return "", errors.New("minio is down")
	}
	f.assetCount++
	return fmt.Sprintf("asset-%d", f.assetCount), nil
}

func (f *fakeObjectStore) SavePbwFromBytes(objectName string, data []byte) error {
	if f.pbwFail {
		return errors.New("minio is down")
	}
	if f.pbwSaved == nil {
		f.pbwSaved = map[string][]byte{}
	}
	f.pbwSaved[objectName] = data
	return nil
}

func (f *fakeObjectStore) GetFileFromBucket(bucket string, objectName string) (*[]byte, error) {
	return nil, nil
}

type fakeAuth struct {
	account *auth.AccountInfo
	err     error
	calls   int
}

func (f *fakeAuth) GetAccount(authorization string) (*auth.AccountInfo, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.account, nil
}

type fakeIds struct {
	next int
}

func (f *fakeIds) Generate() string {
	f.next++
	return fmt.Sprintf("id-%d", f.next)
}

type fakeIndexer struct {
	indexed []*models.App
	err     error
}

func (f *fakeIndexer) IndexApp(app *models.App) error {
	f.indexed = append(f.indexed, app)
	return f.err
}

type handlerFixture struct {
	developers *fakeDevelopers
	apps       *fakeApps
	objStore   *fakeObjectStore
	authClient *fakeAuth
	indexer    *fakeIndexer
	handler    *PortalHandler
}

func newFixture() *handlerFixture {
	f := &handlerFixture{
		developers: &fakeDevelopers{developers: map[string]*models.Developer{
			"dev-1": {ID: "dev-1", Name: "Jane Doe"},
		}},
		apps:       &fakeApps{byId: map[string]*models.App{}, byUUID: map[string]*models.App{}},
		objStore:   &fakeObjectStore{},
		authClient: &fakeAuth{account: &auth.AccountInfo{Id: "dev-1", Name: "Jane Doe"}},
		indexer:    &fakeIndexer{},
	}
	f.handler = NewPortalHandler(f.developers, f.apps, f.objStore, f.authClient, &fakeIds{}, f.indexer)
	return f
}

const testUUID = "3f908cb7-c0e4-4f91-bd1f-90854fd16f62"

func makePbwData(t *testing.T, appInfoJSON string) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	f, err := w.Create("appinfo.json")
	require.NoError(t, err)
	_, err = f.Write([]byte(appInfoJSON))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	return buf.Bytes()
}

func validPbwData(t *testing.T) []byte {
	return makePbwData(t, `{
		"uuid": "`+testUUID+`",
		"shortName": "Paperweight",
		"versionLabel": "1.4",
		"targetPlatforms": ["aplite", "basalt"]
	}`)
}

func validSubmission(t *testing.T) *SubmissionForm {
	return &SubmissionForm{
		Fields: map[string]string{
			"title":         "Paperweight",
			"description":   "Does nothing, beautifully",
			"category":      "Games",
			"type":          "watchapp",
			"release_notes": "First release",
			"website":       "https://example.com",
			"source":        "https://example.com/src",
		},
		Files: map[string]*File{
			"pbw":                 {Data: validPbwData(t), ContentType: "application/zip"},
			"large_icon":          {Data: []byte("big"), ContentType: "image/png"},
			"screenshot-basalt-0": {Data: []byte("shot"), ContentType: "image/png"},
		},
	}
}

func TestSubmitAppCreatesAppAndRelease(t *testing.T) {
	f := newFixture()

	resp, portalErr := f.handler.SubmitApp("Bearer token", validSubmission(t))
	require.Nil(t, portalErr)
	require.NotNil(t, resp)
	assert.True(t, resp.Success)

	created := f.apps.createdApp
	require.NotNil(t, created)
	assert.Equal(t, resp.Id, created.ID)
	assert.Equal(t, testUUID, created.UUID)
	assert.Equal(t, "Paperweight", created.Title)
	assert.Equal(t, "5261a8fb3b773043d5000012", created.CategoryId)
	assert.Equal(t, "dev-1", created.DeveloperID)
	assert.Equal(t, 0, created.Hearts)
	assert.NotEmpty(t, created.IconLarge)
	assert.Empty(t, created.IconSmall)

	release := f.apps.createdRel
	require.NotNil(t, release)
	assert.Equal(t, created.ID, release.AppID)
	assert.Equal(t, "1.4", release.Version)
	assert.Equal(t, "First release", release.ReleaseNotes)
	assert.Equal(t, []string{"aplite", "basalt"}, release.CompatibilityList())

	// the uploaded pbw must live under the release's object name
	assert.Contains(t, f.objStore.pbwSaved, release.PbwFilename)

	require.Len(t, f.indexer.indexed, 1)
	assert.Equal(t, created.ID, f.indexer.indexed[0].ID)
}

func TestSubmitAppPrunesPlatformsWithoutScreenshots(t *testing.T) {
	f := newFixture()

	resp, portalErr := f.handler.SubmitApp("Bearer token", validSubmission(t))
	require.Nil(t, portalErr)
	require.NotNil(t, resp)

	collections := f.apps.createdApp.AssetCollections
	require.Len(t, collections, 1)
	assert.Equal(t, "basalt", collections[0].Platform)
	assert.Len(t, collections[0].ScreenshotRefs(), 1)
	assert.Equal(t, "Does nothing, beautifully", collections[0].Description)
}

func TestSubmitAppGenericScreenshotsReplicate(t *testing.T) {
	f := newFixture()

	form := validSubmission(t)
	delete(form.Files, "screenshot-basalt-0")
	form.Files["screenshot-generic-0"] = &File{Data: []byte("one"), ContentType: "image/png"}
	form.Files["screenshot-generic-1"] = &File{Data: []byte("two"), ContentType: "image/png"}

	_, portalErr := f.handler.SubmitApp("Bearer token", form)
	require.Nil(t, portalErr)

	collections := f.apps.createdApp.AssetCollections
	require.Len(t, collections, len(models.Platforms))
	for _, collection := range collections {
		assert.Len(t, collection.ScreenshotRefs(), 2, collection.Platform)
	}
}

func TestSubmitAppPlatformScreenshotsBeatGeneric(t *testing.T) {
	f := newFixture()

	form := validSubmission(t)
	delete(form.Files, "screenshot-basalt-0")
	form.Files["screenshot-chalk-0"] = &File{Data: []byte("round"), ContentType: "image/png"}
	form.Files["screenshot-generic-0"] = &File{Data: []byte("ignored"), ContentType: "image/png"}

	_, portalErr := f.handler.SubmitApp("Bearer token", form)
	require.Nil(t, portalErr)

	collections := f.apps.createdApp.AssetCollections
	require.Len(t, collections, 1)
	assert.Equal(t, "chalk", collections[0].Platform)
	assert.Len(t, collections[0].ScreenshotRefs(), 1)
}

func TestSubmitAppBannerBecomesHeader(t *testing.T) {
	f := newFixture()

	form := validSubmission(t)
	form.Files["banner"] = &File{Data: []byte("wide"), ContentType: "image/png"}

	_, portalErr := f.handler.SubmitApp("Bearer token", form)
	require.Nil(t, portalErr)

	collections := f.apps.createdApp.AssetCollections
	require.Len(t, collections, 1)
	assert.Len(t, collections[0].HeaderRefs(), 1)
}

func TestSubmitAppMissingFieldShortCircuits(t *testing.T) {
	f := newFixture()

	form := validSubmission(t)
	delete(form.Fields, "title")

	_, portalErr := f.handler.SubmitApp("Bearer token", form)
	require.NotNil(t, portalErr)
	assert.Equal(t, http.StatusBadRequest, portalErr.Status)
	assert.Equal(t, "missing.field.title", portalErr.Code)

	// nothing may be uploaded or verified before the form checks pass
	assert.Zero(t, f.authClient.calls)
	assert.Zero(t, f.objStore.assetCount)
}

func TestSubmitAppInvalidPbw(t *testing.T) {
	f := newFixture()

	form := validSubmission(t)
	form.Files["pbw"] = &File{Data: []byte("not a zip"), ContentType: "application/zip"}

	_, portalErr := f.handler.SubmitApp("Bearer token", form)
	require.NotNil(t, portalErr)
	assert.Equal(t, "invalid.pbw", portalErr.Code)
}

func TestSubmitAppBadManifestNamesField(t *testing.T) {
	f := newFixture()

	form := validSubmission(t)
	form.Files["pbw"] = &File{Data: makePbwData(t, `{"uuid": "`+testUUID+`"}`), ContentType: "application/zip"}

	_, portalErr := f.handler.SubmitApp("Bearer token", form)
	require.NotNil(t, portalErr)
	assert.Equal(t, "invalid.appinfocontent", portalErr.Code)
	assert.Contains(t, portalErr.Message, "versionLabel")
}

func TestSubmitAppDuplicateUUID(t *testing.T) {
	f := newFixture()
	f.apps.byUUID[testUUID] = &models.App{ID: "existing", UUID: testUUID}

	_, portalErr := f.handler.SubmitApp("Bearer token", validSubmission(t))
	require.NotNil(t, portalErr)
	assert.Equal(t, "app.exists", portalErr.Code)

	assert.Nil(t, f.apps.createdApp)
	assert.Zero(t, f.objStore.assetCount)
}

func TestSubmitAppDuplicateUUIDAtCommit(t *testing.T) {
	f := newFixture()
	f.apps.createErr = errors.New(`ERROR: duplicate key value violates unique constraint "idx_apps_uuid"`)

	_, portalErr := f.handler.SubmitApp("Bearer token", validSubmission(t))
	require.NotNil(t, portalErr)
	assert.Equal(t, "app.exists", portalErr.Code)
}

func TestSubmitAppUnauthenticated(t *testing.T) {
	f := newFixture()
	f.authClient.err = auth.ErrUnauthenticated

	_, portalErr := f.handler.SubmitApp("", validSubmission(t))
	require.NotNil(t, portalErr)
	assert.Equal(t, http.StatusUnauthorized, portalErr.Status)
}

func TestSubmitAppDeveloperNotOnboarded(t *testing.T) {
	f := newFixture()
	f.authClient.account = &auth.AccountInfo{Id: "dev-unknown"}

	_, portalErr := f.handler.SubmitApp("Bearer token", validSubmission(t))
	require.NotNil(t, portalErr)
	assert.Equal(t, http.StatusInternalServerError, portalErr.Status)
	assert.Nil(t, f.apps.createdApp)
}

func TestSubmitAppUploadFailureAbortsBeforePersist(t *testing.T) {
	f := newFixture()
	f.objStore.assetFail = true

	_, portalErr := f.handler.SubmitApp("Bearer token", validSubmission(t))
	require.NotNil(t, portalErr)
	assert.Equal(t, http.StatusInternalServerError, portalErr.Status)
	assert.Nil(t, f.apps.createdApp)
}

func TestSubmitAppPbwUploadFailureAbortsBeforePersist(t *testing.T) {
	f := newFixture()
	f.objStore.pbwFail = true

	_, portalErr := f.handler.SubmitApp("Bearer token", validSubmission(t))
	require.NotNil(t, portalErr)
	assert.Nil(t, f.apps.createdApp)
}

func TestSubmitAppIndexerFailureIsNotFatal(t *testing.T) {
	f := newFixture()
	f.indexer.err = errors.New("algolia is down")

	resp, portalErr := f.handler.SubmitApp("Bearer token", validSubmission(t))
	require.Nil(t, portalErr)
	assert.True(t, resp.Success)
}

func TestOnboardCreatesDeveloper(t *testing.T) {
	f := newFixture()
	f.authClient.account = &auth.AccountInfo{Id: "dev-2", Name: "New Dev"}

	resp, portalErr := f.handler.Onboard("Bearer token", &requests.Onboard{Name: "New Dev"})
	require.Nil(t, portalErr)
	assert.True(t, resp.Success)
	assert.Equal(t, "dev-2", resp.Id)
	assert.Equal(t, "Onboarded user", resp.Message)
	assert.Equal(t, []string{"dev-2"}, f.developers.added)
}

func TestOnboardTwiceDoesNotDuplicate(t *testing.T) {
	f := newFixture()

	resp, portalErr := f.handler.Onboard("Bearer token", &requests.Onboard{Name: "Jane Doe"})
	require.Nil(t, portalErr)
	assert.True(t, resp.Success)
	assert.Equal(t, "User is already onboard", resp.Message)
	assert.Empty(t, f.developers.added)
}

func TestOnboardMissingName(t *testing.T) {
	f := newFixture()

	_, portalErr := f.handler.Onboard("Bearer token", &requests.Onboard{})
	require.NotNil(t, portalErr)
	assert.Equal(t, "missing.field.name", portalErr.Code)
}

func TestOnboardUnauthenticated(t *testing.T) {
	f := newFixture()
	f.authClient.err = auth.ErrUnauthenticated

	_, portalErr := f.handler.Onboard("", &requests.Onboard{Name: "Jane Doe"})
	require.NotNil(t, portalErr)
	assert.Equal(t, http.StatusUnauthorized, portalErr.Status)
}

func existingApp() *models.App {
	return &models.App{
		ID:          "app-1",
		UUID:        testUUID,
		Title:       "Paperweight",
		CategoryId:  "5261a8fb3b773043d5000012",
		DeveloperID: "dev-1",
		AssetCollections: []models.AssetCollection{
			{Platform: "aplite", Description: "old"},
			{Platform: "basalt", Description: "old"},
		},
	}
}

func TestUpdateAppAppliesFields(t *testing.T) {
	f := newFixture()
	f.apps.byId["app-1"] = existingApp()

	resp, portalErr := f.handler.UpdateApp("Bearer token", "app-1", map[string]interface{}{
		"title":       "Paperweight Pro",
		"category":    "Daily",
		"website":     "https://example.org",
		"visible":     "TRUE",
		"description": "new words",
	})
	require.Nil(t, portalErr)
	assert.True(t, resp.Success)
	assert.Equal(t, "app-1", resp.Id)

	updated := f.apps.updatedApp
	require.NotNil(t, updated)
	assert.Equal(t, "Paperweight Pro", updated.Title)
	assert.Equal(t, "5261a8fb3b773043d500000c", updated.CategoryId)
	assert.Equal(t, "https://example.org", updated.Website)
	assert.True(t, updated.Visible)
	for _, collection := range updated.AssetCollections {
		assert.Equal(t, "new words", collection.Description)
	}
}

func TestUpdateAppNotFound(t *testing.T) {
	f := newFixture()

	_, portalErr := f.handler.UpdateApp("Bearer token", "nope", map[string]interface{}{"title": "x"})
	require.NotNil(t, portalErr)
	assert.Equal(t, http.StatusBadRequest, portalErr.Status)
	assert.Equal(t, "app.notfound", portalErr.Code)
}

func TestUpdateAppForbiddenForOtherDeveloper(t *testing.T) {
	f := newFixture()
	f.apps.byId["app-1"] = existingApp()
	f.authClient.account = &auth.AccountInfo{Id: "dev-2"}

	_, portalErr := f.handler.UpdateApp("Bearer token", "app-1", map[string]interface{}{"title": "x"})
	require.NotNil(t, portalErr)
	assert.Equal(t, http.StatusForbidden, portalErr.Status)
	assert.Equal(t, "permission.denied", portalErr.Code)
}

func TestUpdateAppIllegalFieldMutatesNothing(t *testing.T) {
	f := newFixture()
	app := existingApp()
	f.apps.byId["app-1"] = app

	_, portalErr := f.handler.UpdateApp("Bearer token", "app-1", map[string]interface{}{
		"title":  "New Title",
		"hearts": "9000",
	})
	require.NotNil(t, portalErr)
	assert.Equal(t, "illegal.field", portalErr.Code)

	assert.Equal(t, "Paperweight", app.Title)
	assert.Nil(t, f.apps.updatedApp)
}

func TestUpdateAppInvalidCategoryName(t *testing.T) {
	f := newFixture()
	f.apps.byId["app-1"] = existingApp()

	_, portalErr := f.handler.UpdateApp("Bearer token", "app-1", map[string]interface{}{"category": "Shovelware"})
	require.NotNil(t, portalErr)
	assert.Equal(t, "invalid.field.category", portalErr.Code)
}

func TestUpdateAppInvalidVisibleValue(t *testing.T) {
	f := newFixture()
	f.apps.byId["app-1"] = existingApp()

	_, portalErr := f.handler.UpdateApp("Bearer token", "app-1", map[string]interface{}{"visible": "maybe"})
	require.NotNil(t, portalErr)
	assert.Equal(t, "invalid.field.visible", portalErr.Code)
}

func TestUpdateAppFacesCategoryIsImmutable(t *testing.T) {
	f := newFixture()
	app := existingApp()
	app.CategoryId = "528d3ef2dc7b5f580700000a"
	f.apps.byId["app-1"] = app

	_, portalErr := f.handler.UpdateApp("Bearer token", "app-1", map[string]interface{}{"category": "Games"})
	require.NotNil(t, portalErr)
	assert.Equal(t, "disallowed.field.category", portalErr.Code)
	assert.Equal(t, "528d3ef2dc7b5f580700000a", app.CategoryId)
	assert.Nil(t, f.apps.updatedApp)
}

func TestUpdateAppTitleLengthBoundary(t *testing.T) {
	f := newFixture()
	f.apps.byId["app-1"] = existingApp()

	titleOf := func(length int) string {
		title := ""
		for i := 0; i < length; i++ {
			title += strconv.Itoa(i % 10)
		}
		return title
	}

	_, portalErr := f.handler.UpdateApp("Bearer token", "app-1", map[string]interface{}{"title": titleOf(45)})
	assert.Nil(t, portalErr)

	_, portalErr = f.handler.UpdateApp("Bearer token", "app-1", map[string]interface{}{"title": titleOf(46)})
	require.NotNil(t, portalErr)
	assert.Equal(t, "invalid.field.title", portalErr.Code)
}
