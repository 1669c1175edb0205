package search

import (
	"fmt"
	"net/http"

	resty "github.com/go-resty/resty/v2"
	"github.com/pebble-dev/devportal/config/configkey"
	"github.com/pebble-dev/devportal/pkg/models"
	"github.com/spf13/viper"
)

// IIndexer pushes newly submitted apps into the store's search index.
// Indexing is best-effort; the submission path never fails because of it.
type IIndexer interface {
	IndexApp(app *models.App) error
}

type appRecord struct {
	ObjectID   string `json:"objectID"`
	Title      string `json:"title"`
	Type       string `json:"type"`
	CategoryId string `json:"category_id"`
	UUID       string `json:"uuid"`
	Hearts     int    `json:"hearts"`
}

type AlgoliaIndexer struct {
	resty  *resty.Client
	appId  string
	apiKey string
	index  string
}

// NewFromConfig returns nil when no admin API key is configured, which
// disables indexing entirely.
func NewFromConfig() *AlgoliaIndexer {
	apiKey := viper.GetString(configkey.AlgoliaAdminAPIKey)
	if apiKey == "" {
		return nil
	}

	return &AlgoliaIndexer{
		resty:  resty.New(),
		appId:  viper.GetString(configkey.AlgoliaAppId),
		apiKey: apiKey,
		index:  viper.GetString(configkey.AlgoliaIndex),
	}
}

func (a *AlgoliaIndexer) IndexApp(app *models.App) error {
	record := appRecord{
		ObjectID:   app.ID,
		Title:      app.Title,
		Type:       app.Type,
		CategoryId: app.CategoryId,
		UUID:       app.UUID,
		Hearts:     app.Hearts,
	}

	url := fmt.Sprintf("https://%s.algolia.net/1/indexes/%s/%s", a.appId, a.index, app.ID)
	resp, err := a.resty.R().
		SetHeader("X-Algolia-Application-Id", a.appId).
		SetHeader("X-Algolia-API-Key", a.apiKey).
		SetBody(&record).
		Put(url)

	if err != nil {
		return err
	}

	if resp.StatusCode() != http.StatusOK && resp.StatusCode() != http.StatusCreated {
		return fmt.Errorf("algolia returned status %d", resp.StatusCode())
	}

	return nil
}
