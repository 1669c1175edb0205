package repositories

import (
	"github.com/pebble-dev/devportal/pkg/database"
	"github.com/pebble-dev/devportal/pkg/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type IAppsRepository interface {
	GetApp(id string, preloadAssociations bool) (*models.App, error)
	GetAppByUUID(uuid string) (*models.App, error)
	CreateAppWithRelease(app *models.App, release *models.Release) error
	UpdateApp(app *models.App) error

	GetApps() (*[]models.App, error)
}

type AppsRepository struct {
	db *gorm.DB
}

func NewAppsRepository(db *gorm.DB) *AppsRepository {
	return &AppsRepository{db: db}
}

func (a *AppsRepository) GetApp(id string, preloadAssociations bool) (*models.App, error) {
	var existingApp models.App
	var db *gorm.DB
	if preloadAssociations {
		db = a.db.Preload(clause.Associations).Where(&models.App{ID: id}).Find(&existingApp)
	} else {
		db = a.db.Where(&models.App{ID: id}).Find(&existingApp)
	}

	if _, ok := database.CheckDBForErrorOrNoRows(db); ok {
		return &existingApp, nil
	}

	return nil, db.Error
}

func (a *AppsRepository) GetAppByUUID(uuid string) (*models.App, error) {
	var existingApp models.App
	db := a.db.Where(&models.App{UUID: uuid}).Find(&existingApp)
	if _, ok := database.CheckDBForErrorOrNoRows(db); ok {
		return &existingApp, nil
	} else if db.Error == nil {
		// not finding one is not an error here
		return nil, nil
	}

	return nil, db.Error
}

// CreateAppWithRelease persists a new app, its asset collections and its
// first release as one transaction. The caller must have finished every
// asset upload the records reference before calling this.
func (a *AppsRepository) CreateAppWithRelease(app *models.App, release *models.Release) error {
	return a.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(app).Error; err != nil {
			return err
		}

		release.AppID = app.ID
		if err := tx.Create(release).Error; err != nil {
			return err
		}

		return nil
	})
}

// UpdateApp saves the app's scalar fields along with every asset collection
// attached to it.
func (a *AppsRepository) UpdateApp(app *models.App) error {
	return a.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(app).Error; err != nil {
			return err
		}

		for i := range app.AssetCollections {
			if err := tx.Save(&app.AssetCollections[i]).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

func (a *AppsRepository) GetApps() (*[]models.App, error) {
	var apps []models.App
	db := a.db.Preload(clause.Associations).Find(&apps)
	if _, ok := database.CheckDBForErrorOrNoRows(db); ok {
		return &apps, nil
	}

	if db.Error == nil {
		return &apps, nil
	}

	logrus.Error(db.Error)
	return nil, db.Error
}
