package repositories

import (
	"github.com/pebble-dev/devportal/pkg/database"
	"github.com/pebble-dev/devportal/pkg/models"
	"gorm.io/gorm"
)

type IDevelopersRepository interface {
	GetDeveloper(id string) (*models.Developer, error)
	AddDeveloper(id string, name string) (*models.Developer, error)
}

type DevelopersRepository struct {
	db *gorm.DB
}

func NewDevelopersRepository(db *gorm.DB) *DevelopersRepository {
	return &DevelopersRepository{db: db}
}

func (d *DevelopersRepository) GetDeveloper(id string) (*models.Developer, error) {
	var developer models.Developer
	db := d.db.Where(&models.Developer{ID: id}).Find(&developer)
	if _, ok := database.CheckDBForErrorOrNoRows(db); ok {
		return &developer, nil
	} else if db.Error == nil {
		// no row for this identity yet
		return nil, nil
	}

	return nil, db.Error
}

func (d *DevelopersRepository) AddDeveloper(id string, name string) (*models.Developer, error) {
	developer := models.Developer{
		ID:   id,
		Name: name,
	}

	db := d.db.Create(&developer)
	if db.Error != nil {
		return nil, db.Error
	}

	return &developer, nil
}
