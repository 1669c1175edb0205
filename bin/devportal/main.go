package main

import (
	"github.com/pebble-dev/devportal/config"
	"github.com/pebble-dev/devportal/config/configkey"
	"github.com/pebble-dev/devportal/pkg/auth"
	"github.com/pebble-dev/devportal/pkg/database"
	"github.com/pebble-dev/devportal/pkg/idgen"
	"github.com/pebble-dev/devportal/pkg/objectstore"
	"github.com/pebble-dev/devportal/pkg/portal"
	"github.com/pebble-dev/devportal/pkg/repositories"
	"github.com/pebble-dev/devportal/pkg/search"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

func main() {
	logrus.SetLevel(logrus.TraceLevel)
	config.LoadConfig()

	logLevelConfig := viper.GetString(configkey.LogLevel)
	l, errLevel := logrus.ParseLevel(logLevelConfig)
	if errLevel != nil {
		logrus.Error(errLevel)
	} else {
		logrus.SetLevel(l)
	}

	portalPort := viper.GetInt(configkey.PortalPort)
	useRequestLogger := viper.GetBool(configkey.RequestLogger)

	db, err := database.CreateDatabase()
	if err != nil {
		logrus.Fatal(err)
	}

	if err := database.Migrate(db); err != nil {
		logrus.Fatal(err)
	}

	var indexer search.IIndexer
	if algolia := search.NewFromConfig(); algolia != nil {
		logrus.Info("Search indexing enabled")
		indexer = algolia
	} else {
		logrus.Info("Search indexing disabled, no admin API key configured")
	}

	handler := portal.NewPortalHandler(
		repositories.NewDevelopersRepository(db),
		repositories.NewAppsRepository(db),
		objectstore.NewObjectStore(),
		auth.NewClient(),
		idgen.New(),
		indexer,
	)

	s := portal.New(useRequestLogger, handler, portalPort)
	s.Run()
}
