// Command createsuperuser adds a passwordless superuser account.
package main

import (
	"context"
	"errors"
	"flag"
	"os"

	"github.com/inkwell/inkwell/internal/config"
	"github.com/inkwell/inkwell/internal/repository"
	"github.com/sirupsen/logrus"
)

func main() {
	phone := flag.String("phone", "", "phone number of the new superuser")
	flag.Parse()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	if *phone == "" {
		flag.Usage()
		os.Exit(2)
	}

	db, err := repository.OpenPostgres(config.LoadDatabase(), logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to database")
	}
	if err := repository.Migrate(db); err != nil {
		logger.WithError(err).Fatal("Failed to migrate database")
	}

	userRepo := repository.NewUserRepository(db, logger)
	user, err := userRepo.CreateSuperuser(context.Background(), *phone)
	if errors.Is(err, repository.ErrUserExists) {
		logger.WithField("phone", *phone).Fatal("A user with this phone number already exists")
	}
	if err != nil {
		logger.WithError(err).Fatal("Failed to create superuser")
	}

	logger.WithFields(logrus.Fields{
		"user_id": user.ID,
		"phone":   user.Phone,
	}).Info("Superuser created")
}
