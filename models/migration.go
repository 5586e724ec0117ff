package models

import (
	"log"

	"github.com/rentaspace/rentals_backend/config"
)

func MigrateTable() {
	db := config.GetDB()

	err := db.AutoMigrate(
		&User{},
		&Property{}, &Unit{}, &Tenant{},
		&Lease{}, &MonthlyObligation{}, &Payment{},
		&Statement{}, &StatementOverride{},
	)
	if err != nil {
		log.Fatal(err)
	}
}
