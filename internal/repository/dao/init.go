package dao

import "gorm.io/gorm"

func InitTables(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Profile{},
		&Category{},
		&Tour{},
		&FAQ{},
		&Review{},
		&Comment{},
		&Favorite{},
		&CartItem{},
		&Payment{},
		&Ticket{},
	)
}
