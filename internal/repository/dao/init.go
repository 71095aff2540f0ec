package dao

import "gorm.io/gorm"

func InitTables(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Club{},
		&Event{},
		&EventRegistration{},
		&EventAttendance{},
		&Feedback{},
	)
}

// DropAllTables is used by integration tests to start from an empty schema.
func DropAllTables(db *gorm.DB) error {
	return db.Migrator().DropTable(
		"club_coordinators",
		&Feedback{},
		&EventAttendance{},
		&EventRegistration{},
		&Event{},
		&Club{},
		&User{},
	)
}
