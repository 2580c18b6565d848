package database

import (
	"coursehub/config"
	"coursehub/models"
	"coursehub/models/course"
	"fmt"
	"log"
	"os"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// DbInstance struct holds the database connection instance
type DbInstance struct {
	Db *gorm.DB
}

// Database is the global database instance
var Database DbInstance

// DSN builds the connection string for the configured driver unless DB_DSN is set.
func DSN(conf *config.Config) string {
	if conf.DBDSN != "" {
		return conf.DBDSN
	}
	switch conf.DBDriver {
	case "mysql":
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			conf.DBUser, conf.DBPassword, conf.DBHost, conf.DBPort, conf.DBName)
	case "sqlite":
		return conf.DBName + ".db"
	default:
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			conf.DBHost, conf.DBUser, conf.DBPassword, conf.DBName, conf.DBPort)
	}
}

// Open connects with the named gorm driver. Duplicate-key errors are translated
// to gorm.ErrDuplicatedKey.
func Open(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "postgres":
		dialector = postgres.Open(dsn)
	case "mysql":
		dialector = mysql.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}
	return gorm.Open(dialector, &gorm.Config{TranslateError: true})
}

// ConnectDb establishes the global connection and runs migrations
func ConnectDb() {
	conf := config.AppConfig

	db, err := Open(conf.DBDriver, DSN(conf))
	if err != nil {
		log.Fatalf("Failed to connect to %s: %v", conf.DBDriver, err)
		os.Exit(2)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get database instance: %v", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(0)

	if err := AutoMigrate(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	Database = DbInstance{Db: db}
}

// AutoMigrate creates or updates every table the application uses.
func AutoMigrate(db *gorm.DB) error {
	log.Println("Running Migrations...")

	err := db.AutoMigrate(
		&models.User{},
		&models.PromoCode{},
		&models.Purchase{},
		&models.SiteSetting{},
		&course.Course{},
		&course.Lesson{},
		&course.LessonProgress{},
		&course.QuizQuestion{},
		&course.QuizAttempt{},
		&course.CertificateExam{},
		&course.ExamQuestion{},
		&course.Certificate{},
	)
	if err != nil {
		return err
	}

	log.Println("Migrations completed successfully.")
	return nil
}
