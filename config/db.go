package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"automarket-backend/models"
)

var DB *gorm.DB

func envOrDefault(key, def string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	return value
}

// UploadDir is the directory uploaded vehicle images are written to and
// served from.
func UploadDir() string {
	return envOrDefault("UPLOAD_DIR", "uploads")
}

func mysqlDSNFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}

	user := u.User.Username()
	pass, _ := u.User.Password()
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "3306"
	}

	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return "", fmt.Errorf("mysql url missing database name")
	}

	q := u.Query()
	if q.Get("charset") == "" {
		q.Set("charset", "utf8mb4")
	}
	if q.Get("parseTime") == "" {
		q.Set("parseTime", "True")
	}
	if q.Get("loc") == "" {
		q.Set("loc", "Local")
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?%s", user, pass, host, port, dbName, q.Encode()), nil
}

func resolveMySQLDSN() (string, error) {
	raw := strings.TrimSpace(os.Getenv("MYSQL_URL"))
	if raw == "" {
		raw = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	}

	if raw != "" {
		if strings.HasPrefix(raw, "mysql://") {
			return mysqlDSNFromURL(raw)
		}
		return raw, nil
	}

	user := envOrDefault("DB_USER", "root")
	pass := envOrDefault("DB_PASS", "")
	host := envOrDefault("DB_HOST", "127.0.0.1")
	port := envOrDefault("DB_PORT", "3306")
	dbName := envOrDefault("DB_NAME", "automarket_db")

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		user, pass, host, port, dbName,
	), nil
}

func ConnectDatabase() error {
	dsn, err := resolveMySQLDSN()
	if err != nil {
		return err
	}

	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: time.Second,
			LogLevel:      logger.Warn,
			Colorful:      true,
		},
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{Logger: newLogger})
	if err != nil {
		return err
	}

	DB = db

	if err := DB.AutoMigrate(
		&models.AdminUser{},
		&models.Vehicle{},
	); err != nil {
		return err
	}

	SeedDatabase(DB)
	return nil
}

// SeedDatabase inserts the default admin credential and a small demo catalog
// on first boot. Both are skipped once the tables hold any rows.
func SeedDatabase(db *gorm.DB) {
	var adminCount int64
	db.Model(&models.AdminUser{}).Count(&adminCount)
	if adminCount == 0 {
		username := envOrDefault("ADMIN_USERNAME", "admin")
		password := envOrDefault("ADMIN_PASSWORD", "admin123")

		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("warning: failed to hash default admin password: %v", err)
		} else {
			admin := models.AdminUser{
				Username:     username,
				PasswordHash: string(hash),
			}
			if err := db.Create(&admin).Error; err != nil {
				log.Printf("warning: failed to create default admin: %v", err)
			} else {
				log.Println("Default admin seeded")
			}
		}
	}

	var vehicleCount int64
	db.Model(&models.Vehicle{}).Count(&vehicleCount)
	if vehicleCount == 0 {
		samples := SampleVehicles()
		if err := db.Create(&samples).Error; err != nil {
			log.Printf("warning: failed to seed demo vehicles: %v", err)
		} else {
			log.Println("Demo vehicles seeded")
		}
	}
}

// SampleVehicles is the fixed demo catalog inserted on first boot.
func SampleVehicles() []models.Vehicle {
	return []models.Vehicle{
		{
			ID:           uuid.NewString(),
			Title:        "2020 Honda Civic LX",
			Category:     "Cars",
			Make:         "Honda",
			Model:        "Civic",
			Year:         2020,
			Price:        18500,
			Mileage:      45000,
			Description:  "Excellent condition, one owner, clean carfax. Great fuel economy and reliability.",
			ContactName:  "Auto Dealership",
			ContactPhone: "(555) 123-4567",
			Status:       models.StatusAvailable,
		},
		{
			ID:           uuid.NewString(),
			Title:        "2019 Ford F-150 XLT",
			Category:     "Trucks",
			Make:         "Ford",
			Model:        "F-150",
			Year:         2019,
			Price:        32900,
			Mileage:      68000,
			Description:  "4WD, crew cab, powerful V6 engine. Perfect for work and family use.",
			ContactName:  "Auto Dealership",
			ContactPhone: "(555) 123-4567",
			Status:       models.StatusAvailable,
		},
		{
			ID:           uuid.NewString(),
			Title:        "2021 Toyota Camry LE",
			Category:     "Cars",
			Make:         "Toyota",
			Model:        "Camry",
			Year:         2021,
			Price:        24800,
			Mileage:      28000,
			Description:  "Low mileage, excellent condition. Advanced safety features included.",
			ContactName:  "Auto Dealership",
			ContactPhone: "(555) 123-4567",
			Status:       models.StatusAvailable,
		},
	}
}
