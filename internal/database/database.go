package database

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"sharePreview/internal/config"
)

type DB struct {
	*sqlx.DB
	log *logrus.Logger
}

func DSN(cfg config.DB) string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.DbHOST,
		cfg.DbPORT,
		cfg.DbUSER,
		cfg.DbPASSWORD,
		cfg.DbNAME,
		cfg.DbSSLMODE,
	)
}

func ConnectDB(cfg *config.Config, log *logrus.Logger) (*DB, error) {
	log.WithFields(logrus.Fields{"host": cfg.DB.DbHOST, "dbname": cfg.DB.DbNAME}).Info("Подключаемся к БД")

	db, err := sqlx.Connect("postgres", DSN(cfg.DB))
	if err != nil {
		return nil, fmt.Errorf("не удалось подключиться к БД: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	dbStruct := &DB{DB: db, log: log}

	if err := dbStruct.RunMigrations(cfg.MigrationsPath); err != nil {
		log.WithError(err).Warn("Внимание: ошибка при применении миграций")
	}

	if err := dbStruct.HealthCheck(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("проверка БД не пройдена: %w", err)
	}

	log.Info("Успешное подключение к PostgreSQL")
	return dbStruct, nil
}

func (db *DB) CloseDB() error {
	return db.DB.Close()
}

func (db *DB) RunMigrations(migrationFilePath string) error {
	migrationSQL, err := os.ReadFile(migrationFilePath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("файл миграций не найден: %s", migrationFilePath)
		}
		return fmt.Errorf("ошибка при чтении файла миграций: %w", err)
	}

	db.log.WithField("file", migrationFilePath).Info("Применяем миграции")

	if _, err = db.Exec(string(migrationSQL)); err != nil {
		return fmt.Errorf("ошибка при выполнении миграций: %w", err)
	}

	db.log.Info("Миграции успешно применены")
	return nil
}

func (db *DB) HealthCheck(ctx context.Context) error {
	if db == nil || db.DB == nil {
		return fmt.Errorf("подключение к БД не инициализировано")
	}

	return db.PingContext(ctx)
}
