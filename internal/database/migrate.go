package database

import (
	"context"
	"database/sql"
)

// schema holds the DDL for every table, in dependency order. All
// statements are idempotent so Migrate can run on every startup.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS genres (
		id   BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(50) NOT NULL
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS customers (
		id      BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		name    VARCHAR(20) NOT NULL,
		phone   VARCHAR(10) NOT NULL,
		is_gold TINYINT(1) NOT NULL DEFAULT 0
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS movies (
		id                BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		title             VARCHAR(255) NOT NULL,
		number_in_stock   SMALLINT UNSIGNED NOT NULL DEFAULT 0,
		daily_rental_rate DOUBLE NOT NULL DEFAULT 0
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS users (
		id            BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		name          VARCHAR(50) NOT NULL,
		email         VARCHAR(255) NOT NULL,
		password_hash VARCHAR(100) NOT NULL,
		UNIQUE KEY uq_users_email (email)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS rentals (
		id                      BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		customer_id             BIGINT UNSIGNED NOT NULL,
		customer_name           VARCHAR(20) NOT NULL,
		customer_phone          VARCHAR(10) NOT NULL,
		customer_is_gold        TINYINT(1) NOT NULL DEFAULT 0,
		movie_id                BIGINT UNSIGNED NOT NULL,
		movie_title             VARCHAR(255) NOT NULL,
		movie_daily_rental_rate DOUBLE NOT NULL,
		date_out                DATETIME NOT NULL,
		date_returned           DATETIME NULL,
		rental_fee              DOUBLE NULL,
		KEY idx_rentals_date_out (date_out)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// Migrate creates any missing tables. Rentals carry denormalized
// customer/movie snapshot columns on purpose: no foreign keys, so a
// customer or movie can be deleted without touching rental history.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
