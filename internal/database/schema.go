package database

var schema = map[string][]string{
	DriverMySQL: {
		`CREATE TABLE IF NOT EXISTS locations (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			latitude DOUBLE NOT NULL,
			longitude DOUBLE NOT NULL,
			UNIQUE KEY uq_locations_name (name)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

		`CREATE TABLE IF NOT EXISTS quarterly_climate (
			year INT NOT NULL,
			quarter TINYINT NOT NULL,
			temperature DOUBLE NOT NULL,
			dew_point DOUBLE NOT NULL,
			precipitation DOUBLE NOT NULL,
			wind_speed DOUBLE NOT NULL,
			humidity DOUBLE NOT NULL,
			source VARCHAR(64) NOT NULL DEFAULT '',
			updated_at DATETIME(6) NOT NULL,
			PRIMARY KEY (year, quarter)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

		`CREATE TABLE IF NOT EXISTS planting_analyses (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			location_name VARCHAR(255) NOT NULL,
			latitude DOUBLE NOT NULL,
			longitude DOUBLE NOT NULL,
			year INT NOT NULL,
			optimal_quarter TINYINT NOT NULL,
			planting_period VARCHAR(64) NOT NULL,
			overall_confidence DOUBLE NOT NULL,
			risk_level VARCHAR(16) NOT NULL,
			payload LONGTEXT NOT NULL,
			created_at DATETIME(6) NOT NULL,
			INDEX idx_planting_analyses_location (location_name, created_at)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	},

	DriverPostgres: {
		`CREATE TABLE IF NOT EXISTS locations (
			id BIGSERIAL PRIMARY KEY,
			name VARCHAR(255) NOT NULL UNIQUE,
			latitude DOUBLE PRECISION NOT NULL,
			longitude DOUBLE PRECISION NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS quarterly_climate (
			year INTEGER NOT NULL,
			quarter SMALLINT NOT NULL,
			temperature DOUBLE PRECISION NOT NULL,
			dew_point DOUBLE PRECISION NOT NULL,
			precipitation DOUBLE PRECISION NOT NULL,
			wind_speed DOUBLE PRECISION NOT NULL,
			humidity DOUBLE PRECISION NOT NULL,
			source VARCHAR(64) NOT NULL DEFAULT '',
			updated_at TIMESTAMPTZ NOT NULL,
			PRIMARY KEY (year, quarter)
		)`,

		`CREATE TABLE IF NOT EXISTS planting_analyses (
			id BIGSERIAL PRIMARY KEY,
			location_name VARCHAR(255) NOT NULL,
			latitude DOUBLE PRECISION NOT NULL,
			longitude DOUBLE PRECISION NOT NULL,
			year INTEGER NOT NULL,
			optimal_quarter SMALLINT NOT NULL,
			planting_period VARCHAR(64) NOT NULL,
			overall_confidence DOUBLE PRECISION NOT NULL,
			risk_level VARCHAR(16) NOT NULL,
			payload TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_planting_analyses_location ON planting_analyses (location_name, created_at)`,
	},

	DriverSQLite: {
		`CREATE TABLE IF NOT EXISTS locations (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE,
			latitude REAL NOT NULL,
			longitude REAL NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS quarterly_climate (
			year INTEGER NOT NULL,
			quarter INTEGER NOT NULL,
			temperature REAL NOT NULL,
			dew_point REAL NOT NULL,
			precipitation REAL NOT NULL,
			wind_speed REAL NOT NULL,
			humidity REAL NOT NULL,
			source TEXT NOT NULL DEFAULT '',
			updated_at DATETIME NOT NULL,
			PRIMARY KEY (year, quarter)
		)`,

		`CREATE TABLE IF NOT EXISTS planting_analyses (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			location_name TEXT NOT NULL,
			latitude REAL NOT NULL,
			longitude REAL NOT NULL,
			year INTEGER NOT NULL,
			optimal_quarter INTEGER NOT NULL,
			planting_period TEXT NOT NULL,
			overall_confidence REAL NOT NULL,
			risk_level TEXT NOT NULL,
			payload TEXT NOT NULL,
			created_at DATETIME NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_planting_analyses_location ON planting_analyses (location_name, created_at)`,
	},
}

var upsertClimate = map[string]string{
	DriverMySQL: `INSERT INTO quarterly_climate
		(year, quarter, temperature, dew_point, precipitation, wind_speed, humidity, source, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			temperature = VALUES(temperature), dew_point = VALUES(dew_point),
			precipitation = VALUES(precipitation), wind_speed = VALUES(wind_speed),
			humidity = VALUES(humidity), source = VALUES(source), updated_at = VALUES(updated_at)`,

	DriverPostgres: upsertClimateOnConflict,
	DriverSQLite:   upsertClimateOnConflict,
}

const upsertClimateOnConflict = `INSERT INTO quarterly_climate
	(year, quarter, temperature, dew_point, precipitation, wind_speed, humidity, source, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (year, quarter) DO UPDATE SET
		temperature = excluded.temperature, dew_point = excluded.dew_point,
		precipitation = excluded.precipitation, wind_speed = excluded.wind_speed,
		humidity = excluded.humidity, source = excluded.source, updated_at = excluded.updated_at`
