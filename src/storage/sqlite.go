package storage

import (
	"database/sql"
	"fmt"
	"time"

	"stock-trend/src/logger"
	"stock-trend/src/models"

	_ "modernc.org/sqlite"
)

// -----------------------------------------------------------------------------

// SQLitePriceCache keeps fetched series in SQLite. Tables are recreated on Initialize, so with the
// default ":memory:" DSN nothing outlives the process.
type SQLitePriceCache struct {
	Config *models.MConfig
	DB     *sql.DB
	Logger *logger.Logger
}

// -----------------------------------------------------------------------------

func NewSQLitePriceCache(cfg *models.MConfig, log *logger.Logger) *SQLitePriceCache {
	return &SQLitePriceCache{
		Config: cfg,
		Logger: log.Named("SQLitePriceCache"),
	}
}

// -----------------------------------------------------------------------------

func (d *SQLitePriceCache) Initialize() error {
	dsn := d.Config.Storage.DBPath

	// Open DB
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return err
	}

	// Every new connection to ":memory:" would see its own empty database
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return err
	}

	d.DB = db

	// PRAGMA optimizations
	if _, err := db.Exec("PRAGMA synchronous = OFF;"); err != nil {
		d.Logger.Warning("Failed to set synchronous mode: %v", err)
	}

	// Recreate Tables
	return d.recreateTables()
}

// -----------------------------------------------------------------------------

func (d *SQLitePriceCache) recreateTables() error {
	for _, table := range []string{"price_bars", "price_series"} {
		if _, err := d.DB.Exec("DROP TABLE IF EXISTS " + table); err != nil {
			return fmt.Errorf("failed to drop %s: %w", table, err)
		}
	}

	// SQLite types: INTEGER for int64, REAL for float64, TEXT for string
	query := `
		CREATE TABLE price_series (
			cache_key TEXT PRIMARY KEY,
			symbol TEXT NOT NULL,
			start_date TEXT NOT NULL,
			end_date TEXT NOT NULL,
			bar_count INTEGER NOT NULL,
			fetched_at INTEGER NOT NULL
		);
	`
	if _, err := d.DB.Exec(query); err != nil {
		return fmt.Errorf("failed to create price_series: %w", err)
	}

	query = `
		CREATE TABLE price_bars (
			cache_key TEXT NOT NULL,
			idx INTEGER NOT NULL,
			date INTEGER NOT NULL,
			open REAL,
			high REAL,
			low REAL,
			close REAL,
			volume REAL,
			PRIMARY KEY (cache_key, idx)
		);
	`
	if _, err := d.DB.Exec(query); err != nil {
		return fmt.Errorf("failed to create price_bars: %w", err)
	}

	return nil
}

// -----------------------------------------------------------------------------

func (d *SQLitePriceCache) Get(key models.MFetchKey) (*models.MPriceSeries, bool, error) {
	k := key.String()

	var symbol string
	var count int
	err := d.DB.QueryRow("SELECT symbol, bar_count FROM price_series WHERE cache_key = ?", k).Scan(&symbol, &count)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	rows, err := d.DB.Query(`
		SELECT date, open, high, low, close, volume
		FROM price_bars WHERE cache_key = ? ORDER BY idx
	`, k)
	if err != nil {
		return nil, false, err
	}
	defer rows.Close()

	series := &models.MPriceSeries{Symbol: symbol, Bars: make([]models.MPriceBar, 0, count)}
	for rows.Next() {
		var unix int64
		var b models.MPriceBar
		if err := rows.Scan(&unix, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			return nil, false, err
		}
		b.Date = time.Unix(unix, 0).UTC()
		series.Bars = append(series.Bars, b)
	}
	if err := rows.Err(); err != nil {
		return nil, false, err
	}

	return series, true, nil
}

// -----------------------------------------------------------------------------

func (d *SQLitePriceCache) Put(key models.MFetchKey, series *models.MPriceSeries) error {
	k := key.String()

	tx, err := d.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM price_bars WHERE cache_key = ?", k); err != nil {
		return err
	}

	_, err = tx.Exec(`
		INSERT INTO price_series (cache_key, symbol, start_date, end_date, bar_count, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (cache_key) DO UPDATE SET
			bar_count = excluded.bar_count,
			fetched_at = excluded.fetched_at
	`, k, key.Symbol, key.Start.Format(time.DateOnly), key.End.Format(time.DateOnly), series.Len(), time.Now().UTC().Unix())
	if err != nil {
		return err
	}

	if series.Len() > 0 {
		stmt, err := tx.Prepare(`
			INSERT INTO price_bars (cache_key, idx, date, open, high, low, close, volume)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for i, b := range series.Bars {
			if _, err := stmt.Exec(k, i, b.Date.Unix(), b.Open, b.High, b.Low, b.Close, b.Volume); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

// -----------------------------------------------------------------------------

func (d *SQLitePriceCache) Len() (int, error) {
	var n int
	err := d.DB.QueryRow("SELECT COUNT(*) FROM price_series").Scan(&n)
	return n, err
}

// -----------------------------------------------------------------------------

func (d *SQLitePriceCache) Backend() string {
	return "sqlite"
}

// -----------------------------------------------------------------------------

func (d *SQLitePriceCache) Close() error {
	if d.DB != nil {
		return d.DB.Close()
	}
	return nil
}
