// Package store persists per-session widget state.
// It uses GORM with pure-Go SQLite, so the binary stays cgo-free.
package store

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/vesaa/showcase/internal/models"
	"github.com/vesaa/showcase/internal/widgets"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// ErrNoSession is returned by Load for an unknown session ID.
var ErrNoSession = errors.New("store: session not found")

// Store is the session state repository.
type Store struct {
	db *gorm.DB
}

// Open opens the database and runs AutoMigrate.
func Open(driver, dsn string) (*Store, error) {
	var dialector gorm.Dialector
	switch driver {
	case "sqlite", "":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported db_driver %q (use 'sqlite')", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// One connection: SQLite serializes writers anyway, and ":memory:"
	// databases are per-connection.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&models.Session{}, &models.WidgetValue{}); err != nil {
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}

	log.Printf("[store] opened %s/%s", driver, dsn)
	return &Store{db: db}, nil
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Load returns the stored values of a session.
func (s *Store) Load(ctx context.Context, sessionID string) (widgets.Values, error) {
	var sess models.Session
	err := s.db.WithContext(ctx).Preload("Values").First(&sess, "id = ?", sessionID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("loading session %s: %w", sessionID, err)
	}

	out := make(widgets.Values, len(sess.Values))
	for _, v := range sess.Values {
		out[v.Key] = v.Value
	}
	return out, nil
}

// Save replaces every stored value of a session with values.
func (s *Store) Save(ctx context.Context, sessionID string, values widgets.Values) error {
	rows := make([]models.WidgetValue, 0, len(values))
	for k, v := range values {
		rows = append(rows, models.WidgetValue{SessionID: sessionID, Key: k, Value: v})
	}
	// stable insert order keeps row IDs predictable
	sort.Slice(rows, func(i, j int) bool { return rows[i].Key < rows[j].Key })

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := upsertSession(tx, sessionID); err != nil {
			return err
		}
		if err := tx.Where("session_id = ?", sessionID).Delete(&models.WidgetValue{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
	if err != nil {
		return fmt.Errorf("saving session %s: %w", sessionID, err)
	}
	return nil
}

// Touch marks a session as seen now, creating it if needed.
func (s *Store) Touch(ctx context.Context, sessionID string) error {
	if err := upsertSession(s.db.WithContext(ctx), sessionID); err != nil {
		return fmt.Errorf("touching session %s: %w", sessionID, err)
	}
	return nil
}

// Prune deletes sessions not seen since now-olderThan and returns how many went.
func (s *Store) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan)
	var n int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		stale := tx.Model(&models.Session{}).Select("id").Where("last_seen < ?", cutoff)
		if err := tx.Where("session_id IN (?)", stale).Delete(&models.WidgetValue{}).Error; err != nil {
			return err
		}
		res := tx.Where("last_seen < ?", cutoff).Delete(&models.Session{})
		n = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return 0, fmt.Errorf("pruning sessions: %w", err)
	}
	return n, nil
}

func upsertSession(tx *gorm.DB, sessionID string) error {
	now := time.Now()
	sess := models.Session{ID: sessionID, CreatedAt: now, LastSeen: now}
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"last_seen"}),
	}).Create(&sess).Error
}
