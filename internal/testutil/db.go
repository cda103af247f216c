package testutil

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/fadilmartias/mock-interview/internal/model"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a private in-memory SQLite database with every table migrated.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	return open(t, fmt.Sprintf("file:%d?mode=memory&cache=shared", time.Now().UnixNano()))
}

// NewFileDB opens a SQLite database file for tests that write from several
// goroutines. Transactions take the write lock when they begin and wait for
// each other instead of failing.
func NewFileDB(t testing.TB) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	return open(t, "file:"+path+"?_txlock=immediate&_busy_timeout=10000&_journal_mode=WAL")
}

func open(t testing.TB, dsn string) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := model.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// SeedPlans stores the given plans, or free:3:3 and pro:30:30 when none are given.
func SeedPlans(t testing.TB, db *gorm.DB, plans ...model.PlanLimit) {
	t.Helper()
	if len(plans) == 0 {
		plans = []model.PlanLimit{
			{Name: "free", MaxInterviews: 3, MaxFeedbacks: 3},
			{Name: "pro", MaxInterviews: 30, MaxFeedbacks: 30},
		}
	}
	if err := db.Create(&plans).Error; err != nil {
		t.Fatalf("seed plans: %v", err)
	}
}

func CreateUser(t testing.TB, db *gorm.DB, email, plan string) *model.User {
	t.Helper()
	user := &model.User{Email: email, Name: "Test User", PasswordHash: "x", Plan: plan}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}
