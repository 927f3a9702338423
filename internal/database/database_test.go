package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type testWidget struct {
	ID    uint   `gorm:"primaryKey"`
	Code  string `gorm:"size:64;uniqueIndex"`
	Label string
}

func TestOpenMigratesSQLite(t *testing.T) {
	ctx := context.Background()
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"

	db, err := Open(ctx, DriverSQLite, dsn, &testWidget{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	defer sqlDB.Close()

	require.True(t, db.Migrator().HasTable(&testWidget{}))
	require.True(t, db.Migrator().HasIndex(&testWidget{}, "Code"))

	// a second migration against the same store is a no-op
	require.NoError(t, db.AutoMigrate(&testWidget{}))
	require.NoError(t, db.Create(&testWidget{Code: "a", Label: "first"}).Error)

	var got testWidget
	require.NoError(t, db.Where("code = ?", "a").First(&got).Error)
	require.Equal(t, "first", got.Label)
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), "oracle", "")
	require.Error(t, err)
}

func TestDialectorByDriver(t *testing.T) {
	cases := map[string]string{
		"":           "sqlite",
		"sqlite3":    "sqlite",
		"sqlite":     "sqlite",
		"postgres":   "postgres",
		"postgresql": "postgres",
		"mysql":      "mysql",
		"MySQL":      "mysql",
	}
	for driver, want := range cases {
		d, err := Dialector(driver, "file:x?mode=memory")
		require.NoError(t, err, driver)
		require.Equal(t, want, d.Name(), driver)
	}

	_, err := Dialector("mssql", "")
	require.Error(t, err)
}

func TestNoopLocker(t *testing.T) {
	ctx := context.Background()
	var l Locker = NoopLocker{}

	release, err := l.Obtain(ctx, "lock:test", time.Minute)
	require.NoError(t, err)
	require.NoError(t, release(ctx))

	// never contended
	release, err = l.Obtain(ctx, "lock:test", time.Minute)
	require.NoError(t, err)
	require.NoError(t, release(ctx))
}
