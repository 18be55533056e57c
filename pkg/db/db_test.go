package db

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"liyu1981.xyz/device-health-service/pkg/common"
	"liyu1981.xyz/device-health-service/pkg/models"
	_ "liyu1981.xyz/device-health-service/pkg/testing"

	"gorm.io/gorm"
)

func tableExists(db *gorm.DB, tableName string) bool {
	var count int64
	err := db.Raw(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name=?`, tableName,
	).Scan(&count).Error
	return err == nil && count > 0
}

func TestWithMemorySqlite(t *testing.T) {
	common.SetTestLoggerNop()

	instance := GetInstance(UseMemorySqliteDialector())
	if instance == nil {
		t.Fatal("Expected non-nil DB instance")
	}

	var tables = []string{
		"customers",
		"loyalty_cards",
		"device_health_settings",
		"device_health_logs",
		"diagnostic_quizzes",
		"device_health_alerts",
		"customer_health_badges",
		"customer_notifications",
	}
	for _, table := range tables {
		if !tableExists(instance.Conn, table) {
			t.Errorf("Expected table %q to exist after migration", table)
		}
	}
}

func TestSingletonConcurrency(t *testing.T) {
	common.SetTestLoggerNop()

	const goroutineCount = 20

	var wg sync.WaitGroup
	instances := make(chan *DB, goroutineCount)

	for range goroutineCount {
		wg.Add(1)
		go func() {
			defer wg.Done()
			instances <- GetInstance(UseMemorySqliteDialector())
		}()
	}

	wg.Wait()
	close(instances)

	var first *DB
	for inst := range instances {
		if first == nil {
			first = inst
			continue
		}
		if inst != first {
			t.Error("Expected all instances to be the same (singleton), but found different ones")
		}
	}
}

func TestIsolatedInstance(t *testing.T) {
	common.SetTestLoggerNop()

	isolated, err := Open(UseIsolatedMemorySqliteDialector())
	require.NoError(t, err)
	defer isolated.Close()

	assert.NotSame(t, GetInstance(UseMemorySqliteDialector()), isolated)
	assert.True(t, tableExists(isolated.Conn, "device_health_logs"))

	customer := models.Customer{Email: "isolated@example.com"}
	require.NoError(t, isolated.Conn.Create(&customer).Error)
	assert.NotEmpty(t, customer.ID, "uuid should be assigned on insert")

	var count int64
	require.NoError(t, GetInstance(UseMemorySqliteDialector()).Conn.
		Model(&models.Customer{}).Where("email = ?", "isolated@example.com").Count(&count).Error)
	assert.Zero(t, count, "isolated database must not share rows with the singleton")
}

func TestUseDialector(t *testing.T) {
	d, err := UseDialector(TypeMemory, "", "")
	require.NoError(t, err)
	assert.Equal(t, "sqlite", d.Name())

	d, err = UseDialector(TypePostgres, "", "host=localhost user=dh dbname=dh")
	require.NoError(t, err)
	assert.Equal(t, "postgres", d.Name())

	_, err = UseDialector(TypePostgres, "", "")
	assert.Error(t, err)

	_, err = UseDialector("mongo", "", "")
	assert.Error(t, err)
}

func TestSetPool(t *testing.T) {
	common.SetTestLoggerNop()

	isolated, err := Open(UseIsolatedMemorySqliteDialector())
	require.NoError(t, err)
	defer isolated.Close()

	require.NoError(t, isolated.SetPool(PoolOptions{MaxOpenConns: 4, MaxIdleConns: 2}))
	sqlDB, err := isolated.Conn.DB()
	require.NoError(t, err)
	assert.Equal(t, 4, sqlDB.Stats().MaxOpenConnections)
}
