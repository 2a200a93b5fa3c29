package telemetry

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type tracedRow struct {
	ID   int64 `gorm:"primaryKey"`
	Name string
}

func openTracedDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormlogger.Discard})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&tracedRow{}))
	return db
}

func TestRegisterDBTracing_Disabled(t *testing.T) {
	db := openTracedDB(t)
	require.NoError(t, RegisterDBTracing(db, DBTracingConfig{}, zap.NewNop()))
	assert.Nil(t, db.Callback().Query().Get("erp_trace:after_query"))
}

func TestRegisterDBTracing_MarksFailedStatements(t *testing.T) {
	recorder := withRecorder(t)
	db := openTracedDB(t)
	require.NoError(t, RegisterDBTracing(db, DBTracingConfig{Enabled: true, DBName: "erp"}, zap.NewNop()))

	ctx, span := StartServiceSpan(context.Background(), "test", "query")
	require.NoError(t, db.WithContext(ctx).Create(&tracedRow{Name: "a"}).Error)
	err := db.WithContext(ctx).Exec("SELECT * FROM missing_table").Error
	require.Error(t, err)
	span.End()

	var failed bool
	for _, s := range recorder.Ended() {
		if s.Status().Code == codes.Error {
			failed = true
		}
	}
	assert.True(t, failed, "the failing statement span must carry an error status")
}
