package migrations

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

//go:embed sql/*.sql
var files embed.FS

const dir = "sql"

// Up applies every pending migration.
func Up(db *sql.DB) (err error) {
	if err = setup(); err != nil {
		return
	}

	if err = goose.Up(db, dir); err != nil {
		err = fmt.Errorf("failed to apply migrations: %w", err)
	}
	return
}

// Version reports the currently applied schema version.
func Version(db *sql.DB) (version int64, err error) {
	if err = setup(); err != nil {
		return
	}

	return goose.GetDBVersion(db)
}

func setup() error {
	goose.SetBaseFS(files)
	goose.SetLogger(&gooseLogger{log: zap.L().With(zap.String("section", "goose")).Sugar()})
	return goose.SetDialect("postgres")
}

// gooseLogger adapts zap to goose.Logger.
type gooseLogger struct {
	log *zap.SugaredLogger
}

func (l *gooseLogger) Fatal(v ...interface{})                 { l.log.Fatal(v...) }
func (l *gooseLogger) Fatalf(format string, v ...interface{}) { l.log.Fatalf(format, v...) }
func (l *gooseLogger) Print(v ...interface{})                 { l.log.Info(v...) }
func (l *gooseLogger) Println(v ...interface{})               { l.log.Info(v...) }
func (l *gooseLogger) Printf(format string, v ...interface{}) { l.log.Infof(format, v...) }
