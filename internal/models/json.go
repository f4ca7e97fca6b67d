package models

import (
	"database/sql/driver"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// JSON wraps datatypes.JSON so column types can be picked per dialect.
// Slot configuration payloads live in columns of this type.
type JSON struct {
	datatypes.JSON
}

// NewJSON wraps raw JSON bytes.
func NewJSON(b []byte) JSON {
	return JSON{JSON: datatypes.JSON(b)}
}

func (j JSON) Value() (driver.Value, error) {
	return j.JSON.Value()
}

func (j *JSON) Scan(value interface{}) error {
	return j.JSON.Scan(value)
}

// GormDBDataType maps the column type per driver. SQL Server has no native
// json type, so it falls back to NVARCHAR(MAX).
func (JSON) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	switch db.Dialector.Name() {
	case "postgres":
		return "JSONB"
	case "sqlserver", "mssql":
		return "NVARCHAR(MAX)"
	case "mysql", "sqlite":
		return "JSON"
	default:
		return "TEXT"
	}
}
