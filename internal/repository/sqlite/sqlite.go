package sqlite

import (
	"encoding/json"
	"io"
	"time"

	"log/slog"

	"github.com/Fazalwahab12/shift-backend-sub002/internal/db"
	"github.com/Fazalwahab12/shift-backend-sub002/pkg/repository"
)

// SQLiteRepo implements repository interfaces using the internal DB wrapper.
type SQLiteRepo struct {
	conn   *db.DB
	logger *slog.Logger
}

// Ensure SQLiteRepo implements the public interfaces.
var _ repository.ApplicationRepo = (*SQLiteRepo)(nil)
var _ repository.InterviewRepo = (*SQLiteRepo)(nil)
var _ repository.HistoryRepo = (*SQLiteRepo)(nil)
var _ repository.BlockRepo = (*SQLiteRepo)(nil)
var _ repository.AccountRepo = (*SQLiteRepo)(nil)

func New(conn *db.DB, logger *slog.Logger) *SQLiteRepo {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return &SQLiteRepo{conn: conn, logger: logger}
}

func now() int64 {
	return time.Now().UTC().UnixMilli()
}

// marshalJSON renders v as a JSON column value, falling back to the provided
// zero value on error.
func marshalJSON(v any, zero string) string {
	b, err := json.Marshal(v)
	if err != nil {
		return zero
	}
	return string(b)
}
