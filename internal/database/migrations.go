package database

import (
	"fmt"
	"log/slog"

	"github.com/yukikurage/helpdesk-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type compositeIndex struct {
	model   interface{}
	table   string
	name    string
	columns []string
}

// Lookups that filter by one column and sort by time.
var compositeIndexes = []compositeIndex{
	{&models.Comment{}, "comments", "idx_comments_ticket_created", []string{"ticket_id", "created_at"}},
	{&models.Notification{}, "notifications", "idx_notifications_user_created", []string{"user_id", "created_at"}},
	{&models.TicketHistory{}, "ticket_history", "idx_ticket_history_ticket_created", []string{"ticket_id", "created_at"}},
}

// AddIndexes creates the composite indexes that struct tags cannot express
// portably. Existing indexes are left alone.
func AddIndexes(db *gorm.DB, log *slog.Logger) error {
	for _, idx := range compositeIndexes {
		if db.Migrator().HasIndex(idx.model, idx.name) {
			log.Debug("index already exists, skipping", "index", idx.name)
			continue
		}

		// a []interface{} argument renders as a parenthesised list
		columns := make([]interface{}, len(idx.columns))
		for i, c := range idx.columns {
			columns[i] = clause.Column{Name: c}
		}
		err := db.Exec("CREATE INDEX ? ON ? ?",
			clause.Column{Name: idx.name}, clause.Table{Name: idx.table}, columns,
		).Error
		if err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		log.Info("created index", "index", idx.name, "table", idx.table)
	}

	return nil
}
