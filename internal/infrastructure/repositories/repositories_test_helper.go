package repositories

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err, "open sqlite")
	return db
}

func mustExec(t *testing.T, db *gorm.DB, q string, args ...interface{}) {
	t.Helper()
	require.NoError(t, db.Exec(q, args...).Error, "exec failed: query=%s", q)
}

func createTransferFormTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE transfer_forms (
		id TEXT PRIMARY KEY,
		form_id TEXT UNIQUE NOT NULL,
		order_id TEXT NOT NULL,
		company_id TEXT NOT NULL,
		company_name TEXT NOT NULL,
		seller TEXT,
		buyer TEXT,
		shareholders TEXT,
		controllers TEXT,
		new_company_name TEXT,
		activity_codes TEXT,
		total_shares INTEGER NOT NULL,
		total_share_capital REAL NOT NULL,
		price_per_share REAL NOT NULL,
		status TEXT NOT NULL,
		amendments_required_count INTEGER NOT NULL DEFAULT 0,
		status_history TEXT NOT NULL,
		comments TEXT,
		attachments TEXT,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	);`)
}

func createOrderTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE orders (
		id TEXT PRIMARY KEY,
		order_id TEXT UNIQUE NOT NULL,
		company_id TEXT NOT NULL,
		company_name TEXT NOT NULL,
		customer_name TEXT NOT NULL,
		customer_email TEXT NOT NULL,
		customer_phone TEXT,
		amount REAL NOT NULL,
		currency TEXT NOT NULL,
		status TEXT NOT NULL,
		payment_method TEXT,
		payment_reference TEXT,
		payment_received_at DATETIME,
		refund TEXT,
		status_history TEXT NOT NULL,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	);`)
}

func createCompanyTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE companies (
		id TEXT PRIMARY KEY,
		company_id TEXT UNIQUE NOT NULL,
		name TEXT NOT NULL,
		registration_number TEXT NOT NULL,
		jurisdiction TEXT NOT NULL,
		incorporated_at DATETIME,
		price REAL NOT NULL,
		currency TEXT NOT NULL,
		total_shares INTEGER NOT NULL,
		total_share_capital REAL NOT NULL,
		status TEXT NOT NULL,
		owner_id TEXT,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	);`)
}

func createUserTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE users (
		id TEXT PRIMARY KEY,
		email TEXT UNIQUE NOT NULL,
		name TEXT NOT NULL,
		role TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	);`)
}

func createNotificationTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE notifications (
		id TEXT PRIMARY KEY,
		event TEXT NOT NULL,
		recipient TEXT NOT NULL,
		subject TEXT NOT NULL,
		ref_type TEXT NOT NULL,
		ref_id TEXT NOT NULL,
		status TEXT NOT NULL,
		error_message TEXT,
		sent_at DATETIME,
		created_at DATETIME
	);`)
}

func createOutboxTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE outbox_entries (
		id TEXT PRIMARY KEY,
		record_type TEXT NOT NULL,
		record_id TEXT NOT NULL,
		payload TEXT NOT NULL,
		status TEXT NOT NULL,
		attempts INTEGER NOT NULL DEFAULT 0,
		max_attempts INTEGER NOT NULL,
		remote_id TEXT,
		scheduled_at DATETIME NOT NULL,
		completed_at DATETIME,
		error_message TEXT,
		created_at DATETIME,
		updated_at DATETIME
	);`)
}
