// Package mirror pushes committed records to the remote Airtable base. The
// mirror is strictly an outbound sync target: nothing in the request path
// reads from or waits on it.
package mirror

import (
	"context"
	"fmt"
	"time"

	"github.com/mehanizm/airtable"
)

// Client syncs one record snapshot to the remote mirror. remoteID is empty on
// first sync; the returned id is stored for subsequent updates.
type Client interface {
	Upsert(ctx context.Context, recordType, recordID, payload, remoteID string) (string, error)
}

// AirtableClient mirrors records into one table per record type. Field
// mapping is deliberately opaque: the full record travels as a JSON payload
// column, keyed by the user-facing record id.
type AirtableClient struct {
	client *airtable.Client
	baseID string
	tables map[string]string // record type -> table name
}

// NewAirtableClient creates a mirror client for the given base
func NewAirtableClient(apiToken, baseID, formsTable, ordersTable string) *AirtableClient {
	return &AirtableClient{
		client: airtable.NewClient(apiToken),
		baseID: baseID,
		tables: map[string]string{
			"transfer-form": formsTable,
			"order":         ordersTable,
		},
	}
}

// Upsert creates the remote record when remoteID is empty, else updates it
func (c *AirtableClient) Upsert(ctx context.Context, recordType, recordID, payload, remoteID string) (string, error) {
	tableName, ok := c.tables[recordType]
	if !ok {
		return "", fmt.Errorf("no mirror table configured for record type %q", recordType)
	}
	table := c.client.GetTable(c.baseID, tableName)

	fields := map[string]interface{}{
		"Record ID": recordID,
		"Payload":   payload,
		"Synced At": time.Now().UTC().Format(time.RFC3339),
	}

	if remoteID == "" {
		created, err := table.AddRecordsContext(ctx, &airtable.Records{
			Records: []*airtable.Record{{Fields: fields}},
		})
		if err != nil {
			return "", fmt.Errorf("mirror create: %w", err)
		}
		if len(created.Records) == 0 {
			return "", fmt.Errorf("mirror create: empty response")
		}
		return created.Records[0].ID, nil
	}

	record, err := table.GetRecordContext(ctx, remoteID)
	if err != nil {
		return "", fmt.Errorf("mirror fetch %s: %w", remoteID, err)
	}
	if _, err := record.UpdateRecordPartialContext(ctx, fields); err != nil {
		return "", fmt.Errorf("mirror update %s: %w", remoteID, err)
	}
	return remoteID, nil
}
