// test/mock/audit.go
package mock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dev-mohitbeniwal/neonvault/audit"
)

// MockAuditRepository is a mock implementation of audit.Repository
type MockAuditRepository struct {
	mock.Mock
}

func (m *MockAuditRepository) Record(ctx context.Context, record audit.AuditRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

// Records returns every record passed to Record so far.
func (m *MockAuditRepository) Records() []audit.AuditRecord {
	var records []audit.AuditRecord
	for _, call := range m.Calls {
		if call.Method == "Record" {
			records = append(records, call.Arguments.Get(1).(audit.AuditRecord))
		}
	}
	return records
}
