// test/mock/gate.go
package mock

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/dev-mohitbeniwal/neonvault/audit"
	"github.com/dev-mohitbeniwal/neonvault/model"
)

// MockAuthenticator is a mock implementation of middleware.Authenticator
type MockAuthenticator struct {
	mock.Mock
}

func (m *MockAuthenticator) Authenticate(ctx context.Context, rawToken string) (*model.Identity, error) {
	args := m.Called(ctx, rawToken)
	identity, _ := args.Get(0).(*model.Identity)
	return identity, args.Error(1)
}

// MockAdmitter is a mock implementation of middleware.Admitter
type MockAdmitter struct {
	mock.Mock
	limit  int
	window time.Duration
}

func NewMockAdmitter(limit int, window time.Duration) *MockAdmitter {
	return &MockAdmitter{limit: limit, window: window}
}

func (m *MockAdmitter) Admit(ctx context.Context, subject string) (int64, error) {
	args := m.Called(ctx, subject)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAdmitter) Limit() int {
	return m.limit
}

func (m *MockAdmitter) Window() time.Duration {
	return m.window
}

// MockAuditor is a mock implementation of audit.Auditor
type MockAuditor struct {
	mock.Mock
}

func (m *MockAuditor) Dispatch(record audit.AuditRecord) bool {
	args := m.Called(record)
	return args.Bool(0)
}

// Records returns every record passed to Dispatch so far.
func (m *MockAuditor) Records() []audit.AuditRecord {
	var records []audit.AuditRecord
	for _, call := range m.Calls {
		if call.Method == "Dispatch" {
			records = append(records, call.Arguments.Get(0).(audit.AuditRecord))
		}
	}
	return records
}
