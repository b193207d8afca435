package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/records-api/internal/config"
	"github.com/aanand-mishra/records-api/internal/types"
)

// RECORDS_TEST_POSTGRES_DSN points at a disposable database; the test
// empties every table it touches.
func TestStoreAgainstPostgres(t *testing.T) {
	dsn := os.Getenv("RECORDS_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("RECORDS_TEST_POSTGRES_DSN not set")
	}
	ctx := context.Background()

	cfg := &config.Config{Storage: config.Storage{Driver: config.DriverPostgres, DSN: dsn}}
	store, err := New(ctx, cfg)
	if err != nil {
		t.Skipf("postgres unavailable: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	employees := store.Employees()
	require.NoError(t, employees.DeleteAll(ctx))

	saved, err := employees.Save(ctx, types.Employee{
		FirstName: "Sita",
		Skills:    []string{"go"},
		Address:   &types.Address{City: "Pokhara", Country: "Nepal"},
		PhoneNumbers: []types.PhoneNumber{
			{Type: "mobile", Number: "9800000000"},
		},
	})
	require.NoError(t, err)

	got, err := employees.FindByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, saved, got)

	found, err := employees.FindByExample(ctx, types.Employee{Address: &types.Address{City: "POK"}})
	require.NoError(t, err)
	assert.Len(t, found, 1)

	require.NoError(t, employees.DeleteByID(ctx, saved.ID))
}
