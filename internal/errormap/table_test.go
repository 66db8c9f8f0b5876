package errormap

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTable_RegisterAndLookup(t *testing.T) {
	t.Parallel()

	table := NewTable()

	err := table.Register("tenant/VerifyTenant",
		Entry{Code: "TENANT_NOT_FOUND", Status: http.StatusNotFound, Message: "Tenant not found"},
		Entry{Code: "TENANT_ALREADY_VERIFIED", Status: http.StatusConflict, Message: "Tenant already verified"},
	)
	require.NoError(t, err)
	assert.Equal(t, 2, table.Len())

	entry, ok := table.Lookup("tenant/VerifyTenant", "TENANT_NOT_FOUND")
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, entry.Status)
	assert.Equal(t, "Tenant not found", entry.Message)

	_, ok = table.Lookup("tenant/VerifyTenant", "UNKNOWN_CODE")
	assert.False(t, ok)

	// Same code under a different operation is a distinct entry.
	_, ok = table.Lookup("tenant/CreateTenant", "TENANT_NOT_FOUND")
	assert.False(t, ok)
}

func TestTable_RegisterRejectsInvalidEntries(t *testing.T) {
	t.Parallel()

	table := NewTable()

	assert.Error(t, table.Register("op", Entry{Code: "", Status: http.StatusNotFound}))
	assert.Error(t, table.Register("op", Entry{Code: "X", Status: 0}))
}

func TestTable_RegisterRejectsDuplicates(t *testing.T) {
	t.Parallel()

	table := NewTable()

	require.NoError(t, table.Register("op", Entry{Code: "X", Status: http.StatusNotFound}))
	assert.Error(t, table.Register("op", Entry{Code: "X", Status: http.StatusConflict}))
}

func TestTable_MustRegisterPanics(t *testing.T) {
	t.Parallel()

	table := NewTable()

	assert.Panics(t, func() {
		table.MustRegister("op", Entry{Code: "", Status: 0})
	})
}
