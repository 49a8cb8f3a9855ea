package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestResolve_TabTable verifies the fixed tab-to-parameter mapping.
func TestResolve_TabTable(t *testing.T) {
	tests := []struct {
		name string
		tab  Tab
		want Params
	}{
		{"all", TabAll, Params{}},
		{"pending", TabPending, Params{Status: "false"}},
		{"inProgress", TabInProgress, Params{Status: "inProgress"}},
		{"completed", TabCompleted, Params{Status: "true"}},
		{"paid", TabPaid, Params{ChargeStatus: "paid"}},
		{"unpaid", TabUnpaid, Params{ChargeStatus: "pending"}},
		{"recurrent", TabRecurrent, Params{IsRecurrent: true}},
		{"deleted", TabDeleted, Params{ShowDeleted: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.tab, Filters{}, "")
			assert.Equal(t, tt.want, got)
		})
	}
}

// TestResolve_UnknownTabFallsBackToAll verifies unknown tabs never leak
// partial parameters.
func TestResolve_UnknownTabFallsBackToAll(t *testing.T) {
	got := Resolve(Tab("bogus"), Filters{}, "")
	assert.Equal(t, Resolve(TabAll, Filters{}, ""), got)
}

// TestResolve_TabOverridesFilterStatus verifies a tab always wins over the
// filter record's own status fields.
func TestResolve_TabOverridesFilterStatus(t *testing.T) {
	filters := Filters{
		Status:       "true",
		ChargeStatus: ChargePaid,
		Recurrent:    true,
	}

	got := Resolve(TabPending, filters, "")

	assert.Equal(t, "false", got.Status)
	assert.Empty(t, got.ChargeStatus)
	assert.False(t, got.IsRecurrent)
}

// TestResolve_CarriesFiltersAndSearch verifies the non-tab fields pass
// through untouched.
func TestResolve_CarriesFiltersAndSearch(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	filters := Filters{
		UserID:         "u1",
		CategoryID:     "c1",
		EmployerID:     "e1",
		StartDate:      &start,
		EndDate:        &end,
		HasAttachments: true,
	}

	got := Resolve(TabAll, filters, "invoice")

	assert.Equal(t, "invoice", got.Search)
	assert.Equal(t, "u1", got.UserID)
	assert.Equal(t, "c1", got.CategoryID)
	assert.Equal(t, "e1", got.EmployerID)
	assert.Equal(t, &start, got.StartDate)
	assert.Equal(t, &end, got.EndDate)
	assert.True(t, got.HasAttachments)
}

// TestResolveFree_UsesFilterStatus verifies tab-less views honour the
// filter record's status fields.
func TestResolveFree_UsesFilterStatus(t *testing.T) {
	got := ResolveFree(Filters{Status: "inProgress", ChargeStatus: ChargePending, Recurrent: true}, "")

	assert.Equal(t, "inProgress", got.Status)
	assert.Equal(t, ChargePending, got.ChargeStatus)
	assert.True(t, got.IsRecurrent)
	assert.False(t, got.ShowDeleted)
}

// TestFingerprint_IgnoresPage verifies two pages of the same query share a
// fingerprint while different queries never do.
func TestFingerprint_IgnoresPage(t *testing.T) {
	p := Resolve(TabPending, Filters{UserID: "u1"}, "report")

	assert.Equal(t, p.Fingerprint(), p.Fingerprint())

	v1 := p.Values(1, 20)
	v2 := p.Values(7, 20)
	assert.NotEqual(t, v1.Encode(), v2.Encode())
	assert.Equal(t, "1", v1.Get("pageNumber"))
	assert.Equal(t, "7", v2.Get("pageNumber"))

	other := Resolve(TabCompleted, Filters{UserID: "u1"}, "report")
	assert.NotEqual(t, p.Fingerprint(), other.Fingerprint())
}

// TestFingerprint_SearchChangesIdentity verifies search text is part of
// the query identity.
func TestFingerprint_SearchChangesIdentity(t *testing.T) {
	a := Resolve(TabAll, Filters{}, "alpha")
	b := Resolve(TabAll, Filters{}, "beta")
	assert.NotEqual(t, a.Fingerprint(), b.Fingerprint())
}

// TestValues_EncodesCursor verifies the page cursor fields are always
// present.
func TestValues_EncodesCursor(t *testing.T) {
	v := Resolve(TabAll, Filters{}, "").Values(3, 50)
	assert.Equal(t, "3", v.Get("pageNumber"))
	assert.Equal(t, "50", v.Get("pageSize"))
	assert.Equal(t, "", v.Get("status"))
	assert.Equal(t, "false", v.Get("isRecurrent"))
	assert.Equal(t, "false", v.Get("showDeleted"))
}
