// Package query maps the view-level tab and filter state onto the flat
// parameter set the task list endpoint accepts.
package query

import (
	"net/url"
	"strconv"
	"time"
)

// Tab is one of the fixed named views of the task list. A tab
// deterministically sets several query parameters at once and always wins
// over the corresponding fields of the advanced filter record.
type Tab string

const (
	TabAll        Tab = "all"
	TabPending    Tab = "pending"
	TabInProgress Tab = "inProgress"
	TabCompleted  Tab = "completed"
	TabPaid       Tab = "paid"
	TabUnpaid     Tab = "unpaid"
	TabRecurrent  Tab = "recurrent"
	TabDeleted    Tab = "deleted"
)

// ChargeStatus values accepted by the list endpoint.
const (
	ChargePaid    = "paid"
	ChargePending = "pending"
)

// Filters is the advanced filter record. Zero values mean "not applied".
// Status, ChargeStatus and Recurrent only take effect in views without a
// tab concept; Resolve overrides them whenever a tab is active.
type Filters struct {
	Status         string
	ChargeStatus   string
	Recurrent      bool
	UserID         string
	CategoryID     string
	EmployerID     string
	StartDate      *time.Time
	EndDate        *time.Time
	HasAttachments bool
}

// Params is the resolved flat parameter set sent verbatim as the list
// query.
type Params struct {
	Status         string
	ChargeStatus   string
	IsRecurrent    bool
	ShowDeleted    bool
	Search         string
	UserID         string
	CategoryID     string
	EmployerID     string
	StartDate      *time.Time
	EndDate        *time.Time
	HasAttachments bool
}

// tabRow is a row of the fixed tab lookup table.
type tabRow struct {
	status       string
	chargeStatus string
	isRecurrent  bool
	showDeleted  bool
}

// The list endpoint encodes status as '' (any), 'false' (pending),
// 'inProgress' and 'true' (completed). Kept as the server defines it.
var tabTable = map[Tab]tabRow{
	TabAll:        {},
	TabPending:    {status: "false"},
	TabInProgress: {status: "inProgress"},
	TabCompleted:  {status: "true"},
	TabPaid:       {chargeStatus: ChargePaid},
	TabUnpaid:     {chargeStatus: ChargePending},
	TabRecurrent:  {isRecurrent: true},
	TabDeleted:    {showDeleted: true},
}

// Resolve combines the active tab, the advanced filter record and the
// free-text search into a single parameter set. An unknown tab falls back
// to the "all" row.
func Resolve(tab Tab, filters Filters, search string) Params {
	row, ok := tabTable[tab]
	if !ok {
		row = tabTable[TabAll]
	}

	return Params{
		Status:         row.status,
		ChargeStatus:   row.chargeStatus,
		IsRecurrent:    row.isRecurrent,
		ShowDeleted:    row.showDeleted,
		Search:         search,
		UserID:         filters.UserID,
		CategoryID:     filters.CategoryID,
		EmployerID:     filters.EmployerID,
		StartDate:      filters.StartDate,
		EndDate:        filters.EndDate,
		HasAttachments: filters.HasAttachments,
	}
}

// ResolveFree builds params for views without a tab concept, where the
// filter record's own status fields apply.
func ResolveFree(filters Filters, search string) Params {
	return Params{
		Status:         filters.Status,
		ChargeStatus:   filters.ChargeStatus,
		IsRecurrent:    filters.Recurrent,
		Search:         search,
		UserID:         filters.UserID,
		CategoryID:     filters.CategoryID,
		EmployerID:     filters.EmployerID,
		StartDate:      filters.StartDate,
		EndDate:        filters.EndDate,
		HasAttachments: filters.HasAttachments,
	}
}

// Values encodes the params plus the page cursor as URL query values.
func (p Params) Values(page, pageSize int) url.Values {
	v := p.baseValues()
	v.Set("pageNumber", strconv.Itoa(page))
	v.Set("pageSize", strconv.Itoa(pageSize))
	return v
}

// Fingerprint identifies "which query's response this is". Two parameter
// sets differing only in page produce the same fingerprint; responses are
// matched against it to discard stale arrivals.
func (p Params) Fingerprint() string {
	return p.baseValues().Encode()
}

func (p Params) baseValues() url.Values {
	v := url.Values{}
	v.Set("status", p.Status)
	v.Set("chargeStatus", p.ChargeStatus)
	v.Set("isRecurrent", strconv.FormatBool(p.IsRecurrent))
	v.Set("showDeleted", strconv.FormatBool(p.ShowDeleted))
	if p.Search != "" {
		v.Set("search", p.Search)
	}
	if p.UserID != "" {
		v.Set("userId", p.UserID)
	}
	if p.CategoryID != "" {
		v.Set("categoryId", p.CategoryID)
	}
	if p.EmployerID != "" {
		v.Set("employerId", p.EmployerID)
	}
	if p.StartDate != nil {
		v.Set("startDate", p.StartDate.UTC().Format(time.RFC3339))
	}
	if p.EndDate != nil {
		v.Set("endDate", p.EndDate.UTC().Format(time.RFC3339))
	}
	if p.HasAttachments {
		v.Set("hasAttachments", "true")
	}
	return v
}
