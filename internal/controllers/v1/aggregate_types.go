package v1

import "time"

// AggregateKind selects which aggregate is computed.
type AggregateKind string

const (
	AggregateIncome  AggregateKind = "income"
	AggregateExpense AggregateKind = "expense"
	AggregateNet     AggregateKind = "net"
)

// AggregateEditable represents all user configurable parameters
type AggregateEditable struct {
	Kind          AggregateKind `json:"kind" example:"net"`                 // Aggregate to compute: income, expense or net
	DepartmentIDs []uint64      `json:"departmentIds" example:"2,3"`        // Departments to aggregate over
	ProjectID     uint64        `json:"projectId" example:"0" default:"0"`  // Restrict to this project, 0 means all projects
}

type Aggregate struct {
	AggregateEditable
	Result     string    `json:"result"`                                            // Handle of the encrypted result, granted to the caller
	ComputedAt time.Time `json:"computedAt" example:"2026-02-12T09:11:01.048145Z"` // Time the aggregate was computed
}

type AggregateResponse struct {
	Data  *Aggregate `json:"data"`                                                       // Data for the aggregate
	Error *string    `json:"error" example:"there is no department matching your query"` // The error, if any occurred
	Code  *string    `json:"code" example:"not_found"`                                   // Stable machine checkable reason, if an error occurred
}
