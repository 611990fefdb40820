// Package events emits the audit trail for external observers.
//
// Events carry ids and principals, never plaintext amounts and never
// encrypted payloads.
package events

import "github.com/rs/zerolog/log"

func DepartmentCreated(id uint64, name, admin string) {
	log.Info().
		Str("event", "department.created").
		Uint64("department", id).
		Str("name", name).
		Str("admin", admin).
		Msg("department created")
}

func MemberAdded(departmentID uint64, principal string) {
	log.Info().
		Str("event", "department.member_added").
		Uint64("department", departmentID).
		Str("principal", principal).
		Msg("member added")
}

func MemberRemoved(departmentID uint64, principal string) {
	log.Info().
		Str("event", "department.member_removed").
		Uint64("department", departmentID).
		Str("principal", principal).
		Msg("member removed")
}

func RecordCreated(id uint64, recordType string, departmentID uint64, creator string) {
	log.Info().
		Str("event", "record.created").
		Uint64("record", id).
		Str("type", recordType).
		Uint64("department", departmentID).
		Str("creator", creator).
		Msg("record created")
}

func AuditorAdded(principal string, granted int) {
	log.Info().
		Str("event", "auditor.added").
		Str("principal", principal).
		Int("granted", granted).
		Msg("auditor added")
}

func AuditorRemoved(principal string) {
	log.Info().
		Str("event", "auditor.removed").
		Str("principal", principal).
		Msg("auditor removed")
}

func AggregateComputed(kind string, departments int, caller string) {
	log.Info().
		Str("event", "aggregate.computed").
		Str("kind", kind).
		Int("departments", departments).
		Str("caller", caller).
		Msg("aggregate computed")
}

func CalculationSaved(id uint64, creator string) {
	log.Info().
		Str("event", "calculation.saved").
		Uint64("calculation", id).
		Str("creator", creator).
		Msg("calculation saved")
}
