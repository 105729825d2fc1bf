package checklist

import (
	"sort"

	"github.com/garyjia/backoffice-console/internal/domain/entity"
	"github.com/garyjia/backoffice-console/pkg/utils"
)

// ResolveByName picks the existing record for an employee when no idempotency
// key is available. Candidates are records whose normalized employee name
// equals the normalized fullName. If referenceDate is set and at least one
// candidate shares it, only those are kept. The most recently updated
// candidate wins.
//
// Two employees with the same normalized name share records under this rule;
// records written by this service carry an idempotency key and never reach it.
func ResolveByName(records []*entity.ChecklistRecord, fullName, referenceDate string) *entity.ChecklistRecord {
	key := utils.NormalizeName(fullName)
	if key == "" {
		return nil
	}

	var candidates []*entity.ChecklistRecord
	for _, r := range records {
		if r != nil && utils.NormalizeName(r.EmployeeName) == key {
			candidates = append(candidates, r)
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	if referenceDate != "" {
		var dated []*entity.ChecklistRecord
		for _, r := range candidates {
			if r.ReferenceDate == referenceDate {
				dated = append(dated, r)
			}
		}
		if len(dated) > 0 {
			candidates = dated
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].UpdatedAt.After(candidates[j].UpdatedAt)
	})
	return candidates[0]
}
