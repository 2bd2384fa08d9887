// Package access enforces the organization-scoped access policy shared by the
// upload and query paths: a caller's org must be contained, case-insensitively,
// in a row's org value. Organizations are free text and may embed sub-branch
// qualifiers ("Acme" matches "Acme - North Branch"), so equality is too strict.
package access

import (
	"errors"
	"fmt"
	"strings"

	"github.com/crusher0311/maddenco-dvi-dashboard/internal/ingest"
	"github.com/crusher0311/maddenco-dvi-dashboard/internal/models"
)

// ErrUploadDenied aborts an entire batch before any row is written.
var ErrUploadDenied = errors.New("upload denied")

// Identity is the authenticated caller: username, role, and (for the User
// role) the organization the caller is scoped to. It is passed explicitly
// into guard calls rather than read from ambient state.
type Identity struct {
	Username string
	Role     models.Role
	Org      string
}

func (i Identity) IsAdmin() bool {
	return i.Role == models.RoleAdmin
}

// OrgMatches reports whether value passes the contains-check against the
// caller's org. An empty caller org never matches.
func OrgMatches(userOrg, value string) bool {
	u := strings.ToLower(strings.TrimSpace(userOrg))
	if u == "" {
		return false
	}
	return strings.Contains(strings.ToLower(value), u)
}

// CheckUpload validates a whole batch before ingestion. Admins bypass the
// check. For the User role: if the table carries an org column, every row's
// value must pass the contains-check; otherwise the batch-level declared org
// must pass. Any failure rejects the entire batch with zero rows written.
func CheckUpload(id Identity, t *ingest.Table, declaredOrg string) error {
	if id.IsAdmin() {
		return nil
	}

	if orgColumn, ok := ingest.FindOrgColumn(t.Headers); ok {
		for i, row := range t.Rows {
			if v := t.Cell(row, orgColumn); !OrgMatches(id.Org, v) {
				return fmt.Errorf("%w: row %d org %q does not contain your organization %q",
					ErrUploadDenied, i+1, v, id.Org)
			}
		}
		return nil
	}

	if !OrgMatches(id.Org, declaredOrg) {
		return fmt.Errorf("%w: organization %q does not contain your organization %q",
			ErrUploadDenied, declaredOrg, id.Org)
	}
	return nil
}

// FilterRows re-applies the contains-check after the store's coarse equality
// filter. SQL equality cannot express the substring semantics, so the fine
// filter runs in the application layer. Admins see everything.
func FilterRows(id Identity, rows []models.DataRow) []models.DataRow {
	if id.IsAdmin() {
		return rows
	}
	kept := rows[:0]
	for _, r := range rows {
		if OrgMatches(id.Org, r.Org) {
			kept = append(kept, r)
		}
	}
	return kept
}
