package helpers

import (
	"strings"

	"github.com/lehigh-university-libraries/bibstats/hub"
)

var relatorRoles = map[string]hub.Role{
	"aut": hub.RoleAuthor,
	"edt": hub.RoleEditor,
	"trl": hub.RoleTranslator,
}

// RelatorCodeFromURI extracts the relator code from a URI like "relators:aut"
func RelatorCodeFromURI(uri string) string {
	if strings.HasPrefix(uri, "relators:") {
		return strings.TrimPrefix(uri, "relators:")
	}

	// Full URI like "http://id.loc.gov/vocabulary/relators/aut"
	if strings.Contains(uri, "relators/") {
		parts := strings.Split(uri, "relators/")
		if len(parts) > 1 {
			return strings.TrimSuffix(parts[1], "/")
		}
	}

	return uri
}

// ParseRole resolves a MARC code, relator URI, English label or Turkish label to a role.
func ParseRole(s string) (hub.Role, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return hub.RoleAuthor, false
	}

	code := strings.ToLower(RelatorCodeFromURI(s))
	if role, ok := relatorRoles[code]; ok {
		return role, true
	}

	aliases := map[string]hub.Role{
		"author":      hub.RoleAuthor,
		"authors":     hub.RoleAuthor,
		"editor":      hub.RoleEditor,
		"editors":     hub.RoleEditor,
		"translator":  hub.RoleTranslator,
		"translators": hub.RoleTranslator,
	}
	if role, ok := aliases[strings.ToLower(s)]; ok {
		return role, true
	}

	folded := FoldTurkish(s)
	for _, role := range hub.Roles {
		if folded == FoldTurkish(role.Label()) {
			return role, true
		}
	}
	return hub.RoleAuthor, false
}

// RoleCode returns the MARC relator code for a role.
func RoleCode(role hub.Role) string {
	for code, r := range relatorRoles {
		if r == role {
			return code
		}
	}
	return ""
}
