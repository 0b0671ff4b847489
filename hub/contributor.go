package hub

// Role identifies the column a contributor was listed under.
type Role int

const (
	RoleAuthor Role = iota
	RoleEditor
	RoleTranslator
)

// Roles lists every contributor role in the order the charts stack them.
var Roles = []Role{RoleAuthor, RoleEditor, RoleTranslator}

// String returns the role name.
func (r Role) String() string {
	switch r {
	case RoleAuthor:
		return "author"
	case RoleEditor:
		return "editor"
	case RoleTranslator:
		return "translator"
	}
	return "unknown"
}

// Label returns the Turkish display label for the role.
func (r Role) Label() string {
	switch r {
	case RoleAuthor:
		return "Yazar"
	case RoleEditor:
		return "Editör"
	case RoleTranslator:
		return "Çevirmen"
	}
	return ""
}
