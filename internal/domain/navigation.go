package domain

import (
	"net/url"
	"strings"
)

// NavigationTarget is where a granted staff member lands.
type NavigationTarget struct {
	Path        string `json:"path"`
	Role        string `json:"role"`
	DisplayRole string `json:"display_role,omitempty"`
	Name        string `json:"name"`
	AccountID   string `json:"account_id"`
}

// URL renders the target with its query in role, displayRole, name, id order.
func (t NavigationTarget) URL() string {
	var b strings.Builder
	b.WriteString(t.Path)
	b.WriteString("?role=")
	b.WriteString(t.Role)
	if t.DisplayRole != "" {
		b.WriteString("&displayRole=")
		b.WriteString(encodeComponent(t.DisplayRole))
	}
	b.WriteString("&name=")
	b.WriteString(encodeComponent(t.Name))
	b.WriteString("&id=")
	b.WriteString(t.AccountID)
	return b.String()
}

func encodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
