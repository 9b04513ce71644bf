package view

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ubox-pos/cloud-dashboard/internal/domain"
)

// DeviceRow is a registered terminal with its authorization action.
type DeviceRow struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Fingerprint  string    `json:"fingerprint"`
	Role         string    `json:"role,omitempty"`
	IsAuthorized bool      `json:"is_authorized"`
	StatusLabel  string    `json:"status_label"`
	ActionLabel  string    `json:"action_label"`
	LastSeen     time.Time `json:"last_seen"`
}

// DevicesView is the devices page.
type DevicesView struct {
	Status
	Devices []DeviceRow `json:"devices"`
}

// Devices lists terminals.
func Devices(devices []domain.Device) DevicesView {
	v := DevicesView{Devices: make([]DeviceRow, 0, len(devices))}
	for _, d := range devices {
		row := DeviceRow{
			ID:           d.ID,
			Name:         d.Name,
			Fingerprint:  d.Fingerprint,
			Role:         d.Role,
			IsAuthorized: d.IsAuthorized,
			StatusLabel:  "Pendiente",
			ActionLabel:  "Autorizar Dispositivo",
			LastSeen:     d.LastSeen,
		}
		if d.IsAuthorized {
			row.StatusLabel = "Autorizado"
			row.ActionLabel = "Revocar Acceso"
		}
		v.Devices = append(v.Devices, row)
	}
	return v
}

// ProductRow is a product with its stock bucket.
type ProductRow struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Category   string          `json:"category"`
	Price      decimal.Decimal `json:"price"`
	Stock      int             `json:"stock"`
	StockLevel string          `json:"stock_level"`
}

// ProductsView backs both the inventory and the catalog pages.
type ProductsView struct {
	Status
	Products []ProductRow `json:"products"`
}

// Products lists products, labelling uncategorised ones.
func Products(products []domain.Product, readOnly bool) ProductsView {
	v := ProductsView{Products: make([]ProductRow, 0, len(products))}
	if readOnly {
		v.Notice = ReadOnlyNotice
	}
	for _, p := range products {
		category := p.Category
		if category == "" {
			category = "Sin categoría"
		}
		v.Products = append(v.Products, ProductRow{
			ID:         p.ID,
			Name:       p.Name,
			Category:   category,
			Price:      p.Price.Round(2),
			Stock:      p.Stock,
			StockLevel: p.StockLevel(),
		})
	}
	return v
}

// MemberRow is a dashboard user of the business.
type MemberRow struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Initial string `json:"initial"`
	Role    string `json:"role"`
	Access  string `json:"access"`
}

// StaffView is the team page.
type StaffView struct {
	Status
	Members []MemberRow `json:"members"`
}

// Staff lists business members. Only owners have full access.
func Staff(members []domain.BusinessMember) StaffView {
	v := StaffView{Members: make([]MemberRow, 0, len(members))}
	for _, m := range members {
		row := MemberRow{
			ID:     m.User.ID,
			Name:   m.User.Name,
			Email:  m.User.Email,
			Role:   m.Role,
			Access: "Acceso Limitado",
		}
		if r := []rune(strings.TrimSpace(m.User.Name)); len(r) > 0 {
			row.Initial = strings.ToUpper(string(r[0]))
		}
		if m.Role == domain.MemberRoleOwner {
			row.Access = "Acceso Total"
		}
		v.Members = append(v.Members, row)
	}
	return v
}

// LogRow is a license log entry with readable details.
type LogRow struct {
	ID        string    `json:"id"`
	Action    string    `json:"action"`
	DeviceID  string    `json:"device_id,omitempty"`
	Details   string    `json:"details"`
	Timestamp time.Time `json:"timestamp"`
}

// LogsView is the license log page.
type LogsView struct {
	Status
	Entries []LogRow `json:"entries"`
}

// Logs lists license log entries.
func Logs(logs []domain.LicenseLog) LogsView {
	v := LogsView{Entries: make([]LogRow, 0, len(logs))}
	for _, l := range logs {
		v.Entries = append(v.Entries, LogRow{
			ID:        l.ID,
			Action:    l.Action,
			DeviceID:  l.DeviceID,
			Details:   PrettyDetails(l.Details),
			Timestamp: l.Timestamp,
		})
	}
	return v
}

// PrettyDetails indents JSON details and leaves anything else as is.
func PrettyDetails(details string) string {
	if strings.TrimSpace(details) == "" {
		return "Sin detalles adicionales"
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(details), "", "  "); err != nil {
		return details
	}
	return buf.String()
}

// MenuItem is an entry of the management menu.
type MenuItem struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Count       *int   `json:"count,omitempty"`
}

// AdminDashboardView is the management landing page.
type AdminDashboardView struct {
	Status
	Role        string            `json:"role"`
	DisplayRole string            `json:"display_role,omitempty"`
	Name        string            `json:"name,omitempty"`
	Date        string            `json:"date"`
	Stats       domain.OrderStats `json:"stats"`
	Menu        []MenuItem        `json:"menu"`
}

// AdminIdentity is who was routed to the management dashboard.
type AdminIdentity struct {
	Role        string
	DisplayRole string
	Name        string
}

// AdminDashboard builds the management menu. Settings are offered to admins only.
func AdminDashboard(who AdminIdentity, staffCount int, stats domain.OrderStats, now time.Time, loc *time.Location) AdminDashboardView {
	if loc == nil {
		loc = time.UTC
	}
	staff := staffCount
	orders := stats.TotalOrders
	menu := []MenuItem{
		{Title: "Personal", Description: "Gestionar usuarios y roles", Count: &staff},
		{Title: "Configuración", Description: "Ajustes del sistema"},
		{Title: "Reportes", Description: "Estadísticas y análisis"},
		{Title: "Productos", Description: "Catálogo e inventario"},
		{Title: "Pedidos", Description: "Gestión de órdenes", Count: &orders},
		{Title: "Pagos", Description: "Transacciones y cobros"},
	}
	if who.Role != "admin" {
		filtered := menu[:0]
		for _, m := range menu {
			if m.Title != "Configuración" {
				filtered = append(filtered, m)
			}
		}
		menu = filtered
	}
	return AdminDashboardView{
		Role:        who.Role,
		DisplayRole: who.DisplayRole,
		Name:        who.Name,
		Date:        now.In(loc).Format("02/01/2006"),
		Stats:       stats,
		Menu:        menu,
	}
}
