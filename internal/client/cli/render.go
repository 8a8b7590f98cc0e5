package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/dmitrijs2005/safescan/internal/client/models"
	"github.com/dmitrijs2005/safescan/internal/client/services"
)

const timeLayout = "2006-01-02 15:04"

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}

func renderProduct(p models.Product) string {
	var sb strings.Builder
	name := p.ProductName
	if name == "" {
		name = "Unnamed product"
	}
	fmt.Fprintf(&sb, "%s (%s)\n", name, p.Barcode)
	if len(p.Ingredients) == 0 {
		sb.WriteString("Ingredients: not available\n")
	} else {
		fmt.Fprintf(&sb, "Ingredients: %s\n", strings.Join(p.Ingredients, ", "))
	}
	if p.ImageURL != "" {
		fmt.Fprintf(&sb, "Image: %s\n", p.ImageURL)
	}
	return sb.String()
}

func renderNotFound(o *services.ScanOutcome) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Product %s not found.\n", o.Barcode)
	if len(o.Similar) == 0 {
		return sb.String()
	}
	sb.WriteString("Similar products:\n")
	for i, s := range o.Similar {
		fmt.Fprintf(&sb, "  %d. %s (%s)\n", i+1, s.ProductName, s.Barcode)
	}
	sb.WriteString("Use 'pick <n>' to look one up.\n")
	return sb.String()
}

func renderFlagged(sb *strings.Builder, flagged []models.FlaggedIngredient) {
	for _, f := range flagged {
		fmt.Fprintf(sb, "  - %s (%s: %s)\n", f.Ingredient, f.Type, f.Item)
	}
}

func renderCheck(r *services.CheckReport) string {
	var sb strings.Builder
	if !r.Result.HasIssues {
		fmt.Fprintf(&sb, "SAFE for profile %s.\n", r.Item.ProfileName)
		return sb.String()
	}
	fmt.Fprintf(&sb, "NOT SAFE for profile %s:\n", r.Item.ProfileName)
	renderFlagged(&sb, r.Result.Flagged)
	return sb.String()
}

func status(h models.HistoryItem) string {
	switch {
	case !h.Checked():
		return "unchecked"
	case *h.IsSafe:
		return "safe"
	default:
		return "unsafe"
	}
}

func renderHistory(items []models.HistoryItem) string {
	if len(items) == 0 {
		return "No scans yet.\n"
	}
	var sb strings.Builder
	for _, h := range items {
		fmt.Fprintf(&sb, "%s  %-14s %-9s %s [%s]\n",
			h.Timestamp.Local().Format(timeLayout), h.Barcode, status(h), h.ProductName, h.ProfileName)
	}
	return sb.String()
}

func renderNotifications(ns []models.Notification) string {
	if len(ns) == 0 {
		return "No alerts.\n"
	}
	var sb strings.Builder
	for _, n := range ns {
		fmt.Fprintf(&sb, "%s  %s (%s)\n", n.Timestamp.Local().Format(timeLayout), n.ProductName, n.Barcode)
		renderFlagged(&sb, n.Flagged)
	}
	return sb.String()
}

func renderProfiles(s services.ProfileSnapshot) string {
	var sb strings.Builder
	for _, p := range s.Profiles {
		marker := " "
		if p.ID == s.Active.ID {
			marker = "*"
		}
		fmt.Fprintf(&sb, "%s %s  %s\n", marker, p.ID, p.Name)
	}
	return sb.String()
}

func renderRestrictions(p models.Profile) string {
	return fmt.Sprintf("Profile: %s\nAllergies: %s\nRestrictions: %s\n",
		p.Name, joinOrNone(p.Allergies), joinOrNone(p.Restrictions))
}

func renderSlots(sizes map[string]int) string {
	if len(sizes) == 0 {
		return "Nothing stored.\n"
	}
	keys := make([]string, 0, len(sizes))
	for k := range sizes {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	var sb strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&sb, "  %-14s %d bytes\n", k, sizes[k])
	}
	return sb.String()
}
