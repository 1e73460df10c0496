// Package publish uploads the selected report of a cadence to each of its
// destinations and records completed uploads in the ledger.
package publish

import (
	"fmt"
	"regexp"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/dvloznov/report-uploader/internal/report"
)

// Destination is one remote location a report is copied to.
type Destination struct {
	// Name identifies the audience of the copy, e.g. "tecnicos" or "clientes".
	Name string

	// RemotePath is the folder inside the object storage bucket.
	RemotePath string

	// FolderID is the document library folder the metadata row points at.
	FolderID string
}

// Profile describes how the reports of one cadence are found and published.
type Profile struct {
	Cadence      report.Cadence
	Patterns     []*regexp.Regexp
	Destinations []Destination

	Plant    string
	Category string
	Tags     []string

	// Label names the cadence in descriptions, e.g. "diario".
	Label string

	// Schedule is appended to multi-destination descriptions, e.g. "cada lunes".
	Schedule string

	// UploadedBy is the uploader name stored with every document.
	UploadedBy string
}

// MultiDestination reports whether the profile publishes to more than one
// destination. Ledger keys, tags and descriptions then carry the
// destination name.
func (p Profile) MultiDestination() bool {
	return len(p.Destinations) > 1
}

// Validate checks that the profile can drive a run.
func (p Profile) Validate() error {
	if !p.Cadence.Valid() {
		return fmt.Errorf("profile: invalid cadence %q", p.Cadence)
	}
	if len(p.Patterns) == 0 {
		return fmt.Errorf("profile %s: no filename patterns", p.Cadence)
	}
	if len(p.Destinations) == 0 {
		return fmt.Errorf("profile %s: no destinations", p.Cadence)
	}
	seen := make(map[string]bool, len(p.Destinations))
	for _, d := range p.Destinations {
		if p.MultiDestination() && d.Name == "" {
			return fmt.Errorf("profile %s: destinations need a name when there are several", p.Cadence)
		}
		if seen[d.Name] {
			return fmt.Errorf("profile %s: duplicate destination %q", p.Cadence, d.Name)
		}
		seen[d.Name] = true
	}
	return nil
}

// ledgerDestination is the destination part of the ledger key.
func (p Profile) ledgerDestination(d Destination) string {
	if !p.MultiDestination() {
		return ""
	}
	return d.Name
}

func (p Profile) tags(d Destination) []string {
	tags := append([]string(nil), p.Tags...)
	if p.MultiDestination() {
		tags = append(tags, d.Name)
	}
	return tags
}

func (p Profile) uploadedBy(d Destination) string {
	if !p.MultiDestination() {
		return p.UploadedBy
	}
	return p.UploadedBy + " - " + cases.Title(language.Spanish).String(d.Name)
}

func (p Profile) description(periodKey string, d Destination) string {
	desc := fmt.Sprintf("Informe %s PV del %s - Subido automáticamente", p.Label, periodKey)
	if !p.MultiDestination() {
		return desc
	}
	if p.Schedule != "" {
		desc += " " + p.Schedule
	}
	return desc + " a " + d.Name
}
