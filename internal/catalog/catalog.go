// Package catalog holds the example company/designation pairs offered by the
// picker, either the built-in list or one loaded from a YAML file.
package catalog

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type Entry struct {
	Company     string `yaml:"company" json:"company"`
	Designation string `yaml:"designation" json:"designation"`
}

func (e Entry) Label() string {
	return e.Company + " - " + e.Designation
}

var defaultEntries = []Entry{
	{"SBC International Services", "Founder & CMO"},
	{"Bici e Vacanze", "Founder"},
	{"Exped Tribe GmbH", "Founder, Director"},
	{"Lions Sports Travel", "CEO"},
	{"Reviva", "Ceo"},
	{"Lobagola MotoTours", "Founder"},
	{"SixEmotions - Travel Lifestyle", "Co-Founder"},
	{"A2A YACHTING", "YACHT CHARTER & SALES DIRECTOR"},
	{"Essence of Italy", "Co-Owner & Sales Director"},
	{"#ViajaAgora", "CEO | Sales Manager"},
	{"Béchamels", "Founder & CEO"},
	{"Grand Hotel Bohemia", "Director of Sales"},
	{"Ionian Estates and Villas Limited", "Operations Director"},
	{"EscapeTours", "Founder EscapeTours"},
	{"PlanUGo", "CEO & Founder"},
	{"Extol Inn", "Sales Manager"},
	{"Sentima", "Founder"},
	{"Grecia365 di Karlitalia Tour Operator Srl", "CEO & CO-FOUNDER"},
	{"Catalonia Hotels & Resorts", "International Sales Director"},
	{"MEININGER Hotels", "Head of Financial Reporting"},
	{"FareHarbor", "Senior Strategic Partnerships Manager"},
	{"Holiday Extras", "Commercial Partnerships Lead"},
	{"SkiStar AB", "Production Manager"},
	{"PONANT", "Chief Executive Officer, Americas"},
	{"Thorpe Park", "Head of Partnerships, Events and VIP"},
	{"Lighthouse", "Senior Business Development Manager"},
	{"FareHarbor", "Senior Account Executive, Mid Market"},
	{"Relais & Châteaux", "Delegation Manager & Sales Greater China"},
	{"Quintessentially Belux", "Partnerships Manager"},
	{"Kuoni Group", "Senior Group Sales Manager for Israel, Sweden, Switzeralnd and Iceland"},
}

// Default returns a copy of the built-in catalog.
func Default() []Entry {
	entries := make([]Entry, len(defaultEntries))
	copy(entries, defaultEntries)
	return entries
}

// Load reads a catalog file: a YAML sequence of company/designation mappings.
func Load(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "could not read catalog %s", path)
	}

	entries, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid catalog %s", path)
	}

	return entries, nil
}

func Parse(data []byte) ([]Entry, error) {
	var entries []Entry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, errors.WithStack(err)
	}

	for i := range entries {
		entries[i].Company = strings.TrimSpace(entries[i].Company)
		entries[i].Designation = strings.TrimSpace(entries[i].Designation)

		if entries[i].Company == "" || entries[i].Designation == "" {
			return nil, errors.Errorf("entry %d: company and designation are required", i)
		}
	}

	return entries, nil
}

// LoadOrDefault loads path, or returns the built-in catalog when path is empty.
func LoadOrDefault(path string) ([]Entry, error) {
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}
