package tui

import (
	"github.com/mgomes/pfind/internal/catalog"
	"github.com/mgomes/pfind/internal/search"
)

type SetupSubmitMsg struct {
	Endpoint    string
	CatalogPath string
}

type SetupErrorMsg struct {
	Error string
}

// CatalogMsg replaces the entries offered by the picker.
type CatalogMsg struct {
	Entries []catalog.Entry
}

type CatalogErrorMsg struct {
	Err error
}

type searchDoneMsg struct {
	seq     int
	outcome search.Outcome
}

type healthMsg struct {
	err error
}
