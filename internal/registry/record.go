// Bibsync - Library Registry to ILS Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bibsync

// Package registry provides the source-registry boundary: the SourceRecord
// model mirroring the Base Bibliotek feed, an HTTP client fetching one
// record by bibnr, and the reader for the newline-delimited batch key list.
package registry

import "strings"

// Record is one library's registry entry. Field names mirror the registry
// feed (Norwegian). A Record is immutable once parsed and is owned solely
// by the converter invocation that consumes it.
type Record struct {
	// Identifiers
	Bibnr string `json:"bibnr"`
	ISIL  string `json:"isil"`

	// Country code (ISO 3166-1 alpha-2) and catalog system tag.
	Country       string `json:"land"`
	CatalogSystem string `json:"katsyst"`

	// Postal address
	PostalAddress    string `json:"padr"`
	PostalCode       string `json:"ppostnr"`
	PostalCity       string `json:"pposted"`

	// Visitation address
	VisitingAddress  string `json:"vadr"`
	VisitingPostCode string `json:"vpostnr"`
	VisitingCity     string `json:"vposted"`

	// Contact
	Phone        string `json:"tlf"`
	EmailBest    string `json:"epost_best"`
	EmailRegular string `json:"epost_adr"`

	// Closure marker and optional closure date range (YYYY-MM-DD).
	Closed     string `json:"stengt"`
	ClosedFrom string `json:"stengt_fra"`
	ClosedTo   string `json:"stengt_til"`

	// Free text
	Name         string `json:"inst"`
	CustomerType string `json:"bibltype"`

	// Optional NCIP remote-service endpoint.
	NCIPURI string `json:"nncip_uri"`
}

// HasPostalAddress reports whether the record carries a postal address line.
func (r *Record) HasPostalAddress() bool {
	return strings.TrimSpace(r.PostalAddress) != ""
}

// HasVisitingAddress reports whether the record carries a visitation address line.
func (r *Record) HasVisitingAddress() bool {
	return strings.TrimSpace(r.VisitingAddress) != ""
}

// Diagnostic renders a compact identifier-focused view of the record for
// failure messages. It deliberately omits contact details.
func (r *Record) Diagnostic() string {
	var b strings.Builder
	b.WriteString("bibnr=")
	b.WriteString(r.Bibnr)
	if r.ISIL != "" {
		b.WriteString(" isil=")
		b.WriteString(r.ISIL)
	}
	if r.Name != "" {
		b.WriteString(" inst=")
		b.WriteString(r.Name)
	}
	if r.CustomerType != "" {
		b.WriteString(" bibltype=")
		b.WriteString(r.CustomerType)
	}
	return b.String()
}
