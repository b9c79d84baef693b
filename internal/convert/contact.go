// Bibsync - Library Registry to ILS Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bibsync

package convert

import (
	"strings"

	"github.com/tomtom215/bibsync/internal/models"
	"github.com/tomtom215/bibsync/internal/registry"
)

// emailsFor selects the record's emails with preference resolution:
// the "best" email, when present, is always preferred; the regular email
// is preferred only when best is absent. Both absent yields no entries.
func emailsFor(rec *registry.Record) []models.Email {
	best := strings.TrimSpace(rec.EmailBest)
	regular := strings.TrimSpace(rec.EmailRegular)

	var emails []models.Email
	if best != "" {
		emails = append(emails, models.NewEmail(models.EmailTypeBest, best, true))
	}
	if regular != "" {
		emails = append(emails, models.NewEmail(models.EmailTypeRegular, regular, best == ""))
	}
	return emails
}

// addressesFor selects the record's addresses with preference resolution:
// the postal address, when present, is always preferred; the visitation
// address is preferred only when postal is absent. Both absent yields zero
// addresses. Country carries the normalized alpha-3 code.
func addressesFor(rec *registry.Record, country string) []models.Address {
	var addresses []models.Address
	if rec.HasPostalAddress() {
		addresses = append(addresses, models.NewAddress(
			models.AddressTypePostal,
			strings.TrimSpace(rec.PostalAddress),
			strings.TrimSpace(rec.PostalCity),
			strings.TrimSpace(rec.PostalCode),
			country,
			true,
		))
	}
	if rec.HasVisitingAddress() {
		addresses = append(addresses, models.NewAddress(
			models.AddressTypeVisiting,
			strings.TrimSpace(rec.VisitingAddress),
			strings.TrimSpace(rec.VisitingCity),
			strings.TrimSpace(rec.VisitingPostCode),
			country,
			!rec.HasPostalAddress(),
		))
	}
	return addresses
}

// phonesFor emits exactly one preferred phone entry when a number exists.
func phonesFor(rec *registry.Record) []models.Phone {
	number := strings.TrimSpace(rec.Phone)
	if number == "" {
		return nil
	}
	return []models.Phone{models.NewPhone(number)}
}

// contactInfoFor composes the full contact substructure for a record.
func contactInfoFor(rec *registry.Record, country string) models.ContactInfo {
	return models.NewContactInfo(
		addressesFor(rec, country),
		emailsFor(rec),
		phonesFor(rec),
	)
}
