// Bibsync - Library Registry to ILS Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bibsync

package convert

import (
	"testing"

	"github.com/tomtom215/bibsync/internal/models"
	"github.com/tomtom215/bibsync/internal/registry"
)

// countPreferredEmails returns how many emails carry the preferred flag.
func countPreferredEmails(emails []models.Email) int {
	n := 0
	for _, e := range emails {
		if e.Preferred {
			n++
		}
	}
	return n
}

func TestEmailsFor(t *testing.T) {
	t.Run("best is always preferred when both present", func(t *testing.T) {
		rec := &registry.Record{EmailBest: "fjern@bib.no", EmailRegular: "post@bib.no"}
		emails := emailsFor(rec)

		if len(emails) != 2 {
			t.Fatalf("len(emails) = %d, want 2", len(emails))
		}
		if countPreferredEmails(emails) != 1 {
			t.Errorf("preferred count = %d, want exactly 1", countPreferredEmails(emails))
		}
		if !emails[0].Preferred || emails[0].Address != "fjern@bib.no" {
			t.Errorf("preferred email = %+v, want best fjern@bib.no", emails[0])
		}
	})

	t.Run("regular preferred only when best absent", func(t *testing.T) {
		rec := &registry.Record{EmailRegular: "post@bib.no"}
		emails := emailsFor(rec)

		if len(emails) != 1 {
			t.Fatalf("len(emails) = %d, want 1", len(emails))
		}
		if !emails[0].Preferred {
			t.Error("sole regular email not preferred")
		}
		if emails[0].Type != models.EmailTypeRegular {
			t.Errorf("Type = %q, want regular", emails[0].Type)
		}
	})

	t.Run("both absent yields no emails", func(t *testing.T) {
		if emails := emailsFor(&registry.Record{}); len(emails) != 0 {
			t.Errorf("len(emails) = %d, want 0", len(emails))
		}
	})

	t.Run("whitespace-only counts as absent", func(t *testing.T) {
		rec := &registry.Record{EmailBest: "  ", EmailRegular: "post@bib.no"}
		emails := emailsFor(rec)
		if len(emails) != 1 || !emails[0].Preferred {
			t.Errorf("emails = %+v, want single preferred regular entry", emails)
		}
	})
}

func TestAddressesFor(t *testing.T) {
	t.Run("postal preferred when both present", func(t *testing.T) {
		rec := &registry.Record{
			PostalAddress: "Postboks 100", PostalCode: "7004", PostalCity: "Trondheim",
			VisitingAddress: "Kongens gate 2", VisitingPostCode: "7011", VisitingCity: "Trondheim",
		}
		addresses := addressesFor(rec, "NOR")

		if len(addresses) != 2 {
			t.Fatalf("len(addresses) = %d, want 2", len(addresses))
		}
		preferred := 0
		for _, a := range addresses {
			if a.Preferred {
				preferred++
			}
		}
		if preferred != 1 {
			t.Errorf("preferred count = %d, want exactly 1", preferred)
		}
		if !addresses[0].Preferred || addresses[0].Type != models.AddressTypePostal {
			t.Errorf("preferred address = %+v, want postal", addresses[0])
		}
		if addresses[0].Country != "NOR" {
			t.Errorf("Country = %q, want NOR", addresses[0].Country)
		}
	})

	t.Run("sole visitation address is preferred", func(t *testing.T) {
		rec := &registry.Record{VisitingAddress: "Kongens gate 2"}
		addresses := addressesFor(rec, "NOR")
		if len(addresses) != 1 {
			t.Fatalf("len(addresses) = %d, want 1", len(addresses))
		}
		if !addresses[0].Preferred || addresses[0].Type != models.AddressTypeVisiting {
			t.Errorf("address = %+v, want preferred visiting", addresses[0])
		}
	})

	t.Run("sole postal address is preferred", func(t *testing.T) {
		rec := &registry.Record{PostalAddress: "Postboks 100"}
		addresses := addressesFor(rec, "NOR")
		if len(addresses) != 1 || !addresses[0].Preferred {
			t.Errorf("addresses = %+v, want single preferred postal", addresses)
		}
	})

	t.Run("both absent yields zero addresses", func(t *testing.T) {
		if addresses := addressesFor(&registry.Record{}, "NOR"); len(addresses) != 0 {
			t.Errorf("len(addresses) = %d, want 0", len(addresses))
		}
	})
}

func TestPhonesFor(t *testing.T) {
	t.Run("one preferred entry when number exists", func(t *testing.T) {
		phones := phonesFor(&registry.Record{Phone: "+47 72 54 75 00"})
		if len(phones) != 1 {
			t.Fatalf("len(phones) = %d, want 1", len(phones))
		}
		if !phones[0].Preferred {
			t.Error("phone not preferred")
		}
	})

	t.Run("no entries without a number", func(t *testing.T) {
		if phones := phonesFor(&registry.Record{}); len(phones) != 0 {
			t.Errorf("len(phones) = %d, want 0", len(phones))
		}
	})
}
