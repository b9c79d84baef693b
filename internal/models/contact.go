// Bibsync - Library Registry to ILS Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bibsync

// Package models defines the wire entities sent to the ILS REST API.
//
// Partner and User are the two target entity shapes; both embed a shared
// ContactInfo substructure. Entities are marshaled to XML, the payload
// format the ILS expects on create and update.
//
// Invariants enforced by the converter, relied upon here:
//   - at most one address is preferred; if any address exists exactly one is
//   - at most one email is preferred, same rule
//   - a phone entry, when present, is always preferred
package models

// Address types as they appear in the wire payload.
const (
	AddressTypePostal   = "postal"
	AddressTypeVisiting = "visiting"
)

// Email types as they appear in the wire payload.
const (
	EmailTypeBest    = "best"
	EmailTypeRegular = "regular"
)

// ContactInfo is the contact substructure shared by Partner and User.
type ContactInfo struct {
	Addresses []Address `xml:"addresses>address"`
	Emails    []Email   `xml:"emails>email"`
	Phones    []Phone   `xml:"phones>phone"`
}

// Address is one postal or visitation address.
type Address struct {
	Preferred  bool   `xml:"preferred,attr"`
	Type       string `xml:"address_type"`
	Line1      string `xml:"line1"`
	City       string `xml:"city,omitempty"`
	PostalCode string `xml:"postal_code,omitempty"`
	Country    string `xml:"country,omitempty"`
}

// Email is one email contact entry.
type Email struct {
	Preferred bool   `xml:"preferred,attr"`
	Type      string `xml:"email_type"`
	Address   string `xml:"email_address"`
}

// Phone is one phone contact entry.
type Phone struct {
	Preferred bool   `xml:"preferred,attr"`
	Number    string `xml:"phone_number"`
}

// NewAddress builds an address value.
func NewAddress(addrType, line1, city, postalCode, country string, preferred bool) Address {
	return Address{
		Preferred:  preferred,
		Type:       addrType,
		Line1:      line1,
		City:       city,
		PostalCode: postalCode,
		Country:    country,
	}
}

// NewEmail builds an email value.
func NewEmail(emailType, address string, preferred bool) Email {
	return Email{Preferred: preferred, Type: emailType, Address: address}
}

// NewPhone builds a phone value. Phones are always preferred because at
// most one is ever emitted.
func NewPhone(number string) Phone {
	return Phone{Preferred: true, Number: number}
}

// NewContactInfo composes a contact substructure from its parts.
func NewContactInfo(addresses []Address, emails []Email, phones []Phone) ContactInfo {
	return ContactInfo{Addresses: addresses, Emails: emails, Phones: phones}
}

// PreferredEmail returns the address of the preferred email, or the empty
// string when no email exists. Profile detail blocks use this fallback.
func (c ContactInfo) PreferredEmail() string {
	for _, e := range c.Emails {
		if e.Preferred {
			return e.Address
		}
	}
	return ""
}
