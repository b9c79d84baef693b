// Bibsync - Library Registry to ILS Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bibsync

package models

import (
	"encoding/xml"
	"fmt"
)

// User statuses.
const (
	UserStatusActive   = "ACTIVE"
	UserStatusInactive = "INACTIVE"
)

// UserGroupNotFound is the sentinel user group emitted when the derived
// library category maps outside the configured whitelist. An out-of-range
// category is not an error; the record still syncs.
const UserGroupNotFound = "NOTFOUND"

// User is the institutional user entity sent to the ILS.
type User struct {
	XMLName     xml.Name     `xml:"user"`
	PrimaryID   string       `xml:"primary_id"`
	Name        string       `xml:"full_name"`
	Status      string       `xml:"status"`
	UserGroup   string       `xml:"user_group"`
	ExternalIDs []ExternalID `xml:"user_identifiers>user_identifier"`
	ContactInfo ContactInfo  `xml:"contact_info"`
}

// ExternalID is an additional identifier carried by a user (e.g. ISIL code).
type ExternalID struct {
	Type  string `xml:"id_type"`
	Value string `xml:"value"`
}

// EntityCode returns the code used in upsert URLs. Implements upsert.Entity.
func (u *User) EntityCode() string {
	return u.PrimaryID
}

// Payload marshals the user to its XML wire representation.
func (u *User) Payload() ([]byte, error) {
	body, err := xml.Marshal(u)
	if err != nil {
		return nil, fmt.Errorf("marshal user %s: %w", u.PrimaryID, err)
	}
	return append([]byte(xml.Header), body...), nil
}
