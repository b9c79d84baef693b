// Bibsync - Library Registry to ILS Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bibsync

package models

import (
	"encoding/xml"
	"fmt"
)

// ProfileType classifies the resource-sharing contact mechanism of a partner.
type ProfileType string

// Profile types, first match wins during classification (see convert).
const (
	ProfileTypeNCIP  ProfileType = "NCIP_P_2_P"
	ProfileTypeISO   ProfileType = "ISO"
	ProfileTypeEmail ProfileType = "EMAIL"
)

// Partner statuses.
const (
	PartnerStatusActive   = "ACTIVE"
	PartnerStatusInactive = "INACTIVE"
)

// Partner is the resource-sharing partner entity sent to the ILS.
type Partner struct {
	XMLName     xml.Name       `xml:"partner"`
	Details     PartnerDetails `xml:"partner_details"`
	ContactInfo ContactInfo    `xml:"contact_info"`
}

// PartnerDetails carries the identifying and profile fields of a partner.
type PartnerDetails struct {
	Code            string  `xml:"code"`
	Name            string  `xml:"name"`
	Status          string  `xml:"status"`
	InstitutionCode string  `xml:"institution_code"`
	LocationCode    string  `xml:"location_code,omitempty"`
	HoldingCode     string  `xml:"holding_code,omitempty"`
	Profile         Profile `xml:"profile_details"`
}

// Profile holds the profile classification and the detail block matching it.
// Exactly one detail block is set, matching Type.
type Profile struct {
	Type  ProfileType   `xml:"profile_type"`
	ISO   *ISODetails   `xml:"iso_details,omitempty"`
	NCIP  *NCIPDetails  `xml:"ncip_p2p_details,omitempty"`
	Email *EmailDetails `xml:"email_details,omitempty"`
}

// ISODetails is the detail block for partners whose catalog system
// integrates with the ILS over the structured ISO protocol.
type ISODetails struct {
	Symbol            string `xml:"symbol"`
	Server            string `xml:"server"`
	Port              string `xml:"port"`
	AutoClaim         bool   `xml:"auto_claim"`
	ClaimIntervalDays int    `xml:"claim_interval_days"`
	SharedBarcodes    bool   `xml:"shared_barcodes"`
}

// NCIPDetails is the detail block for peer-to-peer NCIP partners.
// Auto-claim fields are intentionally absent for this profile.
type NCIPDetails struct {
	Symbol             string `xml:"symbol"`
	EmailAddress       string `xml:"email_address"`
	ResendIntervalDays int    `xml:"resend_interval_days"`
}

// EmailDetails is the detail block for plain email partners.
type EmailDetails struct {
	EmailAddress string `xml:"email_address"`
}

// NewISOProfile builds an ISO profile detail block.
func NewISOProfile(symbol, server, port string, claimIntervalDays int) Profile {
	return Profile{
		Type: ProfileTypeISO,
		ISO: &ISODetails{
			Symbol:            symbol,
			Server:            server,
			Port:              port,
			AutoClaim:         true,
			ClaimIntervalDays: claimIntervalDays,
			SharedBarcodes:    true,
		},
	}
}

// NewNCIPProfile builds a peer-to-peer NCIP profile detail block.
func NewNCIPProfile(symbol, email string, resendIntervalDays int) Profile {
	return Profile{
		Type: ProfileTypeNCIP,
		NCIP: &NCIPDetails{
			Symbol:             symbol,
			EmailAddress:       email,
			ResendIntervalDays: resendIntervalDays,
		},
	}
}

// NewEmailProfile builds a plain email profile detail block.
func NewEmailProfile(email string) Profile {
	return Profile{
		Type:  ProfileTypeEmail,
		Email: &EmailDetails{EmailAddress: email},
	}
}

// EntityCode returns the code used in upsert URLs. Implements upsert.Entity.
func (p *Partner) EntityCode() string {
	return p.Details.Code
}

// Payload marshals the partner to its XML wire representation.
func (p *Partner) Payload() ([]byte, error) {
	body, err := xml.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshal partner %s: %w", p.Details.Code, err)
	}
	return append([]byte(xml.Header), body...), nil
}
