// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package displayvideo

import (
	"net/url"
	"strings"
)

// User is a Display & Video 360 user and its role assignments.
type User struct {
	Name              string             `json:"name"`
	UserID            ID                 `json:"userId"`
	Email             string             `json:"email"`
	DisplayName       string             `json:"displayName"`
	AssignedUserRoles []AssignedUserRole `json:"assignedUserRoles"`
}

// AssignedUserRole grants a role on exactly one partner or advertiser.
type AssignedUserRole struct {
	AssignedUserRoleID string `json:"assignedUserRoleId,omitempty"`
	PartnerID          ID     `json:"partnerId,omitempty"`
	AdvertiserID       ID     `json:"advertiserId,omitempty"`
	UserRole           string `json:"userRole"`
}

// Entity describes what the role is assigned on, e.g. "Partner 12".
func (role AssignedUserRole) Entity() string {
	switch {
	case role.PartnerID != 0:
		return "Partner " + role.PartnerID.String()
	case role.AdvertiserID != 0:
		return "Advertiser " + role.AdvertiserID.String()
	}
	return "unknown entity"
}

// UserFilter restricts ListUsers. Zero-valued fields add no
// restriction; set fields are AND-ed together.
type UserFilter struct {
	// EmailContains matches users whose email contains the value.
	EmailContains string

	// DisplayNameContains matches users whose display name contains
	// the value.
	DisplayNameContains string

	// UserRole matches users holding the role, e.g. "STANDARD".
	UserRole string

	HasPartnerRole    bool
	HasAdvertiserRole bool

	PartnerID       ID
	AdvertiserID    ID
	ParentPartnerID ID
}

// String renders the filter expression sent as the filter query
// parameter. An empty filter renders as "".
func (filter UserFilter) String() string {
	var terms []string
	if filter.EmailContains != "" {
		terms = append(terms, "email:"+quoteFilterValue(filter.EmailContains))
	}
	if filter.DisplayNameContains != "" {
		terms = append(terms, "displayName:"+quoteFilterValue(filter.DisplayNameContains))
	}
	if filter.UserRole != "" {
		terms = append(terms, "assignedUserRole.userRole="+quoteFilterValue(filter.UserRole))
	}
	if filter.HasPartnerRole {
		terms = append(terms, `assignedUserRole.entityType="PARTNER"`)
	}
	if filter.HasAdvertiserRole {
		terms = append(terms, `assignedUserRole.entityType="ADVERTISER"`)
	}
	if filter.PartnerID != 0 {
		terms = append(terms, "assignedUserRole.partnerId="+quoteFilterValue(filter.PartnerID.String()))
	}
	if filter.AdvertiserID != 0 {
		terms = append(terms, "assignedUserRole.advertiserId="+quoteFilterValue(filter.AdvertiserID.String()))
	}
	if filter.ParentPartnerID != 0 {
		terms = append(terms, "assignedUserRole.parentPartnerId="+quoteFilterValue(filter.ParentPartnerID.String()))
	}
	return strings.Join(terms, " AND ")
}

var filterValueEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func quoteFilterValue(value string) string {
	return `"` + filterValueEscaper.Replace(value) + `"`
}

// ListUsers lists the users visible to the caller that match filter.
// pageSize of zero leaves the page size to the server.
func (client *Client) ListUsers(filter UserFilter, pageSize int) *PageIterator[User] {
	query := url.Values{}
	if expression := filter.String(); expression != "" {
		query.Set("filter", expression)
	}
	return listPages[User](client, "users", query, "users", pageSize)
}
