// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package displayvideo

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

// DefaultAssignedTargetingFilter restricts assigned targeting listings
// to options set directly on the line item.
const DefaultAssignedTargetingFilter = `inheritance="NOT_INHERITED"`

// TargetingTypeBrowser is the targeting type of browser options.
const TargetingTypeBrowser = "TARGETING_TYPE_BROWSER"

const targetingTypePrefix = "TARGETING_TYPE_"

// AssignedTargetingOption is a targeting option assigned to a line
// item. Type-specific details stay as raw JSON keyed by field name
// (e.g. "browserDetails").
type AssignedTargetingOption struct {
	Name                      string `json:"name"`
	AssignedTargetingOptionID string `json:"assignedTargetingOptionId"`
	TargetingType             string `json:"targetingType"`
	Inheritance               string `json:"inheritance,omitempty"`

	Details map[string]json.RawMessage `json:"details,omitempty"`
}

func (option *AssignedTargetingOption) UnmarshalJSON(data []byte) error {
	type plain AssignedTargetingOption
	if err := json.Unmarshal(data, (*plain)(option)); err != nil {
		return err
	}
	details, err := detailFields(data)
	if err != nil {
		return err
	}
	option.Details = details
	return nil
}

// TargetingOption is one selectable value of a targeting type.
type TargetingOption struct {
	Name              string `json:"name"`
	TargetingOptionID string `json:"targetingOptionId"`
	TargetingType     string `json:"targetingType"`

	Details map[string]json.RawMessage `json:"details,omitempty"`
}

func (option *TargetingOption) UnmarshalJSON(data []byte) error {
	type plain TargetingOption
	if err := json.Unmarshal(data, (*plain)(option)); err != nil {
		return err
	}
	details, err := detailFields(data)
	if err != nil {
		return err
	}
	option.Details = details
	return nil
}

// DisplayName returns the displayName from the first details object
// carrying one, or "" when none does.
func (option TargetingOption) DisplayName() string {
	return detailsDisplayName(option.Details)
}

// DisplayName returns the displayName from the first details object
// carrying one, or "" when none does.
func (option AssignedTargetingOption) DisplayName() string {
	return detailsDisplayName(option.Details)
}

// detailFields extracts the type-specific "...Details" objects.
func detailFields(data []byte) (map[string]json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	details := make(map[string]json.RawMessage)
	for key, value := range fields {
		if strings.HasSuffix(key, "Details") {
			details[key] = value
		}
	}
	return details, nil
}

func detailsDisplayName(details map[string]json.RawMessage) string {
	for _, raw := range details {
		var named struct {
			DisplayName string `json:"displayName"`
		}
		if json.Unmarshal(raw, &named) == nil && named.DisplayName != "" {
			return named.DisplayName
		}
	}
	return ""
}

// ListLineItemAssignedTargetingOptions lists the targeting options
// assigned to a line item across all targeting types. An empty filter
// sends no filter; callers wanting only directly assigned options pass
// DefaultAssignedTargetingFilter.
func (client *Client) ListLineItemAssignedTargetingOptions(advertiserID, lineItemID ID, filter string, pageSize int) (*PageIterator[AssignedTargetingOption], error) {
	if advertiserID <= 0 || lineItemID <= 0 {
		return nil, fmt.Errorf("%w: advertiser and line item IDs must be positive", ErrInvalidRequest)
	}
	query := url.Values{}
	if filter != "" {
		query.Set("filter", filter)
	}
	path := fmt.Sprintf("advertisers/%s/lineItems/%s:bulkListAssignedTargetingOptions", advertiserID, lineItemID)
	return listPages[AssignedTargetingOption](client, path, query, "assignedTargetingOptions", pageSize), nil
}

// ListTargetingOptions lists the options of targetingType available to
// an advertiser.
func (client *Client) ListTargetingOptions(advertiserID ID, targetingType string, pageSize int) (*PageIterator[TargetingOption], error) {
	if advertiserID <= 0 {
		return nil, fmt.Errorf("%w: advertiser ID must be positive", ErrInvalidRequest)
	}
	if !strings.HasPrefix(targetingType, targetingTypePrefix) || strings.ContainsAny(targetingType, "/?#") {
		return nil, fmt.Errorf("%w: targeting type %q must start with %s", ErrInvalidRequest, targetingType, targetingTypePrefix)
	}
	query := url.Values{"advertiserId": {advertiserID.String()}}
	path := "targetingTypes/" + targetingType + "/targetingOptions"
	return listPages[TargetingOption](client, path, query, "targetingOptions", pageSize), nil
}
