// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package displayvideo

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/bureau-foundation/displayvideo/lib/operation"
)

// ErrInvalidRequest is wrapped by every request validation failure.
var ErrInvalidRequest = errors.New("displayvideo: invalid request")

// Parent entity filter types.
const (
	FilterTypeNone             = "FILTER_TYPE_NONE"
	FilterTypePartnerID        = "FILTER_TYPE_PARTNER_ID"
	FilterTypeAdvertiserID     = "FILTER_TYPE_ADVERTISER_ID"
	FilterTypeCampaignID       = "FILTER_TYPE_CAMPAIGN_ID"
	FilterTypeMediaProductID   = "FILTER_TYPE_MEDIA_PRODUCT_ID"
	FilterTypeInsertionOrderID = "FILTER_TYPE_INSERTION_ORDER_ID"
	FilterTypeLineItemID       = "FILTER_TYPE_LINE_ITEM_ID"
)

// FilterTypes lists the accepted ParentEntityFilter.FilterType values.
var FilterTypes = []string{
	FilterTypeNone,
	FilterTypePartnerID,
	FilterTypeAdvertiserID,
	FilterTypeCampaignID,
	FilterTypeMediaProductID,
	FilterTypeInsertionOrderID,
	FilterTypeLineItemID,
}

const (
	fileTypePrefix   = "FILE_TYPE_"
	sdfVersionPrefix = "SDF_VERSION_"
)

// CreateSdfDownloadTaskRequest asks the API to generate structured
// data files. Exactly one of PartnerID and AdvertiserID scopes the
// request, and exactly one of ParentEntityFilter and IDFilter selects
// the entities.
type CreateSdfDownloadTaskRequest struct {
	// Version is the SDF version, e.g. "SDF_VERSION_7_1".
	Version string `json:"version"`

	PartnerID    ID `json:"partnerId,omitempty"`
	AdvertiserID ID `json:"advertiserId,omitempty"`

	ParentEntityFilter *ParentEntityFilter `json:"parentEntityFilter,omitempty"`
	IDFilter           *IDFilter           `json:"idFilter,omitempty"`
}

// ParentEntityFilter selects every entity of FileType under the
// parents named by FilterType and FilterIDs.
type ParentEntityFilter struct {
	FileType   []string `json:"fileType"`
	FilterType string   `json:"filterType"`
	FilterIDs  []ID     `json:"filterIds,omitempty"`
}

// IDFilter selects entities by their own IDs.
type IDFilter struct {
	CampaignIDs       []ID `json:"campaignIds,omitempty"`
	MediaProductIDs   []ID `json:"mediaProductIds,omitempty"`
	InsertionOrderIDs []ID `json:"insertionOrderIds,omitempty"`
	LineItemIDs       []ID `json:"lineItemIds,omitempty"`
	AdGroupIDs        []ID `json:"adGroupIds,omitempty"`
	AdGroupAdIDs      []ID `json:"adGroupAdIds,omitempty"`
}

func (filter *IDFilter) empty() bool {
	return len(filter.CampaignIDs) == 0 && len(filter.MediaProductIDs) == 0 &&
		len(filter.InsertionOrderIDs) == 0 && len(filter.LineItemIDs) == 0 &&
		len(filter.AdGroupIDs) == 0 && len(filter.AdGroupAdIDs) == 0
}

// Validate checks the request locally before it is sent.
func (request *CreateSdfDownloadTaskRequest) Validate() error {
	if !strings.HasPrefix(request.Version, sdfVersionPrefix) {
		return fmt.Errorf("%w: SDF version %q must start with %s", ErrInvalidRequest, request.Version, sdfVersionPrefix)
	}

	switch {
	case request.PartnerID < 0 || request.AdvertiserID < 0:
		return fmt.Errorf("%w: partner and advertiser IDs must be positive", ErrInvalidRequest)
	case request.PartnerID > 0 && request.AdvertiserID > 0:
		return fmt.Errorf("%w: set partner ID or advertiser ID, not both", ErrInvalidRequest)
	case request.PartnerID == 0 && request.AdvertiserID == 0:
		return fmt.Errorf("%w: a partner ID or advertiser ID is required", ErrInvalidRequest)
	}

	switch {
	case request.ParentEntityFilter != nil && request.IDFilter != nil:
		return fmt.Errorf("%w: set parent entity filter or ID filter, not both", ErrInvalidRequest)
	case request.ParentEntityFilter != nil:
		return request.ParentEntityFilter.validate()
	case request.IDFilter != nil:
		if request.IDFilter.empty() {
			return fmt.Errorf("%w: ID filter names no entities", ErrInvalidRequest)
		}
		return nil
	default:
		return fmt.Errorf("%w: a parent entity filter or ID filter is required", ErrInvalidRequest)
	}
}

func (filter *ParentEntityFilter) validate() error {
	if len(filter.FileType) == 0 {
		return fmt.Errorf("%w: at least one file type is required", ErrInvalidRequest)
	}
	for _, fileType := range filter.FileType {
		if !strings.HasPrefix(fileType, fileTypePrefix) || len(fileType) == len(fileTypePrefix) {
			return fmt.Errorf("%w: file type %q must start with %s", ErrInvalidRequest, fileType, fileTypePrefix)
		}
	}
	if !slices.Contains(FilterTypes, filter.FilterType) {
		return fmt.Errorf("%w: unknown filter type %q", ErrInvalidRequest, filter.FilterType)
	}
	if filter.FilterType == FilterTypeNone && len(filter.FilterIDs) > 0 {
		return fmt.Errorf("%w: %s takes no filter IDs", ErrInvalidRequest, FilterTypeNone)
	}
	if filter.FilterType != FilterTypeNone && len(filter.FilterIDs) == 0 {
		return fmt.Errorf("%w: %s needs at least one filter ID", ErrInvalidRequest, filter.FilterType)
	}
	return nil
}

// CreateSdfDownloadTask validates and submits request. The returned
// operation is normally still pending; poll it with GetOperation.
func (client *Client) CreateSdfDownloadTask(ctx context.Context, request CreateSdfDownloadTaskRequest) (*operation.Operation, error) {
	if err := request.Validate(); err != nil {
		return nil, err
	}
	var result operation.Operation
	if err := client.post(ctx, "sdfdownloadtasks", request, &result); err != nil {
		return nil, err
	}
	if result.Name == "" {
		return nil, fmt.Errorf("displayvideo: SDF download task created without an operation name")
	}
	client.logger.Info("SDF download task created",
		"operation", result.Name,
		"sdf_version", request.Version,
	)
	return &result, nil
}
