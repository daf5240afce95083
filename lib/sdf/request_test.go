// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package sdf

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/bureau-foundation/displayvideo/lib/displayvideo"
	"github.com/bureau-foundation/displayvideo/lib/testutil"
)

func TestParseRequest(t *testing.T) {
	request, err := ParseRequest([]byte(`{
		// Every campaign and line item under one advertiser.
		"version": "SDF_VERSION_7_1",
		"advertiserId": "4309",
		"parentEntityFilter": {
			"fileType": ["FILE_TYPE_CAMPAIGN", "FILE_TYPE_LINE_ITEM",],
			/* scoped to the advertiser itself */
			"filterType": "FILTER_TYPE_ADVERTISER_ID",
			"filterIds": [4309],
		},
	}`))
	if err != nil {
		t.Fatalf("ParseRequest: %v", err)
	}
	if request.AdvertiserID != 4309 {
		t.Errorf("AdvertiserID = %d, want 4309", request.AdvertiserID)
	}
	if request.PartnerID != 0 {
		t.Errorf("PartnerID = %d, want 0", request.PartnerID)
	}
	filter := request.ParentEntityFilter
	if filter == nil || len(filter.FileType) != 2 || filter.FilterIDs[0] != 4309 {
		t.Errorf("unexpected parent entity filter: %+v", filter)
	}
}

func TestParseRequestRejectsUnknownField(t *testing.T) {
	_, err := ParseRequest([]byte(`{
		"version": "SDF_VERSION_7_1",
		"partnerId": "1",
		"parentEntityFiltre": {"fileType": ["FILE_TYPE_CAMPAIGN"], "filterType": "FILTER_TYPE_NONE"},
	}`))
	if err == nil {
		t.Fatal("expected error for misspelled field")
	}
}

func TestParseRequestValidates(t *testing.T) {
	_, err := ParseRequest([]byte(`{
		"version": "SDF_VERSION_7_1",
		"partnerId": "1",
		"advertiserId": "2",
		"idFilter": {"lineItemIds": ["3"]},
	}`))
	if !errors.Is(err, displayvideo.ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
}

func TestReadRequest(t *testing.T) {
	path := testutil.WriteFixture(t, "task.jsonc", []byte(`{
		"version": "SDF_VERSION_8",
		"partnerId": "77",
		"idFilter": {"campaignIds": ["5"]}, // trailing comma
	}`))

	request, err := ReadRequest(path)
	if err != nil {
		t.Fatalf("ReadRequest: %v", err)
	}
	if request.PartnerID != 77 || request.IDFilter == nil || request.IDFilter.CampaignIDs[0] != 5 {
		t.Errorf("unexpected request: %+v", request)
	}

	if _, err := ReadRequest(filepath.Join(t.TempDir(), "absent.jsonc")); err == nil {
		t.Error("expected error for missing file")
	}
}
