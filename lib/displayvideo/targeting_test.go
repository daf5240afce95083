// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package displayvideo

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestListLineItemAssignedTargetingOptions(t *testing.T) {
	var path, filter string
	server := httptest.NewTLSServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		path = request.URL.EscapedPath()
		filter = request.URL.Query().Get("filter")
		writeJSON(writer, http.StatusOK, `{"assignedTargetingOptions":[
			{"name":"advertisers/1/lineItems/2/targetingTypes/TARGETING_TYPE_BROWSER/assignedTargetingOptions/3",
			 "assignedTargetingOptionId":"3","targetingType":"TARGETING_TYPE_BROWSER","inheritance":"NOT_INHERITED",
			 "browserDetails":{"displayName":"Firefox","targetingOptionId":"500"}}]}`)
	}))
	defer server.Close()
	client := newTestClient(t, server, nil)

	iterator, err := client.ListLineItemAssignedTargetingOptions(1, 2, DefaultAssignedTargetingFilter, 0)
	if err != nil {
		t.Fatalf("ListLineItemAssignedTargetingOptions: %v", err)
	}
	options, err := iterator.Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if path != "/v4/advertisers/1/lineItems/2:bulkListAssignedTargetingOptions" {
		t.Errorf("path = %s", path)
	}
	if filter != DefaultAssignedTargetingFilter {
		t.Errorf("filter = %s", filter)
	}
	if len(options) != 1 {
		t.Fatalf("options = %+v", options)
	}
	option := options[0]
	if option.TargetingType != TargetingTypeBrowser || option.Inheritance != "NOT_INHERITED" {
		t.Errorf("option = %+v", option)
	}
	if _, ok := option.Details["browserDetails"]; !ok {
		t.Errorf("details = %v", option.Details)
	}
	if option.DisplayName() != "Firefox" {
		t.Errorf("DisplayName() = %q", option.DisplayName())
	}
}

func TestListTargetingOptions(t *testing.T) {
	var path, advertiser string
	server := httptest.NewTLSServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		path = request.URL.Path
		advertiser = request.URL.Query().Get("advertiserId")
		writeJSON(writer, http.StatusOK, `{"targetingOptions":[
			{"name":"targetingTypes/TARGETING_TYPE_BROWSER/targetingOptions/500","targetingOptionId":"500",
			 "targetingType":"TARGETING_TYPE_BROWSER","browserDetails":{"displayName":"Chrome"}}]}`)
	}))
	defer server.Close()
	client := newTestClient(t, server, nil)

	iterator, err := client.ListTargetingOptions(77, TargetingTypeBrowser, 100)
	if err != nil {
		t.Fatalf("ListTargetingOptions: %v", err)
	}
	options, err := iterator.Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if path != "/v4/targetingTypes/TARGETING_TYPE_BROWSER/targetingOptions" || advertiser != "77" {
		t.Errorf("request path=%s advertiserId=%s", path, advertiser)
	}
	if len(options) != 1 || options[0].DisplayName() != "Chrome" || options[0].TargetingOptionID != "500" {
		t.Errorf("options = %+v", options)
	}
}

func TestListTargetingValidation(t *testing.T) {
	client, err := NewClient(Config{Token: "t"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := client.ListTargetingOptions(0, TargetingTypeBrowser, 0); !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("zero advertiser: %v", err)
	}
	if _, err := client.ListTargetingOptions(1, "BROWSER", 0); !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("bad targeting type: %v", err)
	}
	if _, err := client.ListTargetingOptions(1, "TARGETING_TYPE_X/../y", 0); !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("path injection: %v", err)
	}
	if _, err := client.ListLineItemAssignedTargetingOptions(1, 0, "", 0); !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("zero line item: %v", err)
	}
}
