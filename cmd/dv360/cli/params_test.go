// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"strconv"
	"strings"
	"testing"
	"time"
)

// csvInts is a pflag.Value accumulating comma-separated integers.
type csvInts []int

func (v *csvInts) String() string {
	parts := make([]string, len(*v))
	for i, n := range *v {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ",")
}

func (v *csvInts) Set(value string) error {
	for _, part := range strings.Split(value, ",") {
		n, err := strconv.Atoi(part)
		if err != nil {
			return err
		}
		*v = append(*v, n)
	}
	return nil
}

func (v *csvInts) Type() string { return "ints" }

type sampleParams struct {
	JSONOutput
	Globals
	Name     string        `flag:"name,n" desc:"a name" default:"anon"`
	Pending  bool          `flag:"pending" desc:"only pending"`
	Limit    int           `flag:"limit" desc:"limit" default:"50"`
	Partner  int64         `flag:"partner-id" desc:"partner"`
	Ratio    float64       `flag:"ratio" desc:"ratio" default:"0.5"`
	Wait     time.Duration `flag:"wait" desc:"wait" default:"5s"`
	Types    []string      `flag:"file-types" desc:"file types" default:"A,B"`
	IDs      csvInts       `flag:"ids" desc:"ids"`
	Untagged string
}

func TestBindFlagsDefaults(t *testing.T) {
	var params sampleParams
	flagSet := FlagsFromParams("sample", &params)
	if err := flagSet.Parse(nil); err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if params.Name != "anon" || params.Limit != 50 || params.Ratio != 0.5 || params.Wait != 5*time.Second {
		t.Errorf("defaults not applied: %+v", params)
	}
	if len(params.Types) != 2 || params.Types[0] != "A" {
		t.Errorf("slice default = %v", params.Types)
	}
	if flagSet.Lookup("json") == nil || flagSet.Lookup("config") == nil || flagSet.Lookup("verbose") == nil {
		t.Error("embedded JSONOutput and Globals flags should be registered")
	}
	if flagSet.Lookup("Untagged") != nil {
		t.Error("untagged field should not become a flag")
	}
}

func TestBindFlagsParse(t *testing.T) {
	var params sampleParams
	flagSet := FlagsFromParams("sample", &params)
	err := flagSet.Parse([]string{
		"-n", "bob", "--pending", "--limit=3", "--partner-id", "123",
		"--wait", "1m", "--file-types", "FILE_TYPE_CAMPAIGN,FILE_TYPE_AD_GROUP",
		"--ids", "1,2", "--ids", "3", "--json", "--config", "/etc/dv360.yaml", "-v",
		"positional",
	})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if params.Name != "bob" || !params.Pending || params.Limit != 3 || params.Partner != 123 {
		t.Errorf("scalar flags not parsed: %+v", params)
	}
	if params.Wait != time.Minute {
		t.Errorf("Wait = %v", params.Wait)
	}
	if len(params.Types) != 2 || params.Types[1] != "FILE_TYPE_AD_GROUP" {
		t.Errorf("Types = %v", params.Types)
	}
	if len(params.IDs) != 3 || params.IDs[2] != 3 {
		t.Errorf("IDs = %v", params.IDs)
	}
	if !params.OutputJSON || params.ConfigPath != "/etc/dv360.yaml" || !params.Verbose {
		t.Errorf("embedded flags not parsed: %+v", params)
	}
	if args := flagSet.Args(); len(args) != 1 || args[0] != "positional" {
		t.Errorf("Args = %v", args)
	}
}

func TestBindFlagsRejectsBadInput(t *testing.T) {
	var notPointer sampleParams
	if err := BindFlags(notPointer, nil); err == nil {
		t.Error("expected error for non-pointer params")
	}

	var badDefault struct {
		Limit int `flag:"limit" default:"many"`
	}
	if err := BindFlags(&badDefault, FlagsFromParams("x", &struct{}{})); err == nil {
		t.Error("expected error for unparseable default")
	}

	var unsupported struct {
		Table map[string]string `flag:"table"`
	}
	if err := BindFlags(&unsupported, FlagsFromParams("y", &struct{}{})); err == nil {
		t.Error("expected error for unsupported field type")
	}
}
