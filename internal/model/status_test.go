package model

import "testing"

func TestPlatform_IsKnown(t *testing.T) {
	tests := []struct {
		platform Platform
		expected bool
	}{
		{PlatformYouTube, true},
		{PlatformYouTubeShorts, true},
		{PlatformFacebook, true},
		{PlatformInstagram, true},
		{PlatformTikTok, true},
		{PlatformUnknown, false},
		{Platform(""), false},
	}

	for _, test := range tests {
		result := test.platform.IsKnown()
		if result != test.expected {
			t.Errorf("Platform(%s).IsKnown() = %v, expected %v", test.platform, result, test.expected)
		}
	}
}

func TestPlatform_HasQualityMap(t *testing.T) {
	if !PlatformYouTube.HasQualityMap() {
		t.Error("Expected youtube to have a quality map")
	}
	if PlatformYouTubeShorts.HasQualityMap() {
		t.Error("Expected shorts to have no quality map")
	}
	if PlatformTikTok.HasQualityMap() {
		t.Error("Expected tiktok to have no quality map")
	}
}

func TestFormatKind_String(t *testing.T) {
	tests := []struct {
		kind     FormatKind
		expected string
	}{
		{FormatProgressive, "progressive"},
		{FormatVideoOnly, "video_only"},
		{FormatKind(0), "invalid"},
	}

	for _, test := range tests {
		if result := test.kind.String(); result != test.expected {
			t.Errorf("FormatKind(%d).String() = %s, expected %s", test.kind, result, test.expected)
		}
	}
}

func TestFormatKind_NeedsMerge(t *testing.T) {
	if FormatProgressive.NeedsMerge() {
		t.Error("Progressive formats should not need a merge")
	}
	if !FormatVideoOnly.NeedsMerge() {
		t.Error("Video-only formats should need a merge")
	}
}

func TestFailureKind_IsClientError(t *testing.T) {
	tests := []struct {
		kind     FailureKind
		expected bool
	}{
		{FailureInvalidInput, true},
		{FailureUnsupportedPlatform, true},
		{FailureMetadata, true},
		{FailureNoFormats, true},
		{FailureQualityNotFound, true},
		{FailureAudioTrackMissing, true},
		{FailureFetch, false},
		{FailureMerge, false},
		{FailureIO, false},
	}

	for _, test := range tests {
		if result := test.kind.IsClientError(); result != test.expected {
			t.Errorf("FailureKind(%s).IsClientError() = %v, expected %v", test.kind, result, test.expected)
		}
	}
}
