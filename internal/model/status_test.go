package model

import "testing"

func TestDownloadState_IsActive(t *testing.T) {
	tests := []struct {
		state    DownloadState
		expected bool
	}{
		{DownloadStateStarting, true},
		{DownloadStateActive, true},
		{DownloadStateCancelling, false},
		{DownloadStateFinished, false},
		{DownloadStateFailed, false},
	}

	for _, test := range tests {
		result := test.state.IsActive()
		if result != test.expected {
			t.Errorf("DownloadState(%s).IsActive() = %v, expected %v", test.state, result, test.expected)
		}
	}
}

func TestDownloadState_IsFinished(t *testing.T) {
	tests := []struct {
		state    DownloadState
		expected bool
	}{
		{DownloadStateStarting, false},
		{DownloadStateActive, false},
		{DownloadStateCancelling, false},
		{DownloadStateFinished, true},
		{DownloadStateFailed, true},
	}

	for _, test := range tests {
		result := test.state.IsFinished()
		if result != test.expected {
			t.Errorf("DownloadState(%s).IsFinished() = %v, expected %v", test.state, result, test.expected)
		}
	}
}

func TestDownloadState_String(t *testing.T) {
	if DownloadStateCancelling.String() != "Cancelling" {
		t.Errorf("DownloadState.String() = %s, expected Cancelling", DownloadStateCancelling.String())
	}
}
