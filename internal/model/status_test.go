package model

import "testing"

func TestWorkflowState_IsActive(t *testing.T) {
	tests := []struct {
		state    WorkflowState
		expected bool
	}{
		{StateIdle, false},
		{StateAnalyzing, true},
		{StateReady, false},
		{StateDownloading, true},
		{StateCompleted, false},
		{StateError, false},
		{StateCancelled, false},
	}

	for _, test := range tests {
		result := test.state.IsActive()
		if result != test.expected {
			t.Errorf("WorkflowState(%s).IsActive() = %v, expected %v", test.state, result, test.expected)
		}
	}
}

func TestWorkflowState_IsFinished(t *testing.T) {
	tests := []struct {
		state    WorkflowState
		expected bool
	}{
		{StateIdle, false},
		{StateAnalyzing, false},
		{StateReady, false},
		{StateDownloading, false},
		{StateCompleted, true},
		{StateError, true},
		{StateCancelled, true},
	}

	for _, test := range tests {
		result := test.state.IsFinished()
		if result != test.expected {
			t.Errorf("WorkflowState(%s).IsFinished() = %v, expected %v", test.state, result, test.expected)
		}
	}
}

func TestTaskStatus_IsActive(t *testing.T) {
	tests := []struct {
		status   TaskStatus
		expected bool
	}{
		{TaskStatusPending, false},
		{TaskStatusSaving, true},
		{TaskStatusStopped, false},
		{TaskStatusCompleted, false},
		{TaskStatusError, false},
	}

	for _, test := range tests {
		result := test.status.IsActive()
		if result != test.expected {
			t.Errorf("TaskStatus(%s).IsActive() = %v, expected %v", test.status, result, test.expected)
		}
	}
}

func TestTaskStatus_IsFinished(t *testing.T) {
	tests := []struct {
		status   TaskStatus
		expected bool
	}{
		{TaskStatusPending, false},
		{TaskStatusSaving, false},
		{TaskStatusStopped, true},
		{TaskStatusCompleted, true},
		{TaskStatusError, true},
	}

	for _, test := range tests {
		result := test.status.IsFinished()
		if result != test.expected {
			t.Errorf("TaskStatus(%s).IsFinished() = %v, expected %v", test.status, result, test.expected)
		}
	}
}

func TestTaskStatus_String(t *testing.T) {
	status := TaskStatusSaving
	expected := "Saving"
	result := status.String()

	if result != expected {
		t.Errorf("TaskStatus.String() = %s, expected %s", result, expected)
	}
}
