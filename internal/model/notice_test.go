package model

import (
	"testing"
	"time"
)

func TestNotice_Lifetime(t *testing.T) {
	tests := []struct {
		name   string
		notice Notice
		want   time.Duration
	}{
		{"error default", ErrorNotice("x"), ErrorNoticeTTL},
		{"success default", SuccessNotice("x"), SuccessNoticeTTL},
		{"explicit", Notice{Level: NoticeSuccess, TTL: 12 * time.Second}, 12 * time.Second},
		{"unset error", Notice{Level: NoticeError}, ErrorNoticeTTL},
		{"unset success", Notice{Level: NoticeSuccess}, SuccessNoticeTTL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.notice.Lifetime(); got != tt.want {
				t.Errorf("Lifetime() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNotice_IsError(t *testing.T) {
	if !ErrorNotice("x").IsError() {
		t.Error("Error notice should report IsError")
	}
	if SuccessNotice("x").IsError() {
		t.Error("Success notice should not report IsError")
	}
}
