package buildinfo

import (
	"runtime/debug"
	"strings"
	"testing"
)

func stubBuildInfo(t *testing.T, bi *debug.BuildInfo, stamped [3]string) {
	t.Helper()
	prevRead := readBuildInfo
	prevVersion, prevCommit, prevDate := Version, Commit, Date
	t.Cleanup(func() {
		readBuildInfo = prevRead
		Version, Commit, Date = prevVersion, prevCommit, prevDate
	})
	readBuildInfo = func() (*debug.BuildInfo, bool) { return bi, bi != nil }
	Version, Commit, Date = stamped[0], stamped[1], stamped[2]
}

func embedded() *debug.BuildInfo {
	return &debug.BuildInfo{
		Main: debug.Module{Path: "github.com/matzehuels/courseflow", Version: "v0.2.1"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "0123456789abcdef"},
			{Key: "vcs.time", Value: "2026-10-01T12:00:00Z"},
			{Key: "vcs.modified", Value: "true"},
		},
	}
}

func TestGet(t *testing.T) {
	tests := []struct {
		name    string
		bi      *debug.BuildInfo
		stamped [3]string
		want    Info
	}{
		{
			name:    "unstamped uses embedded data",
			bi:      embedded(),
			stamped: [3]string{"dev", "none", "unknown"},
			want:    Info{Version: "v0.2.1", Commit: "0123456789abcdef", Date: "2026-10-01T12:00:00Z", Modified: true},
		},
		{
			name:    "stamped values win",
			bi:      embedded(),
			stamped: [3]string{"v1.0.0", "feedbeef", "2026-10-19"},
			want:    Info{Version: "v1.0.0", Commit: "feedbeef", Date: "2026-10-19", Modified: true},
		},
		{
			name:    "devel module keeps dev",
			bi:      &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}},
			stamped: [3]string{"dev", "none", "unknown"},
			want:    Info{Version: "dev", Commit: "none", Date: "unknown"},
		},
		{
			name:    "no build info",
			stamped: [3]string{"dev", "none", "unknown"},
			want:    Info{Version: "dev", Commit: "none", Date: "unknown"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stubBuildInfo(t, tt.bi, tt.stamped)
			got := Get()
			if got.GoVersion == "" {
				t.Error("GoVersion empty")
			}
			got.GoVersion = ""
			if got != tt.want {
				t.Errorf("Get() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestShort(t *testing.T) {
	tests := []struct {
		info Info
		want string
	}{
		{Info{Version: "v0.2.1", Commit: "0123456789abcdef"}, "v0.2.1 (0123456)"},
		{Info{Version: "dev", Commit: "none"}, "dev (none)"},
		{Info{Version: "v0.2.1", Commit: "abc", Modified: true}, "v0.2.1 (abc+dirty)"},
	}
	for _, tt := range tests {
		if got := tt.info.Short(); got != tt.want {
			t.Errorf("Short() = %q, want %q", got, tt.want)
		}
	}
}

func TestTemplate(t *testing.T) {
	stubBuildInfo(t, nil, [3]string{"v1.0.0", "feedbeefcafe", "2026-10-19"})
	got := Template()
	if !strings.HasPrefix(got, "{{.Name}} v1.0.0 (feedbee)") || !strings.Contains(got, "built 2026-10-19") {
		t.Errorf("Template() = %q", got)
	}
}
