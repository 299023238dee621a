package device

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const lockstarPkg = "com.samsung.systemui.lockstar"

func readFixture(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile("testdata/" + name)
	require.NoError(t, err)
	return string(data)
}

func TestParseVersionName(t *testing.T) {
	v, ok := parseVersionName(readFixture(t, "dumpsys_lockstar.txt"))
	require.True(t, ok)
	assert.Equal(t, "3.0.01.3", v)

	_, ok = parseVersionName("Unable to find package: com.example")
	assert.False(t, ok)
}

func TestParseResolverActivities(t *testing.T) {
	got := parseResolverActivities(readFixture(t, "dumpsys_lockstar.txt"), lockstarPkg)
	assert.Equal(t, []string{
		"com.samsung.systemui.lockstar.presentation.ui.ShortcutActivity",
		"com.samsung.systemui.lockstar.presentation.ui.LockStarActivity",
		"com.samsung.systemui.lockstar.widget.WidgetConfigActivity",
	}, got)
}

func TestParseDisabledComponents(t *testing.T) {
	got := parseDisabledComponents(readFixture(t, "dumpsys_lockstar.txt"))
	assert.Equal(t, map[string]bool{
		"com.samsung.systemui.lockstar.widget.WidgetConfigActivity": true,
	}, got)
}

func TestParseLauncherActivities(t *testing.T) {
	got := parseLauncherActivities(readFixture(t, "dumpsys_lockstar.txt"), lockstarPkg)
	assert.Equal(t, []Component{
		{Package: lockstarPkg, Class: "com.samsung.systemui.lockstar.presentation.ui.LockStarActivity"},
	}, got)
}

func TestParseLauncherActivitiesWithoutCategories(t *testing.T) {
	dumpsys := `Activity Resolver Table:
  Non-Data Actions:
      android.intent.action.MAIN:
        1111111 com.example.app/.SplashActivity filter 2222222
        3333333 com.example.app/.MainActivity filter 4444444
`
	got := parseLauncherActivities(dumpsys, "com.example.app")
	assert.Equal(t, []Component{
		{Package: "com.example.app", Class: "com.example.app.SplashActivity"},
		{Package: "com.example.app", Class: "com.example.app.MainActivity"},
	}, got)
}

func TestParseResolvedComponent(t *testing.T) {
	tests := []struct {
		name   string
		out    string
		want   Component
		wantOK bool
	}{
		{
			name: "brief components",
			out: "priority=0 preferredOrder=0 match=0x108000 specificIndex=-1 isDefault=false\n" +
				"com.samsung.systemui.lockstar/.presentation.ui.LockStarActivity\n",
			want:   Component{Package: lockstarPkg, Class: "com.samsung.systemui.lockstar.presentation.ui.LockStarActivity"},
			wantOK: true,
		},
		{
			name:   "full class name",
			out:    "com.android.settings/com.samsung.android.settings.routine.RoutineSettings\n",
			want:   Component{Package: "com.android.settings", Class: "com.samsung.android.settings.routine.RoutineSettings"},
			wantOK: true,
		},
		{name: "no activity", out: "No activity found\n"},
		{name: "empty", out: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseResolvedComponent(tt.out)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
