package preview

import "testing"

func TestStyles_AllFlavors(t *testing.T) {
	flavors := []string{"latte", "frappe", "macchiato", "mocha", "unknown"}

	for _, flavor := range flavors {
		t.Run(flavor, func(t *testing.T) {
			styles := NewStyles(flavor)
			if styles.TitleStyle().Render("x") == "" {
				t.Error("TitleStyle rendered nothing")
			}
			_ = styles.FrameStyle(true)
			_ = styles.FrameStyle(false)
			_ = styles.OverlayStyle()
			_ = styles.ButtonStyle(true)
			for _, level := range []string{"DEBUG", "INFO", "WARN", "ERROR"} {
				_ = styles.LogLevelStyle(level)
			}
		})
	}
}

func TestStyles_Emphasis(t *testing.T) {
	styles := NewStyles("mocha")
	if !styles.ButtonStyle(true).GetBold() {
		t.Error("active button should be bold")
	}
	if styles.ButtonStyle(false).GetBold() {
		t.Error("inactive button should not be bold")
	}
	if !styles.LogLevelStyle("ERROR").GetBold() || styles.LogLevelStyle("INFO").GetBold() {
		t.Error("only ERROR badges are bold")
	}
}
