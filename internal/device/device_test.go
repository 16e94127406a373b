package device

import (
	"errors"
	"testing"

	"devframe/internal/logging"
)

const (
	uaLinuxFirefox  = "Mozilla/5.0 (X11; Linux x86_64; rv:121.0) Gecko/20100101 Firefox/121.0"
	uaWindowsChrome = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	uaMacSafari     = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.1 Safari/605.1.15"
	uaIPhone        = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_1 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.1 Mobile/15E148 Safari/604.1"
	uaIPad          = "Mozilla/5.0 (iPad; CPU OS 17_1 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.1 Mobile/15E148 Safari/604.1"
	uaAndroidPhone  = "Mozilla/5.0 (Linux; Android 14; Pixel 8) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Mobile Safari/537.36"
	uaAndroidTablet = "Mozilla/5.0 (Linux; Android 13; SM-X700) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

func TestDetector_IsNativeMobile(t *testing.T) {
	tests := []struct {
		name string
		d    Detector
		want bool
	}{
		{"desktop ua fine pointer", Detector{UserAgent: uaLinuxFirefox, Pointer: PointerFine}, false},
		{"desktop ua coarse pointer", Detector{UserAgent: uaWindowsChrome, Pointer: PointerCoarse}, false},
		{"iphone ua", Detector{UserAgent: uaIPhone}, true},
		{"android phone ua", Detector{UserAgent: uaAndroidPhone}, true},
		{"ipad ua", Detector{UserAgent: uaIPad, Pointer: PointerCoarse}, true},
		{"android tablet ua", Detector{UserAgent: uaAndroidTablet}, true},
		{"ipados desktop-mode ua coarse pointer", Detector{UserAgent: uaMacSafari, Pointer: PointerCoarse}, true},
		{"mac safari fine pointer", Detector{UserAgent: uaMacSafari, Pointer: PointerFine}, false},
		{"coarse pointer no ua", Detector{Pointer: PointerCoarse}, true},
		{"unparseable ua with mobile hint", Detector{UserAgent: "NokiaN95/Mobile-1.0"}, true},
		{"unparseable ua fine pointer", Detector{UserAgent: "curl/8.4.0", Pointer: PointerFine}, false},
		{"empty", Detector{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.d.IsNativeMobile(); got != tt.want {
				t.Errorf("IsNativeMobile() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClassifyUserAgent(t *testing.T) {
	tests := []struct {
		name    string
		ua      string
		coarse  bool
		want    string
		wantErr error
	}{
		{"iphone", uaIPhone, true, TypeMobile, nil},
		{"android phone", uaAndroidPhone, true, TypeMobile, nil},
		{"ipad", uaIPad, true, TypeTablet, nil},
		{"ipados desktop mode", uaMacSafari, true, TypeTablet, nil},
		{"mac", uaMacSafari, false, TypeDesktop, nil},
		{"windows", uaWindowsChrome, false, TypeDesktop, nil},
		{"no platform section", "curl/8.4.0", false, "", ErrUnparseableUA},
		{"empty", "", false, "", ErrUnparseableUA},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ClassifyUserAgent(tt.ua, tt.coarse)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ClassifyUserAgent() error = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ClassifyUserAgent() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDetector_IsNativeMobile_LogsPath(t *testing.T) {
	tests := []struct {
		name string
		ua   string
		want string
	}{
		{"parsed", uaIPad, "ua parser check"},
		{"unparseable", "NokiaN95/Mobile-1.0", "fallback mobile check"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lm := logging.NewTestLogManager(10)
			defer func() { _ = lm.Close() }()

			Detector{UserAgent: tt.ua, Logger: lm.For("device")}.IsNativeMobile()

			entries := lm.Drain()
			if len(entries) != 1 || entries[0].Message != tt.want {
				t.Fatalf("entries = %+v, want one %q", entries, tt.want)
			}
			if entries[0].Fields["mobile"] != true {
				t.Errorf("mobile field = %v, want true", entries[0].Fields["mobile"])
			}
		})
	}
}

func TestDetector_Orientation(t *testing.T) {
	size := func(w, h int) func() (int, int) { return func() (int, int) { return w, h } }

	tests := []struct {
		name          string
		viewport      func() (int, int)
		wantPortrait  bool
		wantLandscape bool
	}{
		{"portrait", size(390, 844), true, false},
		{"landscape", size(844, 390), false, true},
		{"square", size(500, 500), false, true},
		{"no viewport", nil, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Detector{Viewport: tt.viewport}
			if d.IsPortrait() != tt.wantPortrait || d.IsLandscape() != tt.wantLandscape {
				t.Errorf("portrait=%v landscape=%v", d.IsPortrait(), d.IsLandscape())
			}
		})
	}
}

type panicking struct{}

func (panicking) IsNativeMobile() bool  { panic("no user agent") }
func (panicking) IsPortrait() bool      { panic("no media query") }
func (panicking) IsLandscape() bool     { panic("no media query") }
func (panicking) IsCoarsePointer() bool { panic("no media query") }

func TestSafe_FailsOpen(t *testing.T) {
	lm := logging.NewTestLogManager(10)
	defer func() { _ = lm.Close() }()

	c := Safe(panicking{}, lm.For("device"))

	if c.IsNativeMobile() || c.IsPortrait() || c.IsCoarsePointer() {
		t.Error("failed queries should answer false")
	}
	if !c.IsLandscape() {
		t.Error("failed landscape query should answer true")
	}

	var warns int
	for _, e := range lm.Drain() {
		if e.Message == "capability query failed" {
			warns++
		}
	}
	if warns != 4 {
		t.Errorf("warnings = %d, want 4", warns)
	}
}

func TestSafe_NilCapability(t *testing.T) {
	c := Safe(nil, nil)
	if c.IsNativeMobile() || c.IsPortrait() || !c.IsLandscape() {
		t.Error("nil capability should read as desktop landscape")
	}
}

func TestSafe_PassesThrough(t *testing.T) {
	c := Safe(Static{Mobile: true, Portrait: true, Coarse: true}, nil)
	if !c.IsNativeMobile() || !c.IsPortrait() || c.IsLandscape() || !c.IsCoarsePointer() {
		t.Error("Safe should pass answers through")
	}
}
