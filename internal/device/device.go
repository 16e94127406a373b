// pattern: Functional Core

// Package device answers device-class and orientation questions from
// environment signals.
package device

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/mssola/useragent"

	"devframe/internal/logging"
)

// Capability is the set of environment queries the orientation gate needs.
// Implementations hold no state of their own and answer at call time.
type Capability interface {
	IsNativeMobile() bool
	IsPortrait() bool
	IsLandscape() bool
	IsCoarsePointer() bool
}

// mobileUA is the hint used when the user agent cannot be parsed.
var mobileUA = regexp.MustCompile(`(?i)android|iphone|ipad|ipod|mobile`)

// Device types reported by ClassifyUserAgent.
const (
	TypeMobile  = "mobile"
	TypeTablet  = "tablet"
	TypeDesktop = "desktop"
)

// ErrUnparseableUA is returned for user agents without a platform comment.
var ErrUnparseableUA = errors.New("user agent has no platform section")

// Pointer kinds reported by the environment.
const (
	PointerCoarse = "coarse"
	PointerFine   = "fine"
)

// Detector derives capabilities from a user agent string, a pointer kind
// and the current viewport. A nil Viewport answers false to both
// orientation queries. Logger may be nil.
type Detector struct {
	UserAgent string
	Pointer   string
	Viewport  func() (width, height int)
	Logger    *logging.ScopedLogger
}

func (d Detector) logger() *logging.ScopedLogger {
	if d.Logger == nil {
		return logging.NopLogger()
	}
	return d.Logger
}

// IsCoarsePointer reports a touch-style primary pointer.
func (d Detector) IsCoarsePointer() bool {
	return d.Pointer == PointerCoarse
}

// IsNativeMobile classifies the user agent first: phones and tablets are
// native mobile. When the user agent cannot be parsed it falls back to a
// coarse pointer or a mobile hint in the raw string.
func (d Detector) IsNativeMobile() bool {
	kind, err := ClassifyUserAgent(d.UserAgent, d.IsCoarsePointer())
	if err == nil {
		mobile := kind == TypeMobile || kind == TypeTablet
		d.logger().Debug("ua parser check", "type", kind, "mobile", mobile)
		return mobile
	}
	if !errors.Is(err, ErrUnparseableUA) {
		d.logger().Warn("ua parser failed, fallback", "error", err)
	}

	coarse := d.IsCoarsePointer()
	hint := mobileUA.MatchString(d.UserAgent)
	d.logger().Debug("fallback mobile check", "mobile", coarse || hint, "coarse", coarse, "ua_hint", hint)
	return coarse || hint
}

// ClassifyUserAgent returns TypeMobile, TypeTablet or TypeDesktop for raw.
// coarse reports a touch pointer; it separates iPadOS, whose Safari sends a
// desktop Macintosh user agent, from a Mac.
func ClassifyUserAgent(raw string, coarse bool) (kind string, err error) {
	if !strings.Contains(raw, "(") {
		return "", ErrUnparseableUA
	}
	defer func() {
		if r := recover(); r != nil {
			kind, err = "", fmt.Errorf("parse user agent: %v", r)
		}
	}()

	ua := useragent.New(raw)
	platform := ua.Platform()
	osName := strings.ToLower(ua.OS())

	switch {
	case ua.Bot():
		return TypeDesktop, nil
	case platform == "iPad", strings.Contains(osName, "tablet"):
		return TypeTablet, nil
	case strings.Contains(osName, "android") && !ua.Mobile():
		// Android tablets omit the "Mobile" token.
		return TypeTablet, nil
	case platform == "iPhone", platform == "iPod", ua.Mobile():
		return TypeMobile, nil
	case platform == "Macintosh" && coarse:
		return TypeTablet, nil
	default:
		return TypeDesktop, nil
	}
}

// IsPortrait reports a viewport taller than wide.
func (d Detector) IsPortrait() bool {
	if d.Viewport == nil {
		return false
	}
	w, h := d.Viewport()
	return h > w
}

// IsLandscape reports a viewport at least as wide as tall.
func (d Detector) IsLandscape() bool {
	if d.Viewport == nil {
		return false
	}
	w, h := d.Viewport()
	return w >= h
}

// Static answers fixed values.
type Static struct {
	Mobile   bool
	Portrait bool
	Coarse   bool
}

func (s Static) IsNativeMobile() bool  { return s.Mobile }
func (s Static) IsPortrait() bool      { return s.Portrait }
func (s Static) IsLandscape() bool     { return !s.Portrait }
func (s Static) IsCoarsePointer() bool { return s.Coarse }

// guarded recovers from a panicking Capability and answers false, which
// reads as "desktop, not portrait".
type guarded struct {
	inner  Capability
	logger *logging.ScopedLogger
}

// Safe wraps c so that a failing query is logged and answered with false.
// A nil c behaves like a desktop in landscape.
func Safe(c Capability, logger *logging.ScopedLogger) Capability {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return guarded{inner: c, logger: logger}
}

func (g guarded) ask(name string, q func(Capability) bool) (answer bool) {
	if g.inner == nil {
		return false
	}
	defer func() {
		if r := recover(); r != nil {
			g.logger.Warn("capability query failed", "query", name, "error", fmt.Sprint(r))
			answer = false
		}
	}()
	return q(g.inner)
}

func (g guarded) IsNativeMobile() bool {
	return g.ask("isNativeMobile", Capability.IsNativeMobile)
}

func (g guarded) IsPortrait() bool {
	return g.ask("isPortrait", Capability.IsPortrait)
}

// IsLandscape falls back to true: landscape is the unblocked state.
func (g guarded) IsLandscape() bool {
	if g.inner == nil {
		return true
	}
	landscape := true
	func() {
		defer func() {
			if r := recover(); r != nil {
				g.logger.Warn("capability query failed", "query", "isLandscape", "error", fmt.Sprint(r))
			}
		}()
		landscape = g.inner.IsLandscape()
	}()
	return landscape
}

func (g guarded) IsCoarsePointer() bool {
	return g.ask("isCoarsePointer", Capability.IsCoarsePointer)
}
