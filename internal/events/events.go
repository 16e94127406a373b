// Package events contains message types shared between the web and preview
// packages.
package events

import "devframe/internal/config"

// ActionMsg is sent by the web server when a simulator action is posted.
type ActionMsg struct {
	Name string
}

// ConfigReloadedMsg is sent by the config watcher after a successful reload.
type ConfigReloadedMsg struct {
	Config config.Config
}

// WebListenURLMsg is sent when the web server starts listening.
type WebListenURLMsg struct{ URL string }
